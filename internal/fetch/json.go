package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// countingReader compte le nombre d'octets lus via Read.
type countingReader struct {
	R io.Reader
	N int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	if n > 0 {
		c.N += int64(n)
	}
	return n, err
}

// FetchJSONInto télécharge rawURL et décode le JSON dans dst (pointeur).
// Les règles de ctx, timeout et maxBytes sont celles de FetchBytesWithTimeout.
// Le décodage se fait en flux ; un compteur détecte le dépassement de maxBytes.
func FetchJSONInto(ctx context.Context, rawURL string, timeout time.Duration, maxBytes int64, dst any) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	resp, cancel, err := get(ctx, rawURL, timeout)
	if err != nil {
		return fmt.Errorf("fetch json: %w", err)
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.ContentLength > maxBytes {
		return fmt.Errorf("fetch json: content-length %d: %w", resp.ContentLength, ErrTooLarge)
	}

	cr := &countingReader{R: io.LimitReader(resp.Body, maxBytes+1)}
	if err := json.NewDecoder(cr).Decode(dst); err != nil {
		if cr.N > maxBytes {
			return fmt.Errorf("fetch json: %w", ErrTooLarge)
		}
		return fmt.Errorf("fetch json: decode: %w", err)
	}
	if cr.N > maxBytes {
		return fmt.Errorf("fetch json: %w", ErrTooLarge)
	}
	return nil
}

// FetchJSON générique : fetch + unmarshal dans une valeur typée.
func FetchJSON[T any](ctx context.Context, rawURL string, timeout time.Duration, maxBytes int64) (T, error) {
	var v T
	if err := FetchJSONInto(ctx, rawURL, timeout, maxBytes, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
