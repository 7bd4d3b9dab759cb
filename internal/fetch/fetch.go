// Package fetch télécharge de petites ressources HTTP (motifs de césure,
// réponses JSON de LRCLIB) avec un délai et une taille bornés.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 10_000_000
	DefaultUserAgent = "ttmlscribe/1.0"
)

// Erreurs exportées
var (
	ErrStatus   = errors.New("unexpected HTTP status")
	ErrTooLarge = errors.New("response body too large")
)

// Client est le client HTTP utilisé par toutes les fonctions du paquet.
// Les tests peuvent le remplacer.
var Client = &http.Client{}

// get ouvre la réponse ; l'appelant ferme le corps puis appelle cancel.
func get(ctx context.Context, rawURL string, timeout time.Duration) (*http.Response, context.CancelFunc, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := Client.Do(req)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		cancel()
		return nil, nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return resp, cancel, nil
}

// StatusError porte le code HTTP ; errors.Is(err, ErrStatus) est vrai.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string { return "unexpected http status " + e.Status }

func (e *StatusError) Unwrap() error { return ErrStatus }

// FetchBytesWithTimeout télécharge l'URL et retourne les octets.
// - ctx peut être nil.
// - timeout : si <=0 on utilise DefaultTimeout.
// - maxBytes : si <=0 on utilise DefaultMaxBytes.
func FetchBytesWithTimeout(ctx context.Context, rawURL string, timeout time.Duration, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	resp, cancel, err := get(ctx, rawURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer cancel()
	defer resp.Body.Close()

	// Content-Length connu et trop grand : échec immédiat
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("fetch: content-length %d: %w", resp.ContentLength, ErrTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1)) // +1 pour détecter le dépassement
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("fetch: more than %d bytes: %w", maxBytes, ErrTooLarge)
	}
	return data, nil
}
