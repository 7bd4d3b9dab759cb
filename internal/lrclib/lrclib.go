// Package lrclib interroge l'API publique LRCLIB et convertit ses pistes en
// documents lyric.
package lrclib

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/patrickprogramme/ttmlscribe/internal/fetch"
	"github.com/patrickprogramme/ttmlscribe/internal/logging"
	"github.com/patrickprogramme/ttmlscribe/internal/lrc"
	"github.com/patrickprogramme/ttmlscribe/internal/lyric"
)

const (
	DefaultBaseURL = "https://lrclib.net/api"
	maxResponse    = 5_000_000
)

// ErrNotFound : aucune piste ne correspond à la requête.
var ErrNotFound = errors.New("lrclib: track not found")

// Track est une piste telle que renvoyée par l'API.
type Track struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  *string `json:"plainLyrics"`
	SyncedLyrics *string `json:"syncedLyrics"`
}

// Title retourne le titre ; l'API le publie selon les versions sous name ou
// trackName.
func (t Track) Title() string {
	if t.TrackName != "" {
		return t.TrackName
	}
	return t.Name
}

// ToLyric convertit la piste. Les paroles synchronisées (LRC) priment sur le
// texte brut.
func (t Track) ToLyric() *lyric.Lyric {
	d := &lyric.Lyric{}
	switch {
	case t.SyncedLyrics != nil && strings.TrimSpace(*t.SyncedLyrics) != "":
		d.Lines = lrc.Parse(*t.SyncedLyrics)
	case t.PlainLyrics != nil:
		d.Lines = lrc.ParsePlain(*t.PlainLyrics)
	}
	if v := t.Title(); v != "" {
		d.AddMetadata("musicName", v)
	}
	if t.ArtistName != "" {
		d.AddMetadata("artists", t.ArtistName)
	}
	if t.AlbumName != "" {
		d.AddMetadata("album", t.AlbumName)
	}
	return d
}

// Client interroge une instance LRCLIB.
type Client struct {
	BaseURL string
	Timeout time.Duration
	log     zerolog.Logger
}

// NewClient crée un client ; baseURL vide vaut DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
		log:     logging.WithComponent("lrclib"),
	}
}

// Get cherche la piste exacte. album et durationSec sont facultatifs
// (vide / 0).
func (c *Client) Get(ctx context.Context, track, artist, album string, durationSec int) (Track, error) {
	q := url.Values{}
	q.Set("track_name", track)
	q.Set("artist_name", artist)
	if album != "" {
		q.Set("album_name", album)
	}
	if durationSec > 0 {
		q.Set("duration", strconv.Itoa(durationSec))
	}
	return c.track(ctx, c.BaseURL+"/get?"+q.Encode())
}

// GetByID récupère une piste par son identifiant LRCLIB.
func (c *Client) GetByID(ctx context.Context, id int64) (Track, error) {
	return c.track(ctx, c.BaseURL+"/get/"+strconv.FormatInt(id, 10))
}

// Search effectue une recherche libre ; une requête vide ne fait pas d'appel.
func (c *Client) Search(ctx context.Context, query string) ([]Track, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	u := c.BaseURL + "/search?" + url.Values{"q": {query}}.Encode()
	tracks, err := fetch.FetchJSON[[]Track](ctx, u, c.Timeout, maxResponse)
	if err != nil {
		return nil, fmt.Errorf("lrclib search: %w", err)
	}
	c.log.Debug().Str("query", query).Int("results", len(tracks)).Msg("search")
	return tracks, nil
}

func (c *Client) track(ctx context.Context, u string) (Track, error) {
	t, err := fetch.FetchJSON[Track](ctx, u, c.Timeout, maxResponse)
	if err != nil {
		var se *fetch.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return Track{}, ErrNotFound
		}
		return Track{}, fmt.Errorf("lrclib get: %w", err)
	}
	c.log.Debug().Int64("id", t.ID).Str("title", t.Title()).Msg("track found")
	return t, nil
}
