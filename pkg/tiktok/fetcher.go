package tiktok

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// ErrFetcherDisabled is returned when no TikTok API is configured.
var ErrFetcherDisabled = errors.New("tiktok fetcher disabled")

// Status is the current state of a TikTok account
type Status struct {
	LatestVideoAt  time.Time
	LatestVideoURL string
	IsLive         bool
}

// Fetcher reads the state of a TikTok account.
type Fetcher interface {
	Fetch(ctx context.Context, username string) (Status, error)
}

// DisabledFetcher always fails with ErrFetcherDisabled.
type DisabledFetcher struct{}

func (DisabledFetcher) Fetch(context.Context, string) (Status, error) {
	return Status{}, ErrFetcherDisabled
}

type apiResponse struct {
	LatestVideoAt  int64  `json:"latest_video_at"`
	LatestVideoURL string `json:"latest_video_url"`
	IsLive         bool   `json:"is_live"`
}

// HTTPFetcher queries a metadata API: GET <BaseURL>?username=<name>
// answering {"latest_video_at": unix, "latest_video_url": "...", "is_live": bool}.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{BaseURL: baseURL, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, username string) (Status, error) {
	u, err := url.Parse(f.BaseURL)
	if err != nil {
		return Status{}, fmt.Errorf("parse api url: %w", err)
	}
	q := u.Query()
	q.Set("username", username)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Status{}, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("fetch @%s: %w", username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Status{}, fmt.Errorf("fetch @%s: status %d", username, resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Status{}, fmt.Errorf("decode @%s: %w", username, err)
	}

	st := Status{LatestVideoURL: body.LatestVideoURL, IsLive: body.IsLive}
	if body.LatestVideoAt > 0 {
		st.LatestVideoAt = time.Unix(body.LatestVideoAt, 0)
	}
	return st, nil
}
