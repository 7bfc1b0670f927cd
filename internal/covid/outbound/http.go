package outbound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/thomasXwang/covid-visualizer/internal/pkg/pkgerror"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "covid-visualizer"
)

type FetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// HTTPFetcher retrieves dataset CSVs. http(s) URLs go over the network;
// file:// URLs and bare paths are read from disk.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch returns the body behind url. The caller closes it. Every failure is a
// pkgerror fetch error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	switch {
	case url == "":
		return nil, pkgerror.NewFetch(errors.New("empty url"))
	case strings.HasPrefix(url, "file://"):
		return openFile(strings.TrimPrefix(url, "file://"))
	case !strings.Contains(url, "://"):
		return openFile(url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerror.NewFetch(err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pkgerror.NewFetch(err)
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		_ = resp.Body.Close()
		return nil, pkgerror.NewFetch(fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
	}

	return resp.Body, nil
}

func openFile(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, pkgerror.NewFetch(err)
	}
	return file, nil
}
