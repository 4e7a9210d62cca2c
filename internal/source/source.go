// Package source reads the raw bookmark export from disk or over HTTP.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// MaxSize caps the bytes read from any source.
const MaxSize = 32 << 20

// DefaultTimeout bounds a remote fetch when none is configured.
const DefaultTimeout = 10 * time.Second

// IsRemote reports whether src is fetched over HTTP.
func IsRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// LocalPath returns the filesystem path of a local source, stripping an
// optional file:// prefix. It returns "" for remote sources.
func LocalPath(src string) string {
	if IsRemote(src) {
		return ""
	}
	return strings.TrimPrefix(src, "file://")
}

// Fetch returns the raw document at src.
func Fetch(ctx context.Context, src string, timeout time.Duration) ([]byte, error) {
	if IsRemote(src) {
		return fetchHTTP(ctx, src, timeout)
	}
	return readFile(LocalPath(src))
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

func fetchHTTP(ctx context.Context, src string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}
	// Defeat intermediary caches so a reload sees the latest export.
	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return readLimited(resp.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("document exceeds %d bytes", MaxSize)
	}
	return data, nil
}
