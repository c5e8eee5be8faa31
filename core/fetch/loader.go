// Package fetch implements the Loader interface.
// A location is "-" for stdin, an http(s) URL, or a file path.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/mailpipe/core"
)

const (
	// DefaultTimeout bounds a single URL fetch.
	DefaultTimeout   = 30 * time.Second
	defaultUserAgent = "MailPipe/1.0 (https://github.com/gaurav-prasanna/mailpipe)"
)

// Stdin is the location that reads from standard input.
const Stdin = "-"

// SourceLoader loads markup from stdin, files and URLs.
type SourceLoader struct {
	client *http.Client
	stdin  io.Reader
	log    *zap.Logger
}

// New creates a SourceLoader. A non-positive timeout uses DefaultTimeout.
func New(timeout time.Duration, log *zap.Logger) *SourceLoader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SourceLoader{
		client: &http.Client{Timeout: timeout},
		stdin:  os.Stdin,
		log:    log.Named("fetch"),
	}
}

// SetStdin replaces the reader used for the "-" location.
func (l *SourceLoader) SetStdin(r io.Reader) {
	l.stdin = r
}

// Load reads the markup at location.
func (l *SourceLoader) Load(ctx context.Context, location string) (*core.Source, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case location == Stdin:
		data, err = io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
	case IsURL(location):
		data, err = l.fetch(ctx, location)
		if err != nil {
			return nil, err
		}
	default:
		data, err = os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
	}

	l.log.Debug("Loaded source", zap.String("location", location), zap.Int("bytes", len(data)))
	return &core.Source{Location: location, HTML: string(data)}, nil
}

func (l *SourceLoader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// IsURL reports whether location is an http or https URL.
func IsURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
