package assets

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
)

// Source opens the content found at a catalog location.
type Source interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

type FSSource struct {
	FS fs.FS
}

func (s FSSource) Open(_ context.Context, location string) (io.ReadCloser, error) {
	if isAbsoluteURL(location) {
		return nil, fmt.Errorf("file source cannot open url %s", location)
	}
	name := path.Clean(strings.TrimPrefix(location, "/"))
	return s.FS.Open(name)
}

// HTTPSource resolves relative locations against Base. Absolute http(s)
// locations are requested as they are.
type HTTPSource struct {
	Client *http.Client
	Base   *url.URL
}

func (s HTTPSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	ref, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("bad location %s: %w", location, err)
	}
	target := ref
	if s.Base != nil {
		target = s.Base.ResolveReference(ref)
	}
	if !target.IsAbs() {
		return nil, fmt.Errorf("location %s does not resolve to an absolute url", location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: %s", target, resp.Status)
	}
	return resp.Body, nil
}

// NewSource picks a source for base: the embedded icons when empty, http(s)
// when base is a url, a directory otherwise.
func NewSource(base string) (Source, error) {
	if base == "" {
		return FSSource{FS: Default()}, nil
	}
	if isAbsoluteURL(base) {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("bad asset base %s: %w", base, err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		return HTTPSource{Client: &http.Client{}, Base: u}, nil
	}
	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("asset base: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset base %s is not a directory", base)
	}
	return FSSource{FS: os.DirFS(base)}, nil
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
