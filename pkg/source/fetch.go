package source

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// maxFetchSize caps how much of a remote document is read.
const maxFetchSize = 10 << 20

// FromURL retrieves rawURL with client and decodes it by its Content-Type.
func FromURL(ctx context.Context, client *http.Client, rawURL string, opts Options) (Document, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Document{}, errors.Wrapf(ErrFetch, "building request for %s: %v", rawURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Document{}, errors.Wrapf(ErrFetch, "GET %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Document{}, errors.Wrapf(ErrFetch, "GET %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return Document{}, errors.Wrapf(ErrFetch, "reading %s: %v", rawURL, err)
	}

	return FromBytes(data, resp.Header.Get("Content-Type"), rawURL, opts)
}
