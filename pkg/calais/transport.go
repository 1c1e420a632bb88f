package calais

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	// DefaultTimeout applies to the http.Client built when none is supplied.
	DefaultTimeout = 60 * time.Second

	formContentType = "application/x-www-form-urlencoded"
	jsonMediaType   = "application/json"

	// maxErrorBody bounds how much of a failed response ends up in the error message.
	maxErrorBody = 512
)

// Transport posts a form to the service and returns the decoded JSON document.
type Transport interface {
	Post(ctx context.Context, endpoint string, form url.Values) (map[string]interface{}, error)
}

// HTTPTransport is the net/http implementation of Transport.
// It is safe for concurrent use when the wrapped http.Client is.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps client. A nil client gets a default one with DefaultTimeout.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPTransport{client: client}
}

// Post implements Transport.
func (t *HTTPTransport) Post(ctx context.Context, endpoint string, form url.Values) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, "building request: %v", err)
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Accept", jsonMediaType)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, "request to %s failed: %v", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, "reading response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Wrapf(ErrTransport, "unexpected status %d: %s", resp.StatusCode, truncate(body, maxErrorBody))
	}

	return decodeDocument(body)
}

func decodeDocument(body []byte) (map[string]interface{}, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.Wrapf(ErrTransport, "response is not valid JSON: %s", truncate(body, maxErrorBody))
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, errors.Wrap(ErrMalformedResponse, "response is not a JSON object")
	}

	doc, ok := parsed.Value().(map[string]interface{})
	if !ok {
		return nil, errors.Wrap(ErrMalformedResponse, "response is not a JSON object")
	}
	return doc, nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
