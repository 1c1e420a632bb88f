package calais

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/athapong/go-calais/pkg/source"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func newTestClient(endpoint string, opts ...Option) *Client {
	opts = append([]Option{WithEndpoint(endpoint), WithLogger(quietLogger())}, opts...)
	return NewClient("test-key", opts...)
}

func TestClient_Analyze_EndToEnd(t *testing.T) {
	const content = "Apple Inc. was founded by Steve Jobs."

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-key", r.PostForm.Get("licenseID"))
		assert.Equal(t, content, r.PostForm.Get("content"))
		params := r.PostForm.Get("paramsXML")
		assert.Contains(t, params, `contentType="TEXT/RAW"`)
		assert.Contains(t, params, `outputFormat="application/json"`)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Analyze(context.Background(), content)
	require.NoError(t, err)

	assert.Len(t, result.Entities(), 2)
	assert.Len(t, result.Relations(), 1)
	assert.Len(t, result.Topics(), 1)
	assert.Equal(t, "http://d.opencalais.com/dochash-1/abc", result.DocID())
}

func TestClient_Analyze_InvalidInputMakesNoRequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	for _, content := range []string{"", strings.Repeat("x", MaxContentSize+1)} {
		result, err := client.Analyze(context.Background(), content)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
	}

	badKey := client.Config().With(WithExternalMetadata("doc title", "x"))
	result, err := client.AnalyzeWithConfig(context.Background(), "text", badKey)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestClient_Analyze_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, "boom", ErrTransport},
		{"forbidden", http.StatusForbidden, "<h1>Developer Inactive</h1>", ErrTransport},
		{"invalid json", http.StatusOK, "<html>not json</html>", ErrTransport},
		{"json array", http.StatusOK, `[1,2,3]`, ErrMalformedResponse},
		{"missing doc", http.StatusOK, `{"http://e/1": {"_typeGroup": "entities"}}`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			result, err := newTestClient(server.URL).Analyze(context.Background(), "some text")
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestClient_Analyze_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	_, err := newTestClient(endpoint).Analyze(context.Background(), "some text")
	assert.True(t, errors.Is(err, ErrTransport), "got %v", err)
}

func TestHTTPTransport_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	transport := NewHTTPTransport(nil)
	form := url.Values{FieldContent: {"text"}}

	t.Run("cancelled before sending", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		doc, err := transport.Post(ctx, server.URL, form)
		assert.Nil(t, doc)
		assert.True(t, errors.Is(err, ErrTransport), "got %v", err)
	})

	t.Run("deadline while waiting", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		doc, err := transport.Post(ctx, server.URL, form)
		assert.Nil(t, doc)
		assert.True(t, errors.Is(err, ErrTransport), "got %v", err)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestClient_AnalyzeWithConfig(t *testing.T) {
	var params string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		params = r.PostForm.Get("paramsXML")
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	cfg := client.Config().With(WithAllowSearch(true), WithExternalID("custom-id"))
	_, err := client.AnalyzeWithConfig(context.Background(), "text", cfg)
	require.NoError(t, err)

	parsed, err := ParseDirectives(params)
	require.NoError(t, err)
	assert.Equal(t, "true", parsed[ElementUserDirectives]["allowSearch"])
	assert.Equal(t, "custom-id", parsed[ElementUserDirectives]["externalID"])
}

func TestClient_AnalyzeURL(t *testing.T) {
	const page = `<html><head><title>Founding</title></head><body><p>Apple Inc. was founded by Steve Jobs.</p></body></html>`

	var form url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, page)
	})
	mux.HandleFunc("/enlighten", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		_, _ = io.WriteString(w, sampleResponse)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	pageURL := server.URL + "/page"

	t.Run("markup", func(t *testing.T) {
		_, err := newTestClient(server.URL+"/enlighten").AnalyzeURL(context.Background(), pageURL)
		require.NoError(t, err)

		assert.Equal(t, page, form.Get(FieldContent))
		parsed, err := ParseDirectives(form.Get(FieldParamsXML))
		require.NoError(t, err)
		assert.Equal(t, ContentTypeHTML, parsed[ElementProcessingDirectives]["contentType"])
		assert.Equal(t, pageURL, parsed[ElementUserDirectives]["externalID"])
	})

	t.Run("stripped", func(t *testing.T) {
		_, err := newTestClient(server.URL+"/enlighten", WithStripHTML()).AnalyzeURL(context.Background(), pageURL)
		require.NoError(t, err)

		content := form.Get(FieldContent)
		assert.Contains(t, content, "Apple Inc. was founded by Steve Jobs.")
		assert.NotContains(t, content, "<p>")
		parsed, err := ParseDirectives(form.Get(FieldParamsXML))
		require.NoError(t, err)
		assert.Equal(t, ContentTypeRaw, parsed[ElementProcessingDirectives]["contentType"])
	})

	t.Run("per-call options", func(t *testing.T) {
		client := newTestClient(server.URL + "/enlighten")
		_, err := client.AnalyzeURLWithOptions(context.Background(), pageURL, client.Config(), source.Options{StripHTML: true})
		require.NoError(t, err)

		assert.NotContains(t, form.Get(FieldContent), "<p>")
		parsed, err := ParseDirectives(form.Get(FieldParamsXML))
		require.NoError(t, err)
		assert.Equal(t, ContentTypeRaw, parsed[ElementProcessingDirectives]["contentType"])
		assert.Equal(t, pageURL, parsed[ElementUserDirectives]["externalID"])
	})

	t.Run("fetch failure", func(t *testing.T) {
		before := counterValue(t, requestsTotal.WithLabelValues(outcomeTransport))

		_, err := newTestClient(server.URL+"/enlighten").AnalyzeURL(context.Background(), server.URL+"/missing")
		assert.True(t, errors.Is(err, ErrTransport), "got %v", err)
		assert.Equal(t, before+1, counterValue(t, requestsTotal.WithLabelValues(outcomeTransport)))
	})
}

type fakeTransport struct {
	endpoint string
	form     url.Values
	doc      map[string]interface{}
	err      error
}

func (f *fakeTransport) Post(_ context.Context, endpoint string, form url.Values) (map[string]interface{}, error) {
	f.endpoint = endpoint
	f.form = form
	return f.doc, f.err
}

func TestClient_WithTransport(t *testing.T) {
	transport := &fakeTransport{doc: decodeFixture(t, sampleResponse)}
	client := NewClient("k", WithTransport(transport), WithLogger(quietLogger()))

	result, err := client.AnalyzeReader(context.Background(), strings.NewReader("from a reader"), client.Config())
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, transport.endpoint)
	assert.Equal(t, "from a reader", transport.form.Get(FieldContent))
	assert.Len(t, result.Entities(), 2)
}

func TestClient_TransportErrorPassesThrough(t *testing.T) {
	sentinel := errors.New("custom transport failure")
	client := NewClient("k", WithTransport(&fakeTransport{err: sentinel}), WithLogger(quietLogger()))

	_, err := client.Analyze(context.Background(), "text")
	assert.Equal(t, sentinel, err)
}
