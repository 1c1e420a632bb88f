// Package calais is a client for the OpenCalais semantic analysis service.
//
// A Client submits text, a URL or a local document together with processing
// and user directives, then normalizes the flat JSON response into a Result:
// one info object, one meta object and the topics, entities and relations the
// service extracted. Cross-references between entries are inlined so that,
// for example, a relation's participants are reachable through Object.Ref.
//
// A Client holds no mutable state after construction and may be shared by
// concurrent callers as long as its Transport allows it; the default
// HTTPTransport does.
package calais

import (
	"context"
	"io"
	"net/http"

	"github.com/athapong/go-calais/pkg/source"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// DefaultEndpoint is the REST endpoint of the service.
const DefaultEndpoint = "http://api.opencalais.com/enlighten/rest/"

// Client calls the analysis service.
type Client struct {
	apiKey     string
	endpoint   string
	transport  Transport
	httpClient *http.Client
	config     Config
	sourceOpts source.Options
	logger     *logrus.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides DefaultEndpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithTransport replaces the HTTP transport used for analysis requests.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithHTTPClient sets the http.Client used for analysis requests and URL fetches.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithConfig replaces the default directives.
func WithConfig(cfg Config) Option {
	return func(c *Client) { c.config = cfg.clone() }
}

// WithStripHTML makes AnalyzeURL submit fetched pages as text rather than markup.
func WithStripHTML() Option {
	return func(c *Client) { c.sourceOpts.StripHTML = true }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Client authenticated by apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		config:   DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(c.httpClient)
	}
	if c.logger == nil {
		logger := logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		c.logger = logger
	}
	return c
}

// Config returns a copy of the client's default directives.
func (c *Client) Config() Config {
	return c.config.clone()
}

// Analyze submits text with the client's default directives.
func (c *Client) Analyze(ctx context.Context, content string) (*Result, error) {
	return c.AnalyzeWithConfig(ctx, content, c.config)
}

// AnalyzeWithConfig submits text with cfg.
func (c *Client) AnalyzeWithConfig(ctx context.Context, content string, cfg Config) (*Result, error) {
	timer := prometheus.NewTimer(requestDuration)
	defer timer.ObserveDuration()

	result, err := c.analyze(ctx, content, cfg)
	requestsTotal.WithLabelValues(outcomeOf(err)).Inc()
	if err != nil {
		return nil, err
	}
	observeResult(result)
	return result, nil
}

func (c *Client) analyze(ctx context.Context, content string, cfg Config) (*Result, error) {
	form, err := NewRequest(c.apiKey, content, cfg)
	if err != nil {
		return nil, err
	}

	logger := c.logger.WithFields(logrus.Fields{
		"endpoint":       c.endpoint,
		"content_length": len(content),
		"content_type":   cfg.Processing.ContentType,
		"external_id":    cfg.User.ExternalID,
	})
	logger.Debug("Submitting content for analysis")

	raw, err := c.transport.Post(ctx, c.endpoint, form)
	if err != nil {
		logger.WithError(err).Error("Analysis request failed")
		return nil, err
	}

	result, err := Normalize(raw)
	if err != nil {
		logger.WithError(err).Error("Failed to normalize analysis response")
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"doc_id":    result.DocID(),
		"topics":    len(result.groups[GroupTopics]),
		"entities":  len(result.groups[GroupEntities]),
		"relations": len(result.groups[GroupRelations]),
	}).Info("Analysis completed")
	return result, nil
}

// AnalyzeReader reads r fully and submits it with cfg.
func (c *Client) AnalyzeReader(ctx context.Context, r io.Reader, cfg Config) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading content")
	}
	return c.AnalyzeWithConfig(ctx, string(data), cfg)
}

// AnalyzeURL fetches rawURL and submits the document with the default directives.
func (c *Client) AnalyzeURL(ctx context.Context, rawURL string) (*Result, error) {
	return c.AnalyzeURLWithConfig(ctx, rawURL, c.config)
}

// AnalyzeURLWithConfig fetches rawURL and submits it with cfg. The external ID
// is set to rawURL and the content type follows the fetched document.
func (c *Client) AnalyzeURLWithConfig(ctx context.Context, rawURL string, cfg Config) (*Result, error) {
	return c.AnalyzeURLWithOptions(ctx, rawURL, cfg, c.sourceOpts)
}

// AnalyzeURLWithOptions is AnalyzeURLWithConfig with per-call loading options
// in place of the client's. Fetch failures are reported as ErrTransport.
func (c *Client) AnalyzeURLWithOptions(ctx context.Context, rawURL string, cfg Config, opts source.Options) (*Result, error) {
	doc, err := source.FromURL(ctx, c.httpClient, rawURL, opts)
	if err != nil {
		requestsTotal.WithLabelValues(outcomeTransport).Inc()
		return nil, errors.Wrapf(ErrTransport, "%v", err)
	}
	return c.AnalyzeDocument(ctx, doc, cfg.With(WithExternalID(rawURL)))
}

// AnalyzeFile loads a local file and submits it with cfg.
func (c *Client) AnalyzeFile(ctx context.Context, path string, cfg Config) (*Result, error) {
	doc, err := source.FromFile(path, c.sourceOpts)
	if err != nil {
		return nil, err
	}
	return c.AnalyzeDocument(ctx, doc, cfg)
}

// AnalyzeDocument submits a loaded document, setting the content type from its kind.
func (c *Client) AnalyzeDocument(ctx context.Context, doc source.Document, cfg Config) (*Result, error) {
	return c.AnalyzeWithConfig(ctx, doc.Content, cfg.With(WithContentType(ContentTypeFor(doc.Kind))))
}

// ContentTypeFor maps a document kind to the service content type.
func ContentTypeFor(kind source.Kind) string {
	if kind == source.KindHTML {
		return ContentTypeHTML
	}
	return ContentTypeRaw
}
