package calais

import (
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// Version of the client, reported to the service in the submitter directive.
const Version = "0.3.0"

// Content types understood by the service.
const (
	ContentTypeRaw     = "TEXT/RAW"
	ContentTypeText    = "TEXT/TXT"
	ContentTypeHTML    = "TEXT/HTML"
	ContentTypeHTMLRaw = "TEXT/HTMLRAW"
	ContentTypeXML     = "TEXT/XML"
)

const (
	// OutputFormatJSON is the only output format Normalize understands.
	OutputFormatJSON = "application/json"

	// DefaultSubmitter identifies this client in the user directives.
	DefaultSubmitter = "go-calais client v " + Version
)

// ProcessingDirectives control how the service analyzes submitted content.
type ProcessingDirectives struct {
	ContentType             string
	OutputFormat            string
	CalculateRelevanceScore bool
	DocRDFAccessible        bool

	// Optional; omitted from the request when empty.
	ReltagBaseURL      string
	EnableMetadataType string
}

func (d ProcessingDirectives) attributes() []attribute {
	attrs := []attribute{
		{"contentType", d.ContentType},
		{"outputFormat", d.OutputFormat},
	}
	if d.ReltagBaseURL != "" {
		attrs = append(attrs, attribute{"reltagBaseURL", d.ReltagBaseURL})
	}
	attrs = append(attrs, attribute{"calculateRelevanceScore", strconv.FormatBool(d.CalculateRelevanceScore)})
	if d.EnableMetadataType != "" {
		attrs = append(attrs, attribute{"enableMetadataType", d.EnableMetadataType})
	}
	return append(attrs, attribute{"docRDFaccessible", strconv.FormatBool(d.DocRDFAccessible)})
}

// UserDirectives control distribution, search permissions and caller identification.
type UserDirectives struct {
	AllowDistribution bool
	AllowSearch       bool
	ExternalID        string
	Submitter         string
}

func (d UserDirectives) attributes() []attribute {
	return []attribute{
		{"allowDistribution", strconv.FormatBool(d.AllowDistribution)},
		{"allowSearch", strconv.FormatBool(d.AllowSearch)},
		{"externalID", d.ExternalID},
		{"submitter", d.Submitter},
	}
}

// Config holds the directives serialized into every analysis request.
// A Config is a value: use With to derive a modified copy.
type Config struct {
	Processing       ProcessingDirectives
	User             UserDirectives
	ExternalMetadata map[string]string
}

// DefaultConfig returns the default directives with a freshly generated external ID.
func DefaultConfig() Config {
	return Config{
		Processing: ProcessingDirectives{
			ContentType:             ContentTypeRaw,
			OutputFormat:            OutputFormatJSON,
			CalculateRelevanceScore: true,
			DocRDFAccessible:        true,
		},
		User: UserDirectives{
			AllowDistribution: false,
			AllowSearch:       false,
			ExternalID:        uuid.New().String(),
			Submitter:         DefaultSubmitter,
		},
		ExternalMetadata: map[string]string{},
	}
}

// ConfigOption overrides a single directive.
type ConfigOption func(*Config)

// With returns a copy of c with opts applied. c itself is left untouched.
func (c Config) With(opts ...ConfigOption) Config {
	out := c.clone()
	for _, opt := range opts {
		opt(&out)
	}
	return out
}

func (c Config) clone() Config {
	out := c
	out.ExternalMetadata = make(map[string]string, len(c.ExternalMetadata))
	for k, v := range c.ExternalMetadata {
		out.ExternalMetadata[k] = v
	}
	return out
}

func WithContentType(contentType string) ConfigOption {
	return func(c *Config) { c.Processing.ContentType = contentType }
}

func WithOutputFormat(format string) ConfigOption {
	return func(c *Config) { c.Processing.OutputFormat = format }
}

func WithRelevanceScore(enabled bool) ConfigOption {
	return func(c *Config) { c.Processing.CalculateRelevanceScore = enabled }
}

func WithDocRDFAccessible(enabled bool) ConfigOption {
	return func(c *Config) { c.Processing.DocRDFAccessible = enabled }
}

func WithReltagBaseURL(baseURL string) ConfigOption {
	return func(c *Config) { c.Processing.ReltagBaseURL = baseURL }
}

func WithMetadataType(metadataType string) ConfigOption {
	return func(c *Config) { c.Processing.EnableMetadataType = metadataType }
}

func WithAllowDistribution(allow bool) ConfigOption {
	return func(c *Config) { c.User.AllowDistribution = allow }
}

func WithAllowSearch(allow bool) ConfigOption {
	return func(c *Config) { c.User.AllowSearch = allow }
}

func WithExternalID(id string) ConfigOption {
	return func(c *Config) { c.User.ExternalID = id }
}

func WithSubmitter(submitter string) ConfigOption {
	return func(c *Config) { c.User.Submitter = submitter }
}

// WithExternalMetadata sets one attribute of the externalMetadata element.
func WithExternalMetadata(key, value string) ConfigOption {
	return func(c *Config) {
		if c.ExternalMetadata == nil {
			c.ExternalMetadata = map[string]string{}
		}
		c.ExternalMetadata[key] = value
	}
}

func metadataAttributes(metadata map[string]string) []attribute {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]attribute, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, attribute{k, metadata[k]})
	}
	return attrs
}
