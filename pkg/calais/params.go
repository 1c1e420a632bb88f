package calais

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const (
	predicateNamespace = "http://s.opencalais.com/1/pred/"
	rdfNamespace       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	paramsHeader = `<c:params xmlns:c="` + predicateNamespace + `" xmlns:rdf="` + rdfNamespace + `">`
	paramsFooter = `</c:params>`
)

// Directive element names inside the params block.
const (
	ElementProcessingDirectives = "processingDirectives"
	ElementUserDirectives       = "userDirectives"
	ElementExternalMetadata     = "externalMetadata"
)

type attribute struct {
	name  string
	value string
}

// ParamsXML renders the directives as the paramsXML form field.
func (c Config) ParamsXML() string {
	var sb strings.Builder
	sb.WriteString(paramsHeader)
	writeDirectives(&sb, ElementProcessingDirectives, c.Processing.attributes())
	writeDirectives(&sb, ElementUserDirectives, c.User.attributes())
	writeDirectives(&sb, ElementExternalMetadata, metadataAttributes(c.ExternalMetadata))
	sb.WriteString(paramsFooter)
	return sb.String()
}

// Validate reports ErrInvalidInput when an external metadata key cannot be
// written as an XML attribute name.
func (c Config) Validate() error {
	for _, a := range metadataAttributes(c.ExternalMetadata) {
		if !isNCName(a.name) {
			return errors.Wrapf(ErrInvalidInput, "external metadata key %q is not a valid XML name", a.name)
		}
	}
	return nil
}

// isNCName reports whether name is a non-colonized XML name.
func isNCName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

func writeDirectives(sb *strings.Builder, element string, attrs []attribute) {
	sb.WriteString("<c:")
	sb.WriteString(element)
	for _, a := range attrs {
		fmt.Fprintf(sb, ` c:%s="%s"`, a.name, escapeAttr(a.value))
	}
	sb.WriteString("/>")
}

func escapeAttr(value string) string {
	var sb strings.Builder
	// Writes to a strings.Builder never fail.
	_ = xml.EscapeText(&sb, []byte(value))
	return sb.String()
}

// ParseDirectives reads a params block back into attribute sets keyed by
// directive element name. Attribute order is not preserved.
func ParseDirectives(paramsXML string) (map[string]map[string]string, error) {
	out := map[string]map[string]string{}
	dec := xml.NewDecoder(strings.NewReader(paramsXML))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "parsing params XML")
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case ElementProcessingDirectives, ElementUserDirectives, ElementExternalMetadata:
			attrs := make(map[string]string, len(start.Attr))
			for _, a := range start.Attr {
				attrs[a.Name.Local] = a.Value
			}
			out[start.Name.Local] = attrs
		}
	}
}
