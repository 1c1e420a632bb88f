package calais

import (
	"net/url"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// MaxContentSize is the largest content, in characters, the service accepts.
const MaxContentSize = 100000

// Form field names of an analysis request.
const (
	FieldLicenseID = "licenseID"
	FieldContent   = "content"
	FieldParamsXML = "paramsXML"
)

// NewRequest validates content and directives, then assembles the form body of an analysis request.
func NewRequest(apiKey, content string, cfg Config) (url.Values, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set(FieldLicenseID, apiKey)
	form.Set(FieldContent, content)
	form.Set(FieldParamsXML, cfg.ParamsXML())
	return form, nil
}

func validateContent(content string) error {
	if content == "" {
		return errors.Wrap(ErrInvalidInput, "content is empty")
	}
	if n := utf8.RuneCountInString(content); n > MaxContentSize {
		return errors.Wrapf(ErrInvalidInput, "content length %d exceeds maximum of %d", n, MaxContentSize)
	}
	return nil
}
