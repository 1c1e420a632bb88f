package source

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

func parsePDF(data []byte, src string) (Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, errors.Wrapf(ErrUnreadable, "opening PDF %s: %v", src, err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}

	return Document{
		Content: strings.TrimSpace(sb.String()),
		Kind:    KindText,
		Title:   strings.TrimSpace(r.Trailer().Key("Info").Key("Title").Text()),
		Source:  src,
	}, nil
}
