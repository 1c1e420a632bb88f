package source

import (
	"bytes"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

func parseHTML(data []byte, src string, opts Options) (Document, error) {
	page, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return Document{}, errors.Wrapf(ErrUnreadable, "parsing HTML from %s: %v", src, err)
	}

	title := strings.TrimSpace(page.Find("title").First().Text())
	if !opts.StripHTML {
		return Document{Content: string(data), Kind: KindHTML, Title: title, Source: src}, nil
	}

	page.Find("script, style, noscript, template").Remove()
	body, err := page.Find("body").Html()
	if err != nil {
		return Document{}, errors.Wrapf(ErrUnreadable, "rendering body of %s: %v", src, err)
	}

	text, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return Document{}, errors.Wrapf(ErrUnreadable, "converting %s to text: %v", src, err)
	}

	return Document{
		Content: strings.TrimSpace(text),
		Kind:    KindText,
		Title:   title,
		Source:  src,
	}, nil
}
