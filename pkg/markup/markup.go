// Package markup extracts URLs from the camera portal's HTML and embedded
// scripts using literal substring search. The source documents are not
// guaranteed to be well-formed, so a DOM parser buys nothing here; the two
// delimiters below are all the structure the pages reliably have.
package markup

import (
	"strings"

	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/errors"
)

const (
	iframeToken  = "<iframe"
	srcAttrToken = `src="`
	imgSrcToken  = `imgsrc = "`
	closingQuote = `"`
)

// IframeSources returns the src attribute values of every iframe tag in
// html, in document order. Duplicates are kept. Fragments without a src
// attribute, or whose value has no closing quote, are skipped.
func IframeSources(html string) ([]string, error) {
	if html == "" {
		return nil, errors.NewInvalidArgument("html must not be empty")
	}

	fragments := strings.Split(html, iframeToken)

	var sources []string
	for _, fragment := range fragments[1:] {
		// The attribute casing varies across the portal's pages
		idx := strings.Index(strings.ToLower(fragment), srcAttrToken)
		if idx < 0 {
			continue
		}
		rest := fragment[idx+len(srcAttrToken):]
		end := strings.Index(rest, closingQuote)
		if end < 0 {
			continue
		}
		sources = append(sources, rest[:end])
	}

	return sources, nil
}

// ImageSource returns the URL assigned to the imgsrc variable in an iframe
// page's embedded script. An absent imgsrc token is not an error: the
// returned URL is empty and the caller skips the frame.
func ImageSource(body string) (string, error) {
	if body == "" {
		return "", errors.NewInvalidArgument("iframe body must not be empty")
	}

	parts := strings.SplitN(body, imgSrcToken, 2)
	if len(parts) < 2 {
		return "", nil
	}

	return strings.SplitN(parts[1], closingQuote, 2)[0], nil
}
