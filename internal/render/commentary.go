package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
)

// NoSummary is shown when a payload carries no commentary.
const NoSummary = "No summary provided."

var markdown = goldmark.New()

// Commentary is the rendered list of summary bullets.
type Commentary struct {
	Items []template.HTML
	// Empty is set when the payload had no summary and Items holds the
	// NoSummary placeholder.
	Empty bool
}

// RenderCommentary converts each markdown summary item to an inline HTML
// fragment. Raw HTML in the input is not passed through.
func RenderCommentary(summary []string) (Commentary, error) {
	if len(summary) == 0 {
		return Commentary{Items: []template.HTML{NoSummary}, Empty: true}, nil
	}

	items := make([]template.HTML, 0, len(summary))
	for i, s := range summary {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(s), &buf); err != nil {
			return Commentary{}, eris.Wrapf(err, "render: summary item %d", i)
		}
		items = append(items, template.HTML(unwrapParagraph(buf.String()))) //nolint:gosec
	}
	return Commentary{Items: items}, nil
}

// unwrapParagraph strips the single <p> goldmark wraps around inline text so
// the fragment sits directly inside a list item.
func unwrapParagraph(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<p>") && strings.HasSuffix(s, "</p>") && strings.Count(s, "<p>") == 1 {
		return strings.TrimSuffix(strings.TrimPrefix(s, "<p>"), "</p>")
	}
	return s
}
