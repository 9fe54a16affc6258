package soap

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdown = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

	htmlTagPattern = regexp.MustCompile(`(?i)<(p|ul|ol|li|br|strong|em|b|i|u|h[1-6]|div|span|table)\b[^>]*>`)
)

// RenderContent converts model-written text to the HTML the note editor
// stores. Content that already contains HTML markup is returned unchanged.
func RenderContent(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || htmlTagPattern.MatchString(text) {
		return text
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return text
	}
	return strings.TrimSpace(buf.String())
}

// RenderText rewrites every text section's content through RenderContent.
func (d *Document) RenderText() {
	for _, name := range SectionNames {
		s := d.Section(name)
		if s.Kind == KindText {
			s.Content = RenderContent(s.Content)
		}
	}
}
