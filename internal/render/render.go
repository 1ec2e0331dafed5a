// Package render holds the HTML templates for the blog pages and the helper
// functions they use.
package render

import (
	"embed"
	"html/template"
	"strings"
	"time"

	md "github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const dateLayout = "January 2, 2006, 15:04"

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates. Each page is addressed by
// its file name, e.g. "post_list.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": Markdown,
		"date":     FormatDate,
		"codeCSS":  CodeCSS,
	}
}

// Markdown renders post text to HTML. Raw HTML in the source is dropped and
// fenced code blocks are syntax highlighted.
func Markdown(input string) template.HTML {
	if strings.TrimSpace(input) == "" {
		return template.HTML("")
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(input))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags | mdhtml.SkipHTML,
		RenderNodeHook: codeBlockHook,
	})

	return template.HTML(md.Render(doc, renderer))
}

// FormatDate accepts a time.Time or *time.Time; nil and zero times render
// as an empty string.
func FormatDate(value any) string {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return ""
		}
		t = *v
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
