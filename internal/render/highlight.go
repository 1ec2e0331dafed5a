package render

import (
	"bytes"
	stdhtml "html"
	"html/template"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown/ast"
)

const codeStyle = "github"

var (
	codeCSSOnce sync.Once
	codeCSS     template.CSS
)

// CodeCSS is the stylesheet for the class names emitted by highlighted code
// blocks.
func CodeCSS() template.CSS {
	codeCSSOnce.Do(func() {
		style := styles.Get(codeStyle)
		if style == nil {
			style = styles.Fallback
		}
		var buf bytes.Buffer
		if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&buf, style); err == nil {
			codeCSS = template.CSS(buf.String())
		}
	})
	return codeCSS
}

func codeBlockHook(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	block, ok := node.(*ast.CodeBlock)
	if !ok || !entering {
		return ast.GoToNext, false
	}
	highlight(w, string(block.Literal), blockLanguage(block.Info))
	return ast.SkipChildren, true
}

func highlight(w io.Writer, code, language string) {
	iterator, err := lexerFor(language, code).Tokenise(nil, code)
	if err == nil {
		err = chromahtml.New(chromahtml.WithClasses(true)).Format(w, styles.Fallback, iterator)
	}
	if err != nil {
		_, _ = io.WriteString(w, `<pre class="chroma"><code>`+stdhtml.EscapeString(code)+`</code></pre>`)
	}
}

func lexerFor(language, code string) chroma.Lexer {
	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return lexer
		}
	}
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer
	}
	return lexers.Fallback
}

// blockLanguage takes the first word of a fenced block's info string.
func blockLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
