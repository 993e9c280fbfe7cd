package pipeline

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// highlightStyle is the chroma style used for fenced code blocks.
const highlightStyle = "github"

//go:embed default.css
var defaultCSS string

// htmlTemplate wraps goldmark's fragment output in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s
</style>
</head>
<body>
%s
</body>
</html>`

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content []byte, title, sourceDir string) (string, error)
}

// Compile-time interface check.
var _ HTMLConverter = (*GoldmarkConverter)(nil)

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md  goldmark.Markdown
	css string
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and syntax highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // styles come from the embedded stylesheet
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(linkResolver{}, 100)),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
			gmhtml.WithUnsafe(), // raw HTML is filtered by cleanFragment
		),
	)
	return &GoldmarkConverter{md: md, css: defaultCSS + highlightCSS()}
}

// highlightCSS renders the chroma class definitions for highlightStyle.
func highlightCSS() string {
	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return ""
	}
	return buf.String()
}

// ToHTML converts Markdown content to a standalone HTML5 document.
// Relative destinations are resolved against sourceDir when it is not empty.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content []byte, title, sourceDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		pc := parser.NewContext()
		var dir string
		if sourceDir != "" {
			if abs, err := filepath.Abs(sourceDir); err == nil {
				dir = abs
				pc.Set(sourceDirKey, abs)
			}
		}

		var buf bytes.Buffer
		if err := c.md.Convert(content, &buf, parser.WithContext(pc)); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		body, err := cleanFragment(buf.String(), dir)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(htmlTemplate, html.EscapeString(title), c.css, body)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// sourceDirKey carries the Markdown file's directory through the parser context.
var sourceDirKey = parser.NewContextKey()

// linkResolver rewrites relative link and image destinations to absolute paths.
type linkResolver struct{}

func (linkResolver) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	dir, _ := pc.Get(sourceDirKey).(string)
	if dir == "" {
		return
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			node.Destination = resolveDestination(dir, node.Destination)
		case *ast.Link:
			node.Destination = resolveDestination(dir, node.Destination)
		}
		return ast.WalkContinue, nil
	})
}

// resolveDestination joins a relative destination onto dir. URLs, anchors and
// absolute paths are returned unchanged. The result is a slash-separated
// absolute path, which a page loaded from file:// resolves locally.
func resolveDestination(dir string, dest []byte) []byte {
	s := string(dest)
	if !isRelativePath(s) {
		return dest
	}

	fragment := ""
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s, fragment = s[:i], s[i:]
	}

	abs := filepath.ToSlash(filepath.Join(dir, filepath.FromSlash(s)))
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs // Windows drive paths
	}
	return []byte(abs + fragment)
}

// isRelativePath returns true if the destination should be resolved.
func isRelativePath(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "//") {
		return false
	}
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "data:") || strings.HasPrefix(dest, "mailto:") {
		return false
	}
	return !filepath.IsAbs(dest) && !strings.HasPrefix(dest, "/")
}
