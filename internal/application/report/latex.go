package report

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var texEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
	"²", `\textsuperscript{2}`,
)

// EscapeTeX escapes the LaTeX special characters in s.
func EscapeTeX(s string) string {
	return texEscaper.Replace(s)
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

var markdown = goldmark.New()

// MarkdownToLaTeX converts the explanation Markdown into a LaTeX fragment:
// headings become unnumbered sections, lists become itemize or enumerate,
// strong and emphasis become \textbf and \textit. Raw HTML is dropped and
// all text is escaped.
func MarkdownToLaTeX(src string) string {
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))

	w := &latexWriter{source: source}
	_ = ast.Walk(doc, w.visit)
	out := blankRuns.ReplaceAllString(w.buf.String(), "\n\n")
	return strings.TrimSpace(out)
}

type latexWriter struct {
	source []byte
	buf    strings.Builder
}

func (w *latexWriter) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			if node.Level <= 2 {
				w.buf.WriteString(`\section*{`)
			} else {
				w.buf.WriteString(`\subsection*{`)
			}
		} else {
			w.buf.WriteString("}\n\n")
		}
	case *ast.Paragraph:
		if !entering {
			w.buf.WriteString("\n\n")
		}
	case *ast.TextBlock:
		if !entering {
			w.buf.WriteString("\n")
		}
	case *ast.List:
		env := "itemize"
		if node.IsOrdered() {
			env = "enumerate"
		}
		if entering {
			w.newline()
			w.buf.WriteString(`\begin{` + env + "}\n")
		} else {
			w.newline()
			w.buf.WriteString(`\end{` + env + "}\n\n")
		}
	case *ast.ListItem:
		if entering {
			w.buf.WriteString(`\item `)
		} else {
			w.newline()
		}
	case *ast.Blockquote:
		if entering {
			w.buf.WriteString("\\begin{quote}\n")
		} else {
			w.newline()
			w.buf.WriteString("\\end{quote}\n\n")
		}
	case *ast.ThematicBreak:
		if entering {
			w.buf.WriteString("\\noindent\\rule{\\linewidth}{0.4pt}\n\n")
		}
	case *ast.FencedCodeBlock:
		if entering {
			w.verbatim(node.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.CodeBlock:
		if entering {
			w.verbatim(node.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil
	case *ast.Emphasis:
		cmd := `\textit{`
		if node.Level >= 2 {
			cmd = `\textbf{`
		}
		if entering {
			w.buf.WriteString(cmd)
		} else {
			w.buf.WriteString("}")
		}
	case *ast.CodeSpan:
		if entering {
			w.buf.WriteString(`\texttt{`)
		} else {
			w.buf.WriteString("}")
		}
	case *ast.Link:
		if !entering && len(node.Destination) > 0 {
			w.buf.WriteString(" (" + EscapeTeX(string(node.Destination)) + ")")
		}
	case *ast.AutoLink:
		if entering {
			w.buf.WriteString(EscapeTeX(string(node.URL(w.source))))
		}
		return ast.WalkSkipChildren, nil
	case *ast.Text:
		if entering {
			w.buf.WriteString(EscapeTeX(string(node.Segment.Value(w.source))))
			switch {
			case node.HardLineBreak():
				w.buf.WriteString("\\\\\n")
			case node.SoftLineBreak():
				w.buf.WriteString("\n")
			}
		}
	case *ast.String:
		if entering {
			w.buf.WriteString(EscapeTeX(string(node.Value)))
		}
	}
	return ast.WalkContinue, nil
}

// newline ends the current line if it is not already ended.
func (w *latexWriter) newline() {
	s := w.buf.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		w.buf.WriteString("\n")
	}
}

func (w *latexWriter) verbatim(lines *text.Segments) {
	w.newline()
	w.buf.WriteString("\\begin{verbatim}\n")
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		line := string(segment.Value(w.source))
		w.buf.WriteString(strings.ReplaceAll(line, `\end{verbatim}`, `\end {verbatim}`))
	}
	w.newline()
	w.buf.WriteString("\\end{verbatim}\n\n")
}
