// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package chatui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// minTextWidth is the narrowest wrap width the renderer accepts.
// Below this, deeply indented content would degenerate into one word
// per line.
const minTextWidth = 10

// markdownEngine builds the goldmark parser once. Strikethrough and
// Linkify cover the markdown agents actually produce; the full GFM
// table machinery is deliberately not enabled, so pipe tables pass
// through as plain paragraph text.
var markdownEngine = sync.OnceValue(func() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Linkify,
	))
})

// renderMarkdown renders markdown source as ANSI-styled terminal text
// wrapped to the given width. Paragraphs reflow (soft line breaks in
// the source become spaces), fenced code is syntax-highlighted with
// chroma and never reflowed, and block structure (headings, lists,
// blockquotes, rules) is preserved with indentation.
//
// Returns "" for empty or whitespace-only input.
func renderMarkdown(input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if width < minTextWidth {
		width = minTextWidth
	}

	source := []byte(input)
	document := markdownEngine().Parser().Parse(text.NewReader(source))

	// The style renderer is pinned to ANSI 256 rather than detecting
	// the output profile: rendering must be identical whether stdout
	// is a real terminal, a test buffer, or a pipe.
	styles := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	styles.SetColorProfile(termenv.ANSI256)

	writer := &markdownWriter{
		source: source,
		theme:  theme,
		width:  width,
		styles: styles,
	}
	ast.Walk(document, writer.walk)
	return strings.TrimRight(writer.out.String(), "\n")
}

// listLevel tracks one level of list nesting.
type listLevel struct {
	ordered bool
	next    int // Next item number for ordered lists.
	tight   bool
}

// markdownWriter accumulates rendered output during the AST walk.
// Inline content collects in the inline buffer and is word-wrapped
// when its enclosing block closes; block constructs write directly
// to out.
type markdownWriter struct {
	source []byte
	theme  Theme
	width  int
	styles *lipgloss.Renderer

	out    strings.Builder
	inline strings.Builder

	// indent holds the active line prefixes, innermost last:
	// blockquotes contribute a quote bar, list items contribute
	// continuation spaces. marker, when set, replaces the whole
	// indent on the first line of a list item (the bullet).
	indent []string
	marker string

	lists []listLevel

	// Inline style nesting depth.
	bold          int
	italic        int
	strikethrough int
}

func (writer *markdownWriter) style() lipgloss.Style {
	return writer.styles.NewStyle()
}

// inlineStyle renders text with the active bold/italic/strikethrough
// state on top of the normal foreground.
func (writer *markdownWriter) inlineStyle(content string) string {
	style := writer.style().Foreground(writer.theme.NormalText)
	if writer.bold > 0 {
		style = style.Bold(true)
	}
	if writer.italic > 0 {
		style = style.Italic(true)
	}
	if writer.strikethrough > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

func (writer *markdownWriter) currentIndent() string {
	return strings.Join(writer.indent, "")
}

// takeIndent returns the prefix for the first line of a block,
// consuming the pending list bullet if one is queued.
func (writer *markdownWriter) takeIndent() string {
	if writer.marker != "" {
		first := writer.marker
		writer.marker = ""
		return first
	}
	return writer.currentIndent()
}

// textWidth is the wrap width left after indentation.
func (writer *markdownWriter) textWidth() int {
	width := writer.width - ansi.StringWidth(writer.currentIndent())
	if width < minTextWidth {
		width = minTextWidth
	}
	return width
}

// endLine guarantees the output ends with a newline.
func (writer *markdownWriter) endLine() {
	if writer.out.Len() > 0 && !strings.HasSuffix(writer.out.String(), "\n") {
		writer.out.WriteByte('\n')
	}
}

// blankLine guarantees a blank separator line, except at the very
// start of the output.
func (writer *markdownWriter) blankLine() {
	if writer.out.Len() == 0 {
		return
	}
	writer.endLine()
	if !strings.HasSuffix(writer.out.String(), "\n\n") {
		writer.out.WriteByte('\n')
	}
}

func (writer *markdownWriter) inTightList() bool {
	return len(writer.lists) > 0 && writer.lists[len(writer.lists)-1].tight
}

// writeWrapped word-wraps styled inline content to the remaining
// width and writes it with line prefixes applied.
func (writer *markdownWriter) writeWrapped(content string) {
	wrapped := ansi.Wrap(content, writer.textWidth(), " ,.;-")
	for index, line := range strings.Split(wrapped, "\n") {
		if index == 0 {
			writer.out.WriteString(writer.takeIndent())
		} else {
			writer.out.WriteString(writer.currentIndent())
		}
		writer.out.WriteString(line)
		writer.endLine()
	}
}

// flushParagraph closes the current inline run as a paragraph.
func (writer *markdownWriter) flushParagraph() {
	content := writer.inline.String()
	writer.inline.Reset()
	if content == "" {
		return
	}
	writer.writeWrapped(content)
	if !writer.inTightList() {
		writer.blankLine()
	}
}

// inlineText renders a node's children to a detached string, leaving
// the caller's inline buffer untouched. Style depth counters balance
// out across the sub-walk, so only the buffer needs saving.
func (writer *markdownWriter) inlineText(node ast.Node) string {
	saved := writer.inline.String()
	writer.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, writer.walk)
	}
	content := writer.inline.String()
	writer.inline.Reset()
	writer.inline.WriteString(saved)
	return content
}

func (writer *markdownWriter) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	// Block nodes.
	case ast.KindDocument:

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			writer.inline.Reset()
		} else {
			writer.flushParagraph()
		}

	case ast.KindHeading:
		if entering {
			writer.inline.Reset()
		} else {
			writer.closeHeading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			writer.writeCodeBlock(blockText(block, writer.source), string(block.Language(writer.source)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			writer.writeCodeBlock(blockText(node, writer.source), "")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			writer.indent = append(writer.indent, "│ ")
		} else {
			writer.indent = writer.indent[:len(writer.indent)-1]
			writer.blankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			level := listLevel{ordered: list.IsOrdered(), tight: list.IsTight}
			if level.ordered {
				level.next = list.Start
			}
			writer.lists = append(writer.lists, level)
		} else {
			writer.lists = writer.lists[:len(writer.lists)-1]
			if !writer.inTightList() {
				writer.blankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			writer.openListItem()
		} else {
			writer.indent = writer.indent[:len(writer.indent)-1]
			if writer.inTightList() {
				writer.endLine()
			} else {
				writer.blankLine()
			}
		}

	case ast.KindThematicBreak:
		if entering {
			rule := writer.style().
				Foreground(writer.theme.BorderColor).
				Render(strings.Repeat("─", writer.textWidth()))
			writer.blankLine()
			writer.out.WriteString(writer.takeIndent() + rule)
			writer.endLine()
			writer.blankLine()
		}

	case ast.KindHTMLBlock:
		if entering {
			faint := writer.style().Foreground(writer.theme.FaintText)
			writer.writeWrapped(faint.Render(strings.TrimSpace(blockText(node, writer.source))))
			writer.blankLine()
			return ast.WalkSkipChildren, nil
		}

	// Inline nodes.
	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			writer.inline.WriteString(writer.inlineStyle(string(textNode.Segment.Value(writer.source))))
			if textNode.SoftLineBreak() {
				// Soft breaks become spaces so source text hard-wrapped
				// at some other width reflows to the viewport width.
				writer.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				writer.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			writer.inline.WriteString(writer.inlineStyle(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		if node.(*ast.Emphasis).Level >= 2 {
			if entering {
				writer.bold++
			} else {
				writer.bold--
			}
		} else {
			if entering {
				writer.italic++
			} else {
				writer.italic--
			}
		}

	case extast.KindStrikethrough:
		if entering {
			writer.strikethrough++
		} else {
			writer.strikethrough--
		}

	case ast.KindCodeSpan:
		if entering {
			writer.writeCodeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			link := node.(*ast.Link)
			writer.inline.WriteString(writer.inlineText(link))
			if url := string(link.Destination); url != "" {
				urlStyle := writer.style().Foreground(writer.theme.LinkForeground)
				writer.inline.WriteString(" " + urlStyle.Render("("+url+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(writer.source))
			writer.inline.WriteString(writer.style().Foreground(writer.theme.LinkForeground).Render(url))
		}

	case ast.KindImage:
		if entering {
			image := node.(*ast.Image)
			faint := writer.style().Foreground(writer.theme.FaintText)
			writer.inline.WriteString(faint.Render("[" + ansi.Strip(writer.inlineText(image)) + "]"))
			if url := string(image.Destination); url != "" {
				writer.inline.WriteString(" " + faint.Render("("+url+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindRawHTML:
		if entering {
			raw := node.(*ast.RawHTML)
			var html strings.Builder
			for index := 0; index < raw.Segments.Len(); index++ {
				segment := raw.Segments.At(index)
				html.Write(segment.Value(writer.source))
			}
			writer.inline.WriteString(writer.style().Foreground(writer.theme.FaintText).Render(html.String()))
		}
	}

	return ast.WalkContinue, nil
}

// closeHeading flushes the inline buffer as a heading. Inline styling
// is stripped first: the heading carries its own style.
func (writer *markdownWriter) closeHeading(heading *ast.Heading) {
	content := ansi.Strip(writer.inline.String())
	writer.inline.Reset()
	if content == "" {
		return
	}

	style := writer.style().Bold(true)
	if heading.Level <= 2 {
		style = style.Foreground(writer.theme.HeaderForeground)
	} else {
		style = style.Foreground(writer.theme.NormalText)
	}

	writer.blankLine()
	writer.writeWrapped(style.Render(content))
	writer.blankLine()
}

// openListItem queues the bullet for the item's first line and pushes
// a matching continuation indent for the rest.
func (writer *markdownWriter) openListItem() {
	if len(writer.lists) == 0 {
		return
	}
	level := &writer.lists[len(writer.lists)-1]

	var bullet string
	if level.ordered {
		bullet = fmt.Sprintf("%d. ", level.next)
		level.next++
	} else {
		bullet = "- "
	}

	writer.marker = writer.currentIndent() + bullet
	writer.indent = append(writer.indent, strings.Repeat(" ", len(bullet)))
}

// writeCodeBlock writes a code block verbatim, one source line per
// output line, never reflowed. Known languages get chroma syntax
// highlighting; everything else renders in the code foreground.
func (writer *markdownWriter) writeCodeBlock(code, language string) {
	highlighted := ""
	if language != "" {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err == nil {
			highlighted = buffer.String()
		}
	}
	if highlighted == "" {
		highlighted = writer.style().Foreground(writer.theme.CodeForeground).Render(code)
	}

	writer.blankLine()
	for _, line := range strings.Split(strings.TrimRight(highlighted, "\n"), "\n") {
		writer.out.WriteString(writer.takeIndent() + line)
		writer.endLine()
	}
	writer.blankLine()
}

func (writer *markdownWriter) writeCodeSpan(node ast.Node) {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch child := child.(type) {
		case *ast.Text:
			code.Write(child.Segment.Value(writer.source))
		case *ast.String:
			code.Write(child.Value)
		}
	}
	style := writer.style().Foreground(writer.theme.CodeForeground)
	writer.inline.WriteString(style.Render(code.String()))
}

// blockText collects the raw source lines of a block node.
func blockText(node ast.Node, source []byte) string {
	var content strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		content.Write(segment.Value(source))
	}
	return content.String()
}
