// Package bbcode renders Markdown as Steam workshop BBCode.
package bbcode

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var issueLinkPattern = regexp.MustCompile(`https://github\.com/([^/\s]+/[^/\s]+)/(issues|pull)/(\d+)`)

// RewriteIssueLinks replaces bare GitHub issue and pull request URLs with a
// short "#N" link.
func RewriteIssueLinks(s string) string {
	return issueLinkPattern.ReplaceAllString(s, "[url=https://github.com/$1/$2/$3]#$3[/url]")
}

// Passthrough returns text unchanged.
type Passthrough struct{}

func (Passthrough) Convert(s string) string { return s }

// Converter renders GitHub-flavoured Markdown as BBCode. The zero value is not
// usable; call New.
type Converter struct {
	md goldmark.Markdown
}

// New returns a converter with the GFM extensions enabled.
func New() *Converter {
	return &Converter{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Convert renders markdown as BBCode. Output is trimmed of surrounding
// whitespace.
func (c *Converter) Convert(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	source := []byte(markdown)
	document := c.md.Parser().Parse(text.NewReader(source))

	r := &renderer{source: source}
	_ = ast.Walk(document, r.walk)
	return strings.TrimSpace(r.out.String())
}

type renderer struct {
	source []byte
	out    bytes.Buffer

	listDepth int
	linkDepth int
	inHeader  bool
}

func (r *renderer) write(s string) { r.out.WriteString(s) }

func (r *renderer) trailingNewlines() int {
	b := r.out.Bytes()
	n := 0
	for i := len(b) - 1; i >= 0 && b[i] == '\n'; i-- {
		n++
	}
	return n
}

func (r *renderer) ensureNewline() {
	if r.out.Len() > 0 && r.trailingNewlines() < 1 {
		r.write("\n")
	}
}

func (r *renderer) ensureBlankLine() {
	if r.out.Len() == 0 {
		return
	}
	for r.trailingNewlines() < 2 {
		r.write("\n")
	}
}

func (r *renderer) trimNewlines() {
	r.out.Truncate(r.out.Len() - r.trailingNewlines())
}

// endBlock separates a finished block from the next. Blocks inside list
// items stay on consecutive lines.
func (r *renderer) endBlock() {
	if r.listDepth > 0 {
		r.ensureNewline()
		return
	}
	r.ensureBlankLine()
}

func (r *renderer) lines(node ast.Node) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(r.source))
	}
	return b.String()
}

func (r *renderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if !entering {
			r.endBlock()
		}

	case ast.KindHeading:
		level := node.(*ast.Heading).Level
		if level > 3 {
			level = 3
		}
		if entering {
			r.endBlock()
			r.write(fmt.Sprintf("[h%d]", level))
		} else {
			r.write(fmt.Sprintf("[/h%d]", level))
			r.endBlock()
		}

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			r.endBlock()
			r.write("[code]" + strings.TrimRight(r.lines(node), "\n") + "[/code]")
			r.endBlock()
		}
		return ast.WalkSkipChildren, nil

	case ast.KindBlockquote:
		if entering {
			r.endBlock()
			r.write("[quote]")
		} else {
			r.trimNewlines()
			r.write("[/quote]")
			r.endBlock()
		}

	case ast.KindList:
		if entering {
			r.ensureNewline()
			if node.(*ast.List).IsOrdered() {
				r.write("[olist]\n")
			} else {
				r.write("[list]\n")
			}
			r.listDepth++
		} else {
			r.listDepth--
			r.ensureNewline()
			if node.(*ast.List).IsOrdered() {
				r.write("[/olist]")
			} else {
				r.write("[/list]")
			}
			r.endBlock()
		}

	case ast.KindListItem:
		if entering {
			r.ensureNewline()
			r.write("[*]")
		} else {
			r.ensureNewline()
		}

	case ast.KindThematicBreak:
		if entering {
			r.endBlock()
			r.write("[hr][/hr]")
			r.endBlock()
		}

	case ast.KindHTMLBlock, ast.KindRawHTML:
		return ast.WalkSkipChildren, nil

	case ast.KindText:
		if entering {
			t := node.(*ast.Text)
			value := string(t.Segment.Value(r.source))
			if r.linkDepth == 0 {
				value = RewriteIssueLinks(value)
			}
			r.write(value)
			if t.SoftLineBreak() || t.HardLineBreak() {
				r.write("\n")
			}
		}

	case ast.KindString:
		if entering {
			r.write(string(node.(*ast.String).Value))
		}

	case ast.KindEmphasis:
		tag := "i"
		if node.(*ast.Emphasis).Level >= 2 {
			tag = "b"
		}
		r.tag(tag, entering)

	case extast.KindStrikethrough:
		r.tag("strike", entering)

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				switch c := child.(type) {
				case *ast.Text:
					code.Write(c.Segment.Value(r.source))
				case *ast.String:
					code.Write(c.Value)
				}
			}
			r.write("[code]" + code.String() + "[/code]")
		}
		return ast.WalkSkipChildren, nil

	case ast.KindLink:
		if entering {
			r.linkDepth++
			r.write("[url=" + string(node.(*ast.Link).Destination) + "]")
		} else {
			r.linkDepth--
			r.write("[/url]")
		}

	case ast.KindAutoLink:
		if entering {
			link := node.(*ast.AutoLink)
			url := string(link.URL(r.source))
			switch {
			case link.AutoLinkType == ast.AutoLinkEmail:
				r.write(string(link.Label(r.source)))
			case issueLinkPattern.MatchString(url) && r.linkDepth == 0:
				r.write(RewriteIssueLinks(url))
			default:
				r.write("[url=" + url + "]" + string(link.Label(r.source)) + "[/url]")
			}
		}
		return ast.WalkSkipChildren, nil

	case ast.KindImage:
		if entering {
			r.write("[img]" + string(node.(*ast.Image).Destination) + "[/img]")
		}
		return ast.WalkSkipChildren, nil

	case extast.KindTable:
		if entering {
			r.endBlock()
			r.write("[table]\n")
		} else {
			r.write("[/table]")
			r.endBlock()
		}

	case extast.KindTableHeader:
		r.inHeader = entering
		r.row(entering)

	case extast.KindTableRow:
		r.row(entering)

	case extast.KindTableCell:
		cell := "td"
		if r.inHeader {
			cell = "th"
		}
		r.tag(cell, entering)

	case extast.KindTaskCheckBox:
		if entering {
			if node.(*extast.TaskCheckBox).IsChecked {
				r.write("[x] ")
			} else {
				r.write("[ ] ")
			}
		}
	}

	return ast.WalkContinue, nil
}

func (r *renderer) tag(name string, entering bool) {
	if entering {
		r.write("[" + name + "]")
	} else {
		r.write("[/" + name + "]")
	}
}

func (r *renderer) row(entering bool) {
	if entering {
		r.write("[tr]")
	} else {
		r.write("[/tr]\n")
	}
}
