package markup

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// markdownParser is a goldmark parser configured for markup conversion.
var markdownParser = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	),
)

// FromMarkdown converts markdown to markup. Text is escaped so that the
// result renders the markdown's words exactly.
func FromMarkdown(markdown []byte) (string, error) {
	if len(markdown) == 0 {
		return "", nil
	}

	doc := markdownParser.Parser().Parse(text.NewReader(markdown))

	c := &markdownConverter{source: markdown}
	blocks := c.convertBlocks(doc, "")
	return strings.Join(blocks, "\n"), nil
}

// markdownConverter holds state during AST conversion.
type markdownConverter struct {
	source []byte
}

// convertBlocks converts the block children of n, one string per line
// group, each line prefixed with indent.
func (c *markdownConverter) convertBlocks(n ast.Node, indent string) []string {
	var blocks []string
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if block, ok := c.convertBlock(child, indent); ok {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func (c *markdownConverter) convertBlock(n ast.Node, indent string) (string, bool) {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		content := c.convertInlineChildren(node)
		if content == "" {
			return "", false
		}
		return indent + content, true

	case *ast.Heading:
		return indent + "<bold>" + c.convertInlineChildren(node) + "</bold>", true

	case *ast.List:
		return c.convertList(node, indent), true

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return c.convertCodeBlock(node, indent), true

	case *ast.Blockquote:
		lines := c.convertBlocks(node, indent+"<gray>|</gray> ")
		return strings.Join(lines, "\n"), len(lines) > 0

	case *ast.ThematicBreak:
		return indent + "<dark_gray>" + strings.Repeat("-", 20) + "</dark_gray>", true

	case *extast.Table:
		return c.convertTable(node, indent), true

	default:
		// Unknown blocks (raw HTML and the like) are dropped
		return "", false
	}
}

func (c *markdownConverter) convertList(n *ast.List, indent string) string {
	var lines []string
	number := n.Start
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}

		bullet := "- "
		if n.IsOrdered() {
			bullet = strconv.Itoa(number) + ". "
			number++
		}

		for i, block := range c.convertBlocks(item, "") {
			if i == 0 {
				block = indent + bullet + block
			} else {
				block = indent + strings.Repeat(" ", len(bullet)) + block
			}
			lines = append(lines, block)
		}
	}
	return strings.Join(lines, "\n")
}

func (c *markdownConverter) convertCodeBlock(n ast.Node, indent string) string {
	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(c.source))
	}

	var out []string
	for _, line := range strings.Split(strings.TrimSuffix(code.String(), "\n"), "\n") {
		out = append(out, indent+"<pre>"+escapeText(line)+"</pre>")
	}
	return strings.Join(out, "\n")
}

func (c *markdownConverter) convertTable(n *extast.Table, indent string) string {
	var rows []string
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		_, header := child.(*extast.TableHeader)
		var cells []string
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			content := c.convertInlineChildren(cell)
			if header {
				content = "<bold>" + content + "</bold>"
			}
			cells = append(cells, content)
		}
		rows = append(rows, indent+strings.Join(cells, " <gray>|</gray> "))
	}
	return strings.Join(rows, "\n")
}

// convertInlineChildren converts the inline children of n to markup.
func (c *markdownConverter) convertInlineChildren(n ast.Node) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.convertInline(&sb, child)
	}
	return sb.String()
}

func (c *markdownConverter) convertInline(sb *strings.Builder, n ast.Node) {
	switch node := n.(type) {
	case *ast.Text:
		sb.WriteString(escapeText(string(node.Segment.Value(c.source))))
		if node.HardLineBreak() || node.SoftLineBreak() {
			sb.WriteString("\n")
		}

	case *ast.String:
		sb.WriteString(escapeText(string(node.Value)))

	case *ast.Emphasis:
		tag := "italic"
		if node.Level == 2 {
			tag = "bold"
		}
		c.wrapInline(sb, node, tag)

	case *extast.Strikethrough:
		c.wrapInline(sb, node, "strikethrough")

	case *ast.CodeSpan:
		var code strings.Builder
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				code.Write(textNode.Segment.Value(c.source))
			}
		}
		sb.WriteString("<pre>" + escapeText(code.String()) + "</pre>")

	case *ast.Link:
		sb.WriteString(openLink(string(node.Destination)))
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			c.convertInline(sb, child)
		}
		sb.WriteString("</underlined></click>")

	case *ast.AutoLink:
		url := string(node.URL(c.source))
		sb.WriteString(openLink(url) + escapeText(url) + "</underlined></click>")

	case *ast.RawHTML:
		// Skip raw HTML

	case *ast.Image:
		// Images render as their alt text, or the destination when there is none
		alt := c.convertInlineChildren(node)
		if alt == "" {
			alt = escapeText(string(node.Destination))
		}
		sb.WriteString(alt)

	default:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			c.convertInline(sb, child)
		}
	}
}

func (c *markdownConverter) wrapInline(sb *strings.Builder, n ast.Node, tag string) {
	sb.WriteString("<" + tag + ">")
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.convertInline(sb, child)
	}
	sb.WriteString("</" + tag + ">")
}

func openLink(url string) string {
	return "<click:open_url:'" + strings.ReplaceAll(url, "'", `\'`) + "'><underlined>"
}

// escapeText makes s literal in markup.
func escapeText(s string) string {
	return strings.ReplaceAll(s, "<", `\<`)
}
