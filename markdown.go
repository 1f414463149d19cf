package tubechat

import (
	"regexp"
	"strings"
)

// RenderMarkdown converts the Markdown subset produced by the assistant
// (headings, bold, italic, inline code, lists, paragraphs) into an HTML
// fragment safe for insertion into a page.
//
// The input is escaped before any markup is generated, so literal angle
// brackets and ampersands can never become tags. RenderMarkdown never fails:
// fragments it does not understand are kept as escaped literal text.
func RenderMarkdown(markdown string) string {
	html := markdown
	for _, stage := range markdownStages {
		html = stage(html)
	}
	return html
}

// markdownStages run in order. Escaping must precede every markup stage and
// bold must precede italic so "**" is never read as two italic delimiters.
var markdownStages = []func(string) string{
	normalizeNewlines,
	escapeHTML,
	renderHeadings,
	renderBold,
	renderItalic,
	renderInlineCode,
	renderBlocks,
	dropEmptyParagraphs,
}

var (
	h1Re = regexp.MustCompile(`(?m)^# (.*)$`)
	h2Re = regexp.MustCompile(`(?m)^## (.*)$`)
	h3Re = regexp.MustCompile(`(?m)^### (.*)$`)

	boldStarRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderscoreRe = regexp.MustCompile(`__(.+?)__`)

	// Italic spans stay on one line and are not flanked by whitespace, which
	// keeps "* item" bullets and "2 * 3" arithmetic literal.
	italicStarRe       = regexp.MustCompile(`\*([^*\s]|[^*\s][^*\n]*?[^*\s])\*`)
	italicUnderscoreRe = regexp.MustCompile(`_([^_\s]|[^_\s][^_\n]*?[^_\s])_`)

	inlineCodeRe = regexp.MustCompile("`([^`]+)`")

	blankLineRe = regexp.MustCompile(`\n(?:[ \t]*\n)+`)

	bulletMarkerRe   = regexp.MustCompile(`^[-*]\s`)
	numberedMarkerRe = regexp.MustCompile(`^\d+\.\s`)
	bulletItemRe     = regexp.MustCompile(`^[-*]\s(.+)$`)
	numberedItemRe   = regexp.MustCompile(`^\d+\.\s(.+)$`)
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

func renderHeadings(s string) string {
	s = h3Re.ReplaceAllString(s, "<h3>$1</h3>")
	s = h2Re.ReplaceAllString(s, "<h2>$1</h2>")
	return h1Re.ReplaceAllString(s, "<h1>$1</h1>")
}

func renderBold(s string) string {
	s = boldStarRe.ReplaceAllString(s, "<strong>$1</strong>")
	return boldUnderscoreRe.ReplaceAllString(s, "<strong>$1</strong>")
}

func renderItalic(s string) string {
	s = italicStarRe.ReplaceAllString(s, "<em>$1</em>")
	return replaceUnlessIntraword(s, italicUnderscoreRe, "<em>", "</em>")
}

func renderInlineCode(s string) string {
	return inlineCodeRe.ReplaceAllString(s, "<code>$1</code>")
}

// replaceUnlessIntraword wraps the first submatch of every re match in
// openTag/closeTag, skipping matches glued to a letter or digit on either side
// so identifiers like snake_case_name survive.
func replaceUnlessIntraword(s string, re *regexp.Regexp, openTag, closeTag string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if isWordByte(s, start-1) || isWordByte(s, end) {
			continue
		}
		sb.WriteString(s[last:start])
		sb.WriteString(openTag)
		sb.WriteString(s[m[2]:m[3]])
		sb.WriteString(closeTag)
		last = end
	}
	sb.WriteString(s[last:])
	return sb.String()
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// renderBlocks splits the text on blank lines and turns each block into a
// list, a pass-through heading block, or a paragraph.
func renderBlocks(s string) string {
	blocks := blankLineRe.Split(s, -1)
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if html := renderBlock(block); html != "" {
			out = append(out, html)
		}
	}
	return strings.Join(out, "")
}

func renderBlock(block string) string {
	lines := strings.Split(block, "\n")
	first := strings.TrimSpace(lines[0])

	switch {
	case bulletMarkerRe.MatchString(first) || numberedMarkerRe.MatchString(first):
		return renderList(lines)
	case strings.HasPrefix(first, "<h"):
		return block
	case strings.TrimSpace(block) != "":
		return "<p>" + strings.ReplaceAll(block, "\n", "<br>") + "</p>"
	}
	return ""
}

// renderList collects marker lines as items. Lines without a marker are
// dropped. When a block mixes markers, the last collected line decides
// between <ol> and <ul>.
func renderList(lines []string) string {
	var items []string
	ordered := false
	for _, line := range lines {
		line = strings.TrimLeft(line, " \t")
		if m := bulletItemRe.FindStringSubmatch(line); m != nil {
			items = append(items, "<li>"+m[1]+"</li>")
			ordered = false
		} else if m := numberedItemRe.FindStringSubmatch(line); m != nil {
			items = append(items, "<li>"+m[1]+"</li>")
			ordered = true
		}
	}
	if len(items) == 0 {
		return ""
	}

	tag := "ul"
	if ordered {
		tag = "ol"
	}
	return "<" + tag + ">" + strings.Join(items, "") + "</" + tag + ">"
}

func dropEmptyParagraphs(s string) string {
	s = strings.ReplaceAll(s, "<p></p>", "")
	return strings.ReplaceAll(s, "<br></p>", "</p>")
}
