package crawl

import "strings"

// encodingFixes repairs double-encoded UTF-8 sequences that survive the
// site's mixed-charset pages. Order matters: two-byte sequences must be
// replaced before the bare "Ã" fallback.
var encodingFixes = strings.NewReplacer(
	"Ã¶", "ö",
	"Ã¤", "ä",
	"Ã¼", "ü",
	"Ã©", "é",
	"Ã¨", "è",
	"Ã¡", "á",
	"Ã ", "à",
	"Ã¢", "â",
	"Ã®", "î",
	"Ã´", "ô",
	"Ã»", "û",
	"Ã§", "ç",
	"Ã±", "ñ",
	"Ã", "Ä",
)

// fixEncoding applies the mojibake repair table.
func fixEncoding(s string) string {
	return encodingFixes.Replace(s)
}

// cleanHTML strips noindex blocks and the byline/update footer lines
// before conversion to markdown.
func cleanHTML(html string) string {
	for {
		start := strings.Index(html, "<!--noindex-->")
		if start < 0 {
			break
		}
		end := strings.Index(html[start:], "<!--endnoindex-->")
		if end < 0 {
			break
		}
		html = html[:start] + html[start+end+len("<!--endnoindex-->"):]
	}

	lines := strings.Split(html, "\n")
	filtered := lines[:0]
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "Written by") || strings.HasPrefix(stripped, "Last Update") {
			continue
		}
		filtered = append(filtered, line)
	}
	return strings.Join(filtered, "\n")
}

// squeezeBlankLines collapses repeated newlines down to single ones.
func squeezeBlankLines(md string) string {
	for strings.Contains(md, "\n\n") {
		md = strings.ReplaceAll(md, "\n\n", "\n")
	}
	return md
}
