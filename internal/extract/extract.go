// Package extract implements the deterministic Layer-1 extractor: a
// pure, total function from a markdown biography document to a
// structured record. It never fails; absent fields come back nil/empty.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_bio/internal/bio"
)

var (
	summaryRe   = regexp.MustCompile(`(?s)Summary\s+(.+?)(?:\[|$)`)
	boldRe      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	pictureRe   = regexp.MustCompile(`!\[Thumbnail of .+?\]\((.+?)\)`)
	bornRe      = regexp.MustCompile(`(?s)Born\s+(.+?)(?:Died|$)`)
	diedRe      = regexp.MustCompile(`(?s)Died\s+(.+?)(?:\*\s\*\s\*|$)`)
	yearRe      = regexp.MustCompile(`(\d{1,2}\s+\w+\s+)?(\d{3,4})`)
	placeLinkRe = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	afterYearRe = regexp.MustCompile(`\d{3,4}\s+(.+)`)
	connRe      = regexp.MustCompile(`\[.+?\]\((https?://mathshistory\.st-andrews\.ac\.uk/Biographies/[^#)]+?)/?\)`)
)

// Extract parses one normalized biography document into a Layer-1 record.
func Extract(id, text string) bio.Record {
	return bio.Record{
		ID:          id,
		Name:        extractName(text),
		Summary:     extractSummary(text),
		Born:        extractBirthInfo(text),
		Died:        extractDeathInfo(text),
		Picture:     extractPicture(id, text),
		Connections: extractConnections(id, text),
	}
}

// extractName returns the first line if it is a markdown heading.
func extractName(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	if strings.HasPrefix(line, "# ") {
		return strings.TrimSpace(line[2:])
	}
	return ""
}

// extractSummary returns the text between the "Summary" marker and the
// next bracketed link token (or end of text), with bold markers removed.
func extractSummary(text string) string {
	m := summaryRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return boldRe.ReplaceAllString(strings.TrimSpace(m[1]), "$1")
}

// extractPicture builds the absolute thumbnail URL, or nil when the
// document carries no thumbnail image.
func extractPicture(id, text string) *string {
	m := pictureRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	u := fmt.Sprintf("%s%s/%s", bio.SiteBase, id, strings.TrimSpace(m[1]))
	return &u
}

// extractDateInfo pulls year, approximation flag, place and place link
// out of one Born/Died text span.
func extractDateInfo(section string) bio.DateInfo {
	var info bio.DateInfo
	if section == "" {
		return info
	}

	ym := yearRe.FindStringSubmatch(section)
	if ym != nil {
		if y, err := strconv.Atoi(ym[2]); err == nil {
			info.Year = &y
			hasMonthDay := ym[1] != ""
			lower := strings.ToLower(section)
			info.Approx = strings.Contains(lower, "approx") ||
				strings.Contains(lower, "about") ||
				!hasMonthDay
		}
	}

	if pm := placeLinkRe.FindStringSubmatch(section); pm != nil {
		place := strings.TrimSpace(pm[1])
		link := strings.TrimSpace(pm[2])
		info.Place = &place
		info.Link = &link
	} else if am := afterYearRe.FindStringSubmatch(section); am != nil {
		place := strings.TrimSpace(am[1])
		info.Place = &place
	} else if ym == nil {
		place := strings.TrimSpace(section)
		info.Place = &place
	}

	return info
}

func extractBirthInfo(text string) bio.DateInfo {
	if m := bornRe.FindStringSubmatch(text); m != nil {
		return extractDateInfo(strings.TrimSpace(m[1]))
	}
	return bio.DateInfo{}
}

func extractDeathInfo(text string) bio.DateInfo {
	if m := diedRe.FindStringSubmatch(text); m != nil {
		return extractDateInfo(strings.TrimSpace(m[1]))
	}
	return bio.DateInfo{}
}

// extractConnections collects slugs of other biographies linked from the
// document: first-seen order, deduplicated, self-references and
// non-biography sub-paths excluded.
func extractConnections(id, text string) []string {
	matches := connRe.FindAllStringSubmatch(text, -1)
	unique := []string{}
	seen := make(map[string]bool)
	for _, m := range matches {
		link := strings.TrimSuffix(m[1], "/")
		if strings.Contains(link, "Biographies/"+id) ||
			strings.Contains(link, "#reference-") ||
			strings.Contains(link, "/quotations") ||
			strings.Contains(link, "/poster/") {
			continue
		}
		slug, ok := strings.CutPrefix(link, bio.SiteBase)
		if !ok {
			continue
		}
		if !seen[slug] {
			seen[slug] = true
			unique = append(unique, slug)
		}
	}
	return unique
}
