// Package crawl fetches biography pages from the source site and
// converts them into the normalized markdown documents the extraction
// pipeline consumes.
package crawl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/anatolykoptev/go_bio/internal/bio"
	"github.com/anatolykoptev/go_bio/internal/store"
)

// Crawler walks the site's letter indexes and stores one markdown file
// per biography.
type Crawler struct {
	client *http.Client
	base   string
	st     *store.Store
}

// New builds a crawler writing into st.
func New(st *store.Store) *Crawler {
	return &Crawler{
		client: newFetchClient(),
		base:   bio.SiteBase,
		st:     st,
	}
}

// LetterURLs returns the a–z index page URLs.
func (c *Crawler) LetterURLs() []string {
	urls := make([]string, 0, 26)
	for l := 'a'; l <= 'z'; l++ {
		urls = append(urls, fmt.Sprintf("%sletter-%c/", c.base, l))
	}
	return urls
}

// BiographyLinks extracts the biography URLs from one letter index
// page, skipping navigation, category and chronology links.
func (c *Crawler) BiographyLinks(ctx context.Context, letterURL string) ([]string, error) {
	body, err := c.fetchPage(ctx, letterURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", letterURL, err)
	}
	base, err := url.Parse(letterURL)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href^='../']").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "../" ||
			strings.HasPrefix(href, "../../") ||
			strings.HasPrefix(href, "../letter-") ||
			strings.HasPrefix(href, "../category-") ||
			strings.Contains(href, "/chronological/") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})
	return links, nil
}

// CollectLinks walks every letter page and aggregates the biography
// URLs. A failing letter page is logged and skipped, not fatal.
func (c *Crawler) CollectLinks(ctx context.Context) []string {
	var all []string
	for _, letterURL := range c.LetterURLs() {
		links, err := c.BiographyLinks(ctx, letterURL)
		if err != nil {
			slog.Error("letter page failed", slog.String("url", letterURL), slog.Any("error", err))
			continue
		}
		slog.Info("letter page processed",
			slog.String("url", letterURL),
			slog.Int("biographies", len(links)))
		all = append(all, links...)
	}
	return all
}

// ProcessBiography fetches one biography page, cleans it, rewrites its
// links to absolute form, converts it to markdown and stores it under
// the page's slug.
func (c *Crawler) ProcessBiography(ctx context.Context, bioURL string) error {
	body, err := c.fetchPage(ctx, bioURL)
	if err != nil {
		return err
	}

	cleaned := cleanHTML(string(body))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cleaned))
	if err != nil {
		return fmt.Errorf("parse %s: %w", bioURL, err)
	}
	base, err := url.Parse(bioURL)
	if err != nil {
		return err
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if ref, err := url.Parse(href); err == nil {
			sel.SetAttr("href", base.ResolveReference(ref).String())
		}
	})

	html, err := doc.Html()
	if err != nil {
		return fmt.Errorf("render %s: %w", bioURL, err)
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return fmt.Errorf("convert %s: %w", bioURL, err)
	}
	md = fixEncoding(squeezeBlankLines(strings.TrimSpace(md)))

	return c.st.WriteMD(Slug(bioURL), md)
}

// Slug derives the entity identifier from a biography URL path.
func Slug(bioURL string) string {
	u, err := url.Parse(bioURL)
	if err != nil {
		return strings.Trim(bioURL, "/")
	}
	return path.Base(strings.TrimSuffix(u.Path, "/"))
}
