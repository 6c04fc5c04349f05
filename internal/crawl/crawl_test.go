package crawl

import (
	"strings"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://mathshistory.st-andrews.ac.uk/Biographies/Euler_Leonhard/", "Euler_Leonhard"},
		{"https://mathshistory.st-andrews.ac.uk/Biographies/Goldbach", "Goldbach"},
	}
	for _, tt := range tests {
		if got := Slug(tt.url); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCleanHTMLRemovesNoindexBlocks(t *testing.T) {
	html := "keep<!--noindex-->drop this<!--endnoindex-->keep too<!--noindex-->more<!--endnoindex-->end"
	got := cleanHTML(html)
	if strings.Contains(got, "drop this") || strings.Contains(got, "more") {
		t.Errorf("noindex content survived: %q", got)
	}
	if !strings.Contains(got, "keep") || !strings.Contains(got, "end") {
		t.Errorf("regular content lost: %q", got)
	}
}

func TestCleanHTMLDropsBylines(t *testing.T) {
	html := "first\n  Written by J T O'Connor\nsecond\nLast Update March 2024\nthird"
	got := cleanHTML(html)
	if strings.Contains(got, "Written by") || strings.Contains(got, "Last Update") {
		t.Errorf("byline lines survived: %q", got)
	}
	for _, keep := range []string{"first", "second", "third"} {
		if !strings.Contains(got, keep) {
			t.Errorf("line %q lost: %q", keep, got)
		}
	}
}

func TestSqueezeBlankLines(t *testing.T) {
	in := "a\n\n\n\nb\n\nc"
	want := "a\nb\nc"
	if got := squeezeBlankLines(in); got != want {
		t.Errorf("squeezeBlankLines(%q) = %q, want %q", in, got, want)
	}
}

func TestFixEncoding(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"MÃ¶bius", "Möbius"},
		{"PoincarÃ©", "Poincaré"},
		{"FranÃ§ois", "François"},
		{"plain ascii", "plain ascii"},
	}
	for _, tt := range tests {
		if got := fixEncoding(tt.in); got != tt.want {
			t.Errorf("fixEncoding(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLetterURLs(t *testing.T) {
	c := New(nil)
	urls := c.LetterURLs()
	if len(urls) != 26 {
		t.Fatalf("expected 26 letter pages, got %d", len(urls))
	}
	if urls[0] != "https://mathshistory.st-andrews.ac.uk/Biographies/letter-a/" {
		t.Errorf("unexpected first letter URL: %s", urls[0])
	}
	if urls[25] != "https://mathshistory.st-andrews.ac.uk/Biographies/letter-z/" {
		t.Errorf("unexpected last letter URL: %s", urls[25])
	}
}
