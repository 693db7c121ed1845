package scrape

import (
	"errors"
	"strings"
	"testing"
)

func longParagraph() string {
	return strings.Repeat("The quarterly report shows steady growth across all regional markets. ", 10)
}

func TestExtractArticleReadablePage(t *testing.T) {
	html := `<html><head><title>Quarterly Report</title></head><body>
		<nav>Home | About</nav>
		<article>
			<h1>Quarterly Report</h1>
			<p>` + longParagraph() + `</p>
			<p>` + longParagraph() + `</p>
		</article>
		<footer>Copyright</footer>
	</body></html>`

	article, err := ExtractArticle(html, "https://example.com/report")
	if err != nil {
		t.Fatalf("ExtractArticle() error = %v", err)
	}
	if article.Title != "Quarterly Report" {
		t.Errorf("Title = %q, want %q", article.Title, "Quarterly Report")
	}
	if article.URL != "https://example.com/report" {
		t.Errorf("URL = %q", article.URL)
	}
	if !strings.Contains(article.Text, "steady growth") {
		t.Errorf("Text missing article content: %q", article.Text[:80])
	}
	if strings.Contains(article.Text, "Copyright") {
		t.Error("Text should not contain footer content")
	}
	if article.WordCount == 0 {
		t.Error("WordCount should be nonzero")
	}
}

func TestExtractArticleSelectorFallback(t *testing.T) {
	// A page readability rejects but whose .content div holds the text.
	html := `<html><head><title>Notes</title></head><body>
		<div class="content">` + longParagraph() + `</div>
	</body></html>`

	article, err := ExtractArticle(html, "https://example.com/notes")
	if err != nil {
		t.Fatalf("ExtractArticle() error = %v", err)
	}
	if !strings.Contains(article.Text, "regional markets") {
		t.Errorf("Text missing content: %q", article.Text)
	}
	if article.Title != "Notes" {
		t.Errorf("Title = %q, want %q", article.Title, "Notes")
	}
}

func TestExtractArticleRemovesScripts(t *testing.T) {
	html := `<html><body><div class="content">
		<script>var secret = "hidden";</script>
		<style>.a { color: red }</style>
		` + longParagraph() + `
	</div></body></html>`

	article, err := ExtractArticle(html, "https://example.com")
	if err != nil {
		t.Fatalf("ExtractArticle() error = %v", err)
	}
	if strings.Contains(article.Text, "secret") {
		t.Error("script content leaked into extracted text")
	}
	if strings.Contains(article.Text, "color: red") {
		t.Error("style content leaked into extracted text")
	}
}

func TestExtractArticleEmptyPage(t *testing.T) {
	_, err := ExtractArticle("<html><body></body></html>", "https://example.com")
	if !errors.Is(err, ErrNoContent) {
		t.Errorf("error = %v, want ErrNoContent", err)
	}
}

func TestExtractArticleFallsBackToH1Title(t *testing.T) {
	html := `<html><body>
		<h1>Heading Title</h1>
		<div class="content">` + longParagraph() + `</div>
	</body></html>`

	article, err := ExtractArticle(html, "https://example.com")
	if err != nil {
		t.Fatalf("ExtractArticle() error = %v", err)
	}
	if article.Title != "Heading Title" {
		t.Errorf("Title = %q, want %q", article.Title, "Heading Title")
	}
}

func TestExtractTitlePrefersTitleElement(t *testing.T) {
	got := extractTitle(`<html><head><title>Doc Title</title></head><body><h1>Heading</h1></body></html>`)
	if got != "Doc Title" {
		t.Errorf("extractTitle() = %q, want %q", got, "Doc Title")
	}

	got = extractTitle(`<html><body><h1>Heading Only</h1></body></html>`)
	if got != "Heading Only" {
		t.Errorf("extractTitle() = %q, want %q", got, "Heading Only")
	}

	got = extractTitle(`<html><body><p>nothing</p></body></html>`)
	if got != "Untitled" {
		t.Errorf("extractTitle() = %q, want %q", got, "Untitled")
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := collapseWhitespace("  one\n\n two\t\tthree  ")
	if got != "one two three" {
		t.Errorf("collapseWhitespace() = %q", got)
	}
}
