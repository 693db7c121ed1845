// Package scrape fetches a web page and extracts its readable article text
// for downstream script generation.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// ErrNoContent is returned when no usable text could be extracted.
var ErrNoContent = errors.New("no readable content found")

// minContentLength is the threshold below which a candidate element is not
// considered the page's main content.
const minContentLength = 200

// Article is the extracted readable content of one page.
type Article struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Text      string `json:"extracted_text"`
	WordCount int    `json:"word_count"`
}

// Fetcher downloads pages and extracts article text.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with a 30-second request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: 30 * time.Second}}
}

// Fetch downloads the page and extracts its main text. Readability runs
// first; pages it cannot handle fall back to a selector ladder over common
// content containers.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; papercast/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return ExtractArticle(string(body), pageURL)
}

// ExtractArticle extracts the title and main text from raw HTML.
func ExtractArticle(html, pageURL string) (*Article, error) {
	parsedURL, _ := url.Parse(pageURL)

	if article, err := readability.FromReader(strings.NewReader(html), parsedURL); err == nil {
		text := collapseWhitespace(article.TextContent)
		if len(text) >= minContentLength {
			title := strings.TrimSpace(article.Title)
			if title == "" {
				title = extractTitle(html)
			}
			return &Article{
				Title:     title,
				URL:       pageURL,
				Text:      text,
				WordCount: len(strings.Fields(text)),
			}, nil
		}
	}

	return extractWithSelectors(html, pageURL)
}

// contentSelectors is the fallback priority order for locating the page's
// main content.
var contentSelectors = []string{
	"article",
	"[role=main]",
	"main",
	".content",
	".post-content",
	".entry-content",
	".article-content",
	".post",
	".blog-post",
	"#content",
	"#main-content",
	".container",
	"body",
}

func extractWithSelectors(html, pageURL string) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, nav, footer, header, aside, iframe, noscript").Remove()

	var content string
	for _, selector := range contentSelectors {
		element := doc.Find(selector).First()
		if element.Length() > 0 && len(strings.TrimSpace(element.Text())) > minContentLength {
			content = element.Text()
			break
		}
	}
	if content == "" {
		content = doc.Find("body").Text()
	}

	text := collapseWhitespace(content)
	if text == "" {
		return nil, ErrNoContent
	}

	return &Article{
		Title:     documentTitle(doc),
		URL:       pageURL,
		Text:      text,
		WordCount: len(strings.Fields(text)),
	}, nil
}

// extractTitle pulls a title out of raw HTML for pages whose extracted
// article carries none.
func extractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "Untitled"
	}
	return documentTitle(doc)
}

// documentTitle falls back from the <title> element to the first <h1>.
func documentTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = "Untitled"
	}
	return title
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
