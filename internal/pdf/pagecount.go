// Package pdf determines PDF page counts and splits multi-page PDFs into
// fixed-size page-range chunks for batch digitization.
//
// Page counting uses pdfcpu's structural parser first and falls back to a
// bounded raw-byte scan for malformed or non-standard files. The splitter
// writes each chunk as an independent sub-PDF without mutating the source.
package pdf

import (
	"bytes"
	"regexp"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// fallbackScanLimit bounds how much of a malformed PDF the regex fallback
// inspects. Page tree objects sit near the front of almost every file.
const fallbackScanLimit = 100 * 1024

// maxFallbackPages caps the page-marker tally so pathological input cannot
// claim an absurd page count.
const maxFallbackPages = 1000

var (
	pagesCountRe  = regexp.MustCompile(`/Type\s*/Pages[^\x00]*?/Count\s+(\d+)`)
	quotedCountRe = regexp.MustCompile(`[Pp]age[Cc]ount="(\d+)"`)
	pageMarkerRe  = regexp.MustCompile(`/Type\s*/Page[\s/>\]]`)
	kidsRe        = regexp.MustCompile(`/Kids\s*\[([^\]]*)\]`)
	objRefRe      = regexp.MustCompile(`\d+\s+\d+\s+R`)
)

// PageCount returns the number of pages in the given PDF bytes. It never
// fails: if structural parsing is impossible the count is estimated from
// raw byte markers, and if no marker is found the document is assumed to
// have a single page. The result is always >= 1.
func PageCount(data []byte) int {
	if n, err := api.PageCount(bytes.NewReader(data), nil); err == nil && n >= 1 {
		return n
	}
	return fallbackPageCount(data)
}

// fallbackPageCount scans a bounded prefix of the raw bytes for structural
// markers, in priority order: an explicit page-tree /Count, a quoted
// page-count attribute, a tally of /Type /Page objects, and finally a
// /Kids array reference count.
func fallbackPageCount(data []byte) int {
	limit := len(data)
	if limit > fallbackScanLimit {
		limit = fallbackScanLimit
	}
	prefix := data[:limit]

	if m := pagesCountRe.FindSubmatch(prefix); m != nil {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n >= 1 {
			return n
		}
	}

	if m := quotedCountRe.FindSubmatch(prefix); m != nil {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n >= 1 {
			return n
		}
	}

	if markers := pageMarkerRe.FindAll(prefix, maxFallbackPages+1); len(markers) > 0 {
		if len(markers) > maxFallbackPages {
			return maxFallbackPages
		}
		return len(markers)
	}

	if m := kidsRe.FindSubmatch(prefix); m != nil {
		if refs := objRefRe.FindAll(m[1], -1); len(refs) > 0 {
			return len(refs)
		}
	}

	return 1
}
