// Package pdf extracts plain text from downloaded PDF documents.
//
// Extraction is best-effort by contract: callers treat missing text as
// optional enrichment, so every failure path reports ok=false instead of
// an error.
package pdf

import (
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/entrhq/sigaa-mcp/pkg/logging"
)

// Extractor pulls text out of PDF files.
type Extractor struct {
	log *logging.Logger
}

// NewExtractor creates an extractor. The logger may be nil.
func NewExtractor(log *logging.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract reads the PDF at path and returns its plain text, pages in
// order joined by newlines, whitespace normalized. ok is false on any
// read or decode failure, including a missing file.
func (e *Extractor) Extract(path string) (string, bool) {
	if _, err := os.Stat(path); err != nil {
		e.warnf("pdf not found: %s", path)
		return "", false
	}

	ctx, err := api.ReadContextFile(path)
	if err != nil {
		e.warnf("failed to read pdf %s: %v", path, err)
		return "", false
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		reader, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || reader == nil {
			// A single undecodable page does not void the document.
			e.warnf("failed to extract page %d of %s: %v", pageNr, path, err)
			continue
		}
		content, err := io.ReadAll(reader)
		if err != nil {
			e.warnf("failed to read page %d of %s: %v", pageNr, path, err)
			continue
		}
		pages = append(pages, decodeTextOperators(string(content)))
	}

	if len(pages) == 0 {
		return "", false
	}

	text := cleanExtractedText(strings.Join(pages, "\n"))
	if text == "" {
		return "", false
	}
	return text, true
}

func (e *Extractor) warnf(format string, v ...interface{}) {
	if e.log != nil {
		e.log.Warnf(format, v...)
	}
}

// cleanExtractedText collapses runs of blank lines and trims each line.
func cleanExtractedText(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
