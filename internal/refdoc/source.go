package refdoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"drillchat/internal/util"

	"github.com/ledongthuc/pdf"
)

// ErrContextUnavailable reports that the reference document is missing or
// yielded no text. Callers surface this as a fatal per-request error.
var ErrContextUnavailable = errors.New("reference context unavailable")

// Source yields the full plain text of the reference document.
type Source interface {
	Extract(ctx context.Context) (string, error)
}

// PDFSource extracts text from a reference PDF. When CachePath is set, a
// previously extracted plain-text artifact is preferred over re-parsing the
// PDF, and a fresh extraction is written back for the next process.
type PDFSource struct {
	PDFPath   string
	CachePath string
}

func NewPDFSource(pdfPath, cachePath string) *PDFSource {
	return &PDFSource{PDFPath: pdfPath, CachePath: cachePath}
}

func (s *PDFSource) Extract(ctx context.Context) (string, error) {
	_ = ctx
	if s.CachePath != "" {
		if b, err := os.ReadFile(s.CachePath); err == nil {
			if text := strings.TrimSpace(string(b)); text != "" {
				return text, nil
			}
		}
	}

	text, err := extractPDFText(s.PDFPath)
	if err != nil {
		return "", err
	}
	if s.CachePath != "" {
		if err := util.WriteTextAtomic(s.CachePath, text); err != nil {
			log.Printf("refdoc: write text artifact failed path=%s err=%v", s.CachePath, err)
		}
	}
	return text, nil
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open pdf %s: %v", ErrContextUnavailable, path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: extract pdf text: %v", ErrContextUnavailable, err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", fmt.Errorf("%w: read extracted text: %v", ErrContextUnavailable, err)
	}
	text := util.SanitizeText(buf.String())
	if text == "" {
		return "", fmt.Errorf("%w: no extractable text in %s", ErrContextUnavailable, path)
	}
	return text, nil
}
