// Package sampler produces bounded leading-page samples from PDF inputs.
package sampler

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrNotApplicable signals that no sample can be produced for the request
// (zero pages asked, empty document). Callers skip the projection; this is
// never a hard fault.
var ErrNotApplicable = errors.New("sampler: not applicable")

// Sampler abstracts PDF page counting and sample production so the
// projection path can be exercised without real documents.
type Sampler interface {
	// PageCount reports the number of pages of the PDF at path.
	PageCount(path string) (int, error)

	// ExtractHead writes a standalone PDF containing the first n pages of
	// src and returns its path. Asking for more pages than src has yields
	// the whole document.
	ExtractHead(src string, n int) (string, error)
}

// PDFSampler implements Sampler with pdfcpu.
type PDFSampler struct {
	outDir string
	logger *slog.Logger
}

func NewPDFSampler(outDir string, logger *slog.Logger) *PDFSampler {
	if outDir == "" {
		outDir = "samples"
	}
	return &PDFSampler{outDir: outDir, logger: logger}
}

func (s *PDFSampler) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

func (s *PDFSampler) ExtractHead(src string, n int) (string, error) {
	if n <= 0 {
		return "", ErrNotApplicable
	}
	total, err := api.PageCountFile(src)
	if err != nil {
		return "", fmt.Errorf("count pages: %w", err)
	}
	if total < n {
		n = total
	}
	if n <= 0 {
		return "", ErrNotApplicable
	}

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create samples dir: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	out := filepath.Join(s.outDir, fmt.Sprintf("%s_head%d.pdf", stem, n))

	if err := api.TrimFile(src, out, []string{fmt.Sprintf("1-%d", n)}, nil); err != nil {
		return "", fmt.Errorf("trim pdf: %w", err)
	}
	s.logger.Debug("wrote sample pdf", "src", src, "pages", n, "out", out)
	return out, nil
}

var _ Sampler = (*PDFSampler)(nil)
