package sampler

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHeadZeroPagesNotApplicable(t *testing.T) {
	s := NewPDFSampler(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := s.ExtractHead("doc.pdf", 0)
	assert.ErrorIs(t, err, ErrNotApplicable)

	_, err = s.ExtractHead("doc.pdf", -1)
	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestPageCountMissingFile(t *testing.T) {
	s := NewPDFSampler(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := s.PageCount("does-not-exist.pdf")
	assert.Error(t, err)
}

func TestNewPDFSamplerDefaultDir(t *testing.T) {
	s := NewPDFSampler("", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, "samples", s.outDir)
}
