package unstructured

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthcheckReturnsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/healthcheck", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), discardLogger())
	status, err := c.Healthcheck(context.Background())

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

func TestHealthcheckTransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", &http.Client{}, discardLogger())
	_, err := c.Healthcheck(context.Background())
	assert.Error(t, err)
}

func TestExtractSendsMultipartFormWithFixedFields(t *testing.T) {
	var (
		gotPath   string
		gotFields map[string]string
		gotFile   string
		gotCT     string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))

		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}

		fh := r.MultipartForm.File["files"][0]
		gotCT = fh.Header.Get("Content-Type")
		f, err := fh.Open()
		require.NoError(t, err)
		defer f.Close()
		b, err := io.ReadAll(f)
		require.NoError(t, err)
		gotFile = string(b)
		assert.Equal(t, "doc.pdf", fh.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client(), discardLogger())
	resp, err := c.Extract(context.Background(), ExtractRequest{
		File:         strings.NewReader("%PDF-fake"),
		Filename:     "doc.pdf",
		Strategy:     "hi_res",
		OCRLanguages: "ita+eng",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/general/v0/general", gotPath)
	assert.Equal(t, "%PDF-fake", gotFile)
	assert.Equal(t, "application/pdf", gotCT)
	assert.Equal(t, "hi_res", gotFields["strategy"])
	assert.Equal(t, "true", gotFields["extract_images_in_pdf"])
	assert.Equal(t, "ita+eng", gotFields["ocr_languages"])
	assert.Equal(t, "application/json", gotFields["output_format"])
}

func TestExtractReturnsBodyOnAnyStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), discardLogger())
	resp, err := c.Extract(context.Background(), ExtractRequest{
		File:     strings.NewReader("x"),
		Filename: "x.pdf",
		Strategy: "fast",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "boom", string(resp.Body))
}
