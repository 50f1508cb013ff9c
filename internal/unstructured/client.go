// Package unstructured is an HTTP client for the Unstructured extraction API.
package unstructured

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

const (
	healthcheckPath = "/healthcheck"
	extractPath     = "/general/v0/general"
	fileFieldName   = "files"
	fileContentType = "application/pdf"
)

// HTTPDoer issues HTTP requests; satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to one Unstructured API instance. It is created once per run
// and reused for every request so connections are kept alive; access is
// strictly sequential, so it carries no locking.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     *slog.Logger
}

func NewClient(baseURL string, httpClient HTTPDoer, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Healthcheck issues one GET against the service healthcheck endpoint and
// returns the status code. Transport errors are returned as-is; interpreting
// the status is the caller's concern.
func (c *Client) Healthcheck(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthcheckPath, nil)
	if err != nil {
		return 0, fmt.Errorf("build healthcheck request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// ExtractRequest describes one multipart extraction call.
type ExtractRequest struct {
	File         io.Reader
	Filename     string
	Strategy     string
	OCRLanguages string
}

// ExtractResponse carries the raw outcome of an extraction call. The body is
// returned untouched; element counting and diagnostics happen upstream.
type ExtractResponse struct {
	StatusCode int
	Body       []byte
}

// Extract streams the file as a multipart upload to the extraction endpoint
// together with the strategy and OCR configuration fields, then reads the
// full response body. It blocks until the service answers or ctx expires.
func (c *Client) Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeExtractForm(mw, req)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+extractPath, pr)
	if err != nil {
		return nil, fmt.Errorf("build extract request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	c.logger.DebugContext(ctx, "posting extraction request",
		"file", req.Filename, "strategy", req.Strategy, "ocr_languages", req.OCRLanguages)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read extract response: %w", err)
	}
	return &ExtractResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

func writeExtractForm(mw *multipart.Writer, req ExtractRequest) error {
	part, err := createPDFPart(mw, req.Filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return fmt.Errorf("stream file: %w", err)
	}

	fields := [][2]string{
		{"strategy", req.Strategy},
		{"extract_images_in_pdf", "true"},
		{"ocr_languages", req.OCRLanguages},
		{"output_format", "application/json"},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// createPDFPart builds the file part by hand so it carries the fixed PDF
// content type instead of multipart's default octet-stream.
func createPDFPart(mw *multipart.Writer, filename string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileFieldName, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", fileContentType)
	return mw.CreatePart(h)
}
