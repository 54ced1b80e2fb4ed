package printing

import (
	"bytes"
	"context"
	"time"
)

// Proformas and tax invoices print on A4 portrait
const (
	a4WidthMM       = 210.0
	a4HeightMM      = 297.0
	defaultMarginMM = 12.0
)

// RenderRequest is one HTML page set to print. Zero values pick the
// defaults: A4 portrait, 12 mm margins and the renderer's own timeout.
type RenderRequest struct {
	HTML       string
	Title      string
	Landscape  bool
	MarginMM   float64
	FooterHTML string // repeated on every page
	Timeout    time.Duration
}

type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer turns HTML into PDF. ChromeRenderer is the production one.
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// Failure codes carried by RenderError
const (
	ErrCodeRenderTimeout  = "RENDER_TIMEOUT"
	ErrCodeRenderFailed   = "RENDER_FAILED"
	ErrCodeInvalidHTML    = "INVALID_HTML"
	ErrCodeTemplateFailed = "TEMPLATE_FAILED"
	ErrCodeStorageFailed  = "STORAGE_FAILED"
)

// RenderError tells the invoice service which step of document generation
// failed, so a storage outage is not reported as a template bug.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RenderError) Unwrap() error { return e.Cause }

var (
	pageObject  = []byte("/Type /Page")
	pagesObject = []byte("/Type /Pages")
)

// estimatePageCount counts page objects in the PDF body. Every page tree
// node also matches pageObject, so those are subtracted.
func estimatePageCount(pdf []byte) int {
	return max(bytes.Count(pdf, pageObject)-bytes.Count(pdf, pagesObject), 1)
}
