package printing

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/adbook/backend/internal/application/booking"
	domainbooking "github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/finance"
	"github.com/adbook/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	defaultIssuerName = "AdBook Media"
	pdfContentType    = "application/pdf"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// InvoiceDocumentGenerator renders invoices to PDF and stores them
type InvoiceDocumentGenerator struct {
	renderer      PDFRenderer
	storage       booking.FileStorage
	money         *MoneyFormatter
	issuerName    string
	issuerAddress string
	logger        *zap.Logger
}

// GeneratorOption configures an InvoiceDocumentGenerator
type GeneratorOption func(*InvoiceDocumentGenerator)

// WithIssuer sets the letterhead printed on every invoice
func WithIssuer(name, address string) GeneratorOption {
	return func(g *InvoiceDocumentGenerator) {
		if name != "" {
			g.issuerName = name
		}
		g.issuerAddress = address
	}
}

// WithCurrency sets the ISO 4217 currency amounts are printed in
func WithCurrency(code string) GeneratorOption {
	return func(g *InvoiceDocumentGenerator) {
		g.money = NewMoneyFormatter(code)
	}
}

// WithGeneratorLogger sets the logger
func WithGeneratorLogger(logger *zap.Logger) GeneratorOption {
	return func(g *InvoiceDocumentGenerator) {
		g.logger = logger
	}
}

// NewInvoiceDocumentGenerator creates a generator writing through storage
func NewInvoiceDocumentGenerator(renderer PDFRenderer, storage booking.FileStorage, opts ...GeneratorOption) *InvoiceDocumentGenerator {
	g := &InvoiceDocumentGenerator{
		renderer:   renderer,
		storage:    storage,
		money:      NewMoneyFormatter("INR"),
		issuerName: defaultIssuerName,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the invoice and returns the URL of the stored PDF
func (g *InvoiceDocumentGenerator) Generate(ctx context.Context, invoice *finance.Invoice, workOrder *domainbooking.WorkOrder) (url string, err error) {
	if invoice == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice is nil", nil)
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "invoice_document", "generate",
		telemetry.WithAttribute("invoice.number", invoice.Number),
		telemetry.WithAttribute("invoice.type", string(invoice.Type)),
	)
	defer func() { telemetry.End(span, err) }()

	html, err := renderInvoiceHTML(g.buildView(invoice, workOrder))
	if err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute invoice template", err)
	}

	result, err := g.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		Title:      invoice.Number,
		FooterHTML: `<div style="font-size:8px;width:100%;text-align:center;"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`,
	})
	if err != nil {
		return "", err
	}

	key := InvoiceObjectKey(invoice)
	url, err = g.storage.Store(ctx, key, pdfContentType, bytes.NewReader(result.PDFData))
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to store invoice PDF", err)
	}

	g.logger.Info("invoice document generated",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.Number),
		zap.String("key", key),
		zap.Int("pages", result.PageCount))
	return url, nil
}

// InvoiceObjectKey is the storage key for an invoice's PDF
func InvoiceObjectKey(invoice *finance.Invoice) string {
	name := unsafeKeyChars.ReplaceAllString(invoice.Number, "-")
	if name == "" {
		name = invoice.ID.String()
	}
	return fmt.Sprintf("invoices/%s/%s.pdf", invoice.Type, name)
}

func (g *InvoiceDocumentGenerator) buildView(invoice *finance.Invoice, workOrder *domainbooking.WorkOrder) *invoiceView {
	view := &invoiceView{
		IssuerName:    g.issuerName,
		IssuerAddress: g.issuerAddress,
		Title:         humanize(string(invoice.Type)),
		Number:        invoice.Number,
		IssuedOn:      formatDate(invoice.CreatedAt),
		DueOn:         "-",
		Status:        humanize(invoice.Status.String()),
		Total:         g.money.Format(invoice.Amount),
		PaidAmount:    g.money.Format(invoice.PaidAmount),
		Balance:       g.money.Format(invoice.Outstanding()),
	}
	if invoice.Type == finance.InvoiceTypeProforma {
		view.Title = "Proforma Invoice"
	}
	if invoice.DueDate != nil {
		view.DueOn = formatDate(*invoice.DueDate)
	}
	if invoice.Type == finance.InvoiceTypeTaxInvoice {
		view.ShowTax = true
		view.TaxableAmount = g.money.Format(invoice.TaxableAmount)
		view.TaxRate = g.money.Percent(invoice.TaxRate)
		view.TaxAmount = g.money.Format(invoice.TaxAmount)
	}

	if workOrder == nil {
		return view
	}
	view.WorkOrderNumber = workOrder.Number
	for _, item := range workOrder.Items {
		description := humanize(string(item.MediaType))
		if item.AddonType != nil {
			description = humanize(string(*item.AddonType)) + " add-on"
		}
		view.Lines = append(view.Lines, invoiceLine{
			Description: description,
			Period:      formatDate(item.StartDate) + " to " + formatDate(item.EndDate),
			Quantity:    item.Quantity.String() + " " + string(item.PricingUnit),
			UnitPrice:   g.money.Format(item.UnitPrice),
			Subtotal:    g.money.Format(item.Subtotal),
		})
	}
	return view
}

var _ booking.InvoiceDocuments = (*InvoiceDocumentGenerator)(nil)
