package booking

import (
	"context"
	"io"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// Policy holds the configurable workflow rules
type Policy struct {
	// DeployRequiresPayment blocks deployments until the release order payment is completed
	DeployRequiresPayment bool
	// GSTRate is applied to tax invoices, e.g. 0.18
	GSTRate decimal.Decimal
	// ProformaDueDays sets the default due date of a proforma; 0 leaves it empty
	ProformaDueDays int
}

// DefaultPolicy returns the production defaults
func DefaultPolicy() Policy {
	return Policy{
		DeployRequiresPayment: true,
		GSTRate:               decimal.NewFromFloat(0.18),
		ProformaDueDays:       7,
	}
}

// FileStorage stores uploaded documents and returns their public URL
type FileStorage interface {
	Store(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// InvoiceDocuments renders and stores an invoice PDF, returning its URL
type InvoiceDocuments interface {
	Generate(ctx context.Context, invoice *finance.Invoice, workOrder *booking.WorkOrder) (string, error)
}

// Upload is a file received from a client
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
