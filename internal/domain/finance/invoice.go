package finance

import (
	"strings"
	"time"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes the pre-payment proforma from the GST tax invoice
type InvoiceType string

const (
	InvoiceTypeProforma   InvoiceType = "proforma"
	InvoiceTypeTaxInvoice InvoiceType = "tax_invoice"
)

// IsValid checks if the invoice type is known
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypeProforma || t == InvoiceTypeTaxInvoice
}

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"   // issued, nothing paid
	InvoiceStatusPartial   InvoiceStatus = "partial"   // 0 < paid < amount
	InvoiceStatusCompleted InvoiceStatus = "completed" // fully paid
	InvoiceStatusFailed    InvoiceStatus = "failed"    // superseded or voided
)

// IsValid checks if the status is a valid invoice status
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusCompleted, InvoiceStatusFailed:
		return true
	}
	return false
}

// String returns the string representation
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsActive reports whether the invoice still expects payment
func (s InvoiceStatus) IsActive() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPartial
}

// Invoice is a proforma or tax invoice raised against a work order
type Invoice struct {
	shared.BaseAggregateRoot
	Number           string
	WorkOrderID      uuid.UUID
	ReleaseOrderID   *uuid.UUID
	ClientID         uuid.UUID
	Type             InvoiceType
	Status           InvoiceStatus
	Amount           decimal.Decimal
	TaxableAmount    decimal.Decimal
	TaxRate          decimal.Decimal
	TaxAmount        decimal.Decimal
	PaidAmount       decimal.Decimal
	DueDate          *time.Time
	FileURL          *string
	PaidAt           *time.Time
	PaymentReference string
	FailureReason    string
}

// NewProforma issues a proforma invoice for amount. The caller checks the
// amount against the work order's outstanding balance with ProformaOutstanding.
func NewProforma(number string, workOrderID, clientID uuid.UUID, amount decimal.Decimal, dueDate *time.Time, actorID uuid.UUID) (*Invoice, error) {
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("proforma amount must be greater than zero")
	}
	inv, err := newInvoice(number, workOrderID, clientID, InvoiceTypeProforma, dueDate)
	if err != nil {
		return nil, err
	}
	inv.Amount = amount
	inv.TaxableAmount = amount
	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv, actorID))
	return inv, nil
}

// NewTaxInvoice issues the GST invoice of a release order.
// taxAmount = round(taxable x rate, 2) and amount = taxable + taxAmount.
func NewTaxInvoice(number string, workOrderID, releaseOrderID, clientID uuid.UUID, taxable, rate decimal.Decimal, dueDate *time.Time, actorID uuid.UUID) (*Invoice, error) {
	if taxable.IsNegative() {
		return nil, shared.NewValidationError("taxable amount cannot be negative")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewValidationError("tax rate must be between 0 and 1")
	}
	inv, err := newInvoice(number, workOrderID, clientID, InvoiceTypeTaxInvoice, dueDate)
	if err != nil {
		return nil, err
	}
	inv.ReleaseOrderID = &releaseOrderID
	inv.TaxableAmount = taxable
	inv.TaxRate = rate
	inv.TaxAmount = taxable.Mul(rate).Round(2)
	inv.Amount = taxable.Add(inv.TaxAmount)
	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv, actorID))
	return inv, nil
}

func newInvoice(number string, workOrderID, clientID uuid.UUID, typ InvoiceType, dueDate *time.Time) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewValidationError("invoice number cannot be empty")
	}
	if workOrderID == uuid.Nil {
		return nil, shared.NewValidationError("work order id is required")
	}
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		WorkOrderID:       workOrderID,
		ClientID:          clientID,
		Type:              typ,
		Status:            InvoiceStatusPending,
		PaidAmount:        decimal.Zero,
		TaxRate:           decimal.Zero,
		TaxAmount:         decimal.Zero,
		DueDate:           dueDate,
	}, nil
}

// IsProforma reports whether this is a proforma invoice
func (i *Invoice) IsProforma() bool {
	return i.Type == InvoiceTypeProforma
}

// Outstanding returns the unpaid part of the invoice
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// RecordPayment adds a payment. A nil amount pays the outstanding balance.
// Paying a completed invoice changes nothing and reports changed=false.
func (i *Invoice) RecordPayment(amount *decimal.Decimal, reference string, actorID uuid.UUID) (bool, error) {
	switch i.Status {
	case InvoiceStatusCompleted:
		return false, nil
	case InvoiceStatusFailed:
		return false, shared.NewInvalidTransitionError("invoice", string(i.Status), "record payment on")
	}

	paid := i.Outstanding()
	if amount != nil {
		paid = *amount
	}
	if !paid.IsPositive() {
		return false, shared.NewValidationError("payment amount must be greater than zero")
	}
	if paid.GreaterThan(i.Outstanding()) {
		return false, shared.NewValidationError("payment %s exceeds outstanding amount %s",
			paid.StringFixed(2), i.Outstanding().StringFixed(2))
	}

	i.PaidAmount = i.PaidAmount.Add(paid)
	if reference = strings.TrimSpace(reference); reference != "" {
		i.PaymentReference = reference
	}
	if i.Outstanding().IsZero() {
		now := time.Now()
		i.Status = InvoiceStatusCompleted
		i.PaidAt = &now
	} else {
		i.Status = InvoiceStatusPartial
	}
	i.Touch()

	i.AddDomainEvent(NewPaymentRecordedEvent(i, paid, actorID))
	return true, nil
}

// MarkFailed voids an active invoice, e.g. when a newer proforma supersedes it
func (i *Invoice) MarkFailed(reason string) error {
	if !i.Status.IsActive() {
		return shared.NewInvalidTransitionError("invoice", string(i.Status), "void")
	}
	i.Status = InvoiceStatusFailed
	i.FailureReason = reason
	i.Touch()

	i.AddDomainEvent(NewInvoiceFailedEvent(i))
	return nil
}

// AttachDocument records the rendered invoice file
func (i *Invoice) AttachDocument(url string) {
	i.FileURL = &url
	i.Touch()
}

// ProformaOutstanding returns total minus the amount of every completed proforma
func ProformaOutstanding(total decimal.Decimal, invoices []*Invoice) decimal.Decimal {
	outstanding := total
	for _, inv := range invoices {
		if inv.IsProforma() && inv.Status == InvoiceStatusCompleted {
			outstanding = outstanding.Sub(inv.Amount)
		}
	}
	return outstanding
}

// ProformasCover reports whether completed proformas pay the whole total
func ProformasCover(total decimal.Decimal, invoices []*Invoice) bool {
	return !ProformaOutstanding(total, invoices).IsPositive()
}

// HasProforma reports whether any proforma was ever issued
func HasProforma(invoices []*Invoice) bool {
	for _, inv := range invoices {
		if inv.IsProforma() {
			return true
		}
	}
	return false
}

// CheckProformaIssuable validates a new proforma against the order's existing
// invoices and returns the pending proformas it supersedes.
func CheckProformaIssuable(total, amount decimal.Decimal, invoices []*Invoice) ([]*Invoice, error) {
	var superseded []*Invoice
	for _, inv := range invoices {
		if !inv.IsProforma() {
			continue
		}
		switch inv.Status {
		case InvoiceStatusPartial:
			return nil, shared.NewInvalidTransitionError("proforma", "partially paid proforma "+inv.Number, "issue")
		case InvoiceStatusPending:
			superseded = append(superseded, inv)
		}
	}
	outstanding := ProformaOutstanding(total, invoices)
	if !amount.IsPositive() || amount.GreaterThan(outstanding) {
		return nil, shared.NewValidationError("proforma amount must be greater than 0 and at most %s", outstanding.StringFixed(2))
	}
	return superseded, nil
}

// ActiveTaxInvoice returns the non-failed tax invoice, if any
func ActiveTaxInvoice(invoices []*Invoice) *Invoice {
	for _, inv := range invoices {
		if inv.Type == InvoiceTypeTaxInvoice && inv.Status != InvoiceStatusFailed {
			return inv
		}
	}
	return nil
}
