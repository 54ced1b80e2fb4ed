package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/finance"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/release"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService runs the invoice and payment tracker
type InvoiceService struct {
	txScope   TransactionScope
	repos     Repositories
	policy    Policy
	documents InvoiceDocuments
	logger    *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(txScope TransactionScope, repos Repositories, policy Policy, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		txScope: txScope,
		repos:   repos,
		policy:  policy,
		logger:  logger,
	}
}

// SetInvoiceDocuments enables PDF generation for issued invoices
func (s *InvoiceService) SetInvoiceDocuments(documents InvoiceDocuments) {
	s.documents = documents
}

// IssueProforma raises a proforma against an accepted work order, superseding
// any pending one.
func (s *InvoiceService) IssueProforma(ctx context.Context, actor identity.Actor, workOrderID uuid.UUID, req IssueProformaRequest) (*InvoiceResponse, error) {
	if err := actor.Require(identity.ActionInvoiceIssueProforma); err != nil {
		return nil, err
	}

	var (
		invoice *finance.Invoice
		order   *booking.WorkOrder
	)
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		var err error
		order, err = repos.WorkOrders().FindByID(ctx, workOrderID)
		if err != nil {
			return err
		}
		if order.Status != booking.WorkOrderStatusClientAccepted {
			return shared.NewInvalidTransitionError("proforma for work order", string(order.Status), "issue")
		}

		existing, err := repos.Invoices().FindByWorkOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		superseded, err := finance.CheckProformaIssuable(order.TotalAmount, req.Amount, existing)
		if err != nil {
			return err
		}
		for _, old := range superseded {
			if err := old.MarkFailed("superseded by a newer proforma"); err != nil {
				return err
			}
			if err := repos.Invoices().SaveWithLock(ctx, old); err != nil {
				return err
			}
		}

		number, err := repos.Invoices().NextNumber(ctx, finance.InvoiceTypeProforma)
		if err != nil {
			return fmt.Errorf("allocate invoice number: %w", err)
		}
		invoice, err = finance.NewProforma(number, order.ID, order.ClientID, req.Amount, s.dueDate(req.DueDate), actor.ID)
		if err != nil {
			return err
		}
		return repos.Invoices().Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("proforma issued",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("work_order_id", order.ID.String()),
		zap.String("amount", invoice.Amount.StringFixed(2)),
	)
	s.attachDocument(ctx, invoice, order, nil)
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// IssueTaxInvoice raises the GST invoice of an accepted release order
func (s *InvoiceService) IssueTaxInvoice(ctx context.Context, actor identity.Actor, releaseOrderID uuid.UUID, req IssueTaxInvoiceRequest) (*InvoiceResponse, error) {
	if err := actor.Require(identity.ActionInvoiceIssueTax); err != nil {
		return nil, err
	}

	var (
		invoice *finance.Invoice
		order   *booking.WorkOrder
		ro      *release.ReleaseOrder
	)
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		var err error
		ro, err = repos.ReleaseOrders().FindByID(ctx, releaseOrderID)
		if err != nil {
			return err
		}
		if !ro.Status.IsAcceptedOrLater() {
			return shared.NewInvalidTransitionError("tax invoice for release order", string(ro.Status), "issue")
		}
		existing, err := repos.Invoices().FindByReleaseOrder(ctx, ro.ID)
		if err != nil {
			return err
		}
		if active := finance.ActiveTaxInvoice(existing); active != nil {
			return shared.NewInvalidTransitionError("tax invoice", "already issued as "+active.Number, "issue")
		}
		order, err = repos.WorkOrders().FindByID(ctx, ro.WorkOrderID)
		if err != nil {
			return err
		}

		number, err := repos.Invoices().NextNumber(ctx, finance.InvoiceTypeTaxInvoice)
		if err != nil {
			return fmt.Errorf("allocate invoice number: %w", err)
		}
		invoice, err = finance.NewTaxInvoice(number, order.ID, ro.ID, order.ClientID, order.TotalAmount, s.policy.GSTRate, req.DueDate, actor.ID)
		if err != nil {
			return err
		}
		if req.FileURL != nil {
			invoice.AttachDocument(*req.FileURL)
			ro.SetAccountsInvoiceURL(*req.FileURL)
			if err := repos.ReleaseOrders().SaveWithLock(ctx, ro); err != nil {
				return err
			}
		}
		return repos.Invoices().Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tax invoice issued",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("release_order_id", ro.ID.String()),
		zap.String("amount", invoice.Amount.StringFixed(2)),
	)
	if invoice.FileURL == nil {
		s.attachDocument(ctx, invoice, order, &ro.ID)
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// RecordPayment applies a payment recorded by the accounts team
func (s *InvoiceService) RecordPayment(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	if err := actor.Require(identity.ActionInvoiceRecordPayment); err != nil {
		return nil, err
	}
	return s.recordPayment(ctx, actor.ID, invoiceID, req.Amount, req.Reference)
}

// RecordGatewayPayment applies a payment confirmed by the payment gateway callback
func (s *InvoiceService) RecordGatewayPayment(ctx context.Context, req PaymentCallbackRequest) (*InvoiceResponse, error) {
	return s.recordPayment(ctx, uuid.Nil, req.InvoiceID, req.Amount, req.Reference)
}

// recordPayment adds the payment; completing proformas that cover the order
// total marks the work order paid in the same transaction.
func (s *InvoiceService) recordPayment(ctx context.Context, actorID, invoiceID uuid.UUID, amount *decimal.Decimal, reference string) (*InvoiceResponse, error) {
	var (
		invoice  *finance.Invoice
		changed  bool
		newOrder *release.ReleaseOrder
	)
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		var err error
		invoice, err = repos.Invoices().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		changed, err = invoice.RecordPayment(amount, reference, actorID)
		if err != nil || !changed {
			return err
		}
		if err := repos.Invoices().SaveWithLock(ctx, invoice); err != nil {
			return err
		}

		if invoice.IsProforma() {
			if invoice.Status != finance.InvoiceStatusCompleted {
				return nil
			}
			newOrder, err = s.markPaidIfCovered(ctx, repos, invoice)
			return err
		}
		return s.syncReleasePayment(ctx, repos, invoice, actorID)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("payment recorded",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("number", invoice.Number),
			zap.String("status", string(invoice.Status)),
			zap.String("paid", invoice.PaidAmount.StringFixed(2)),
		)
	}
	if newOrder != nil {
		s.logger.Info("work order paid, release order issued",
			zap.String("work_order_id", newOrder.WorkOrderID.String()),
			zap.String("release_order_id", newOrder.ID.String()),
			zap.String("status", string(newOrder.Status)),
		)
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

func (s *InvoiceService) markPaidIfCovered(ctx context.Context, repos Repositories, paid *finance.Invoice) (*release.ReleaseOrder, error) {
	order, err := repos.WorkOrders().FindByID(ctx, paid.WorkOrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != booking.WorkOrderStatusClientAccepted {
		return nil, nil
	}
	invoices, err := repos.Invoices().FindByWorkOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	for i, inv := range invoices {
		if inv.ID == paid.ID {
			invoices[i] = paid
		}
	}
	if !finance.ProformasCover(order.TotalAmount, invoices) {
		return nil, nil
	}
	return markWorkOrderPaid(ctx, repos, order)
}

func (s *InvoiceService) syncReleasePayment(ctx context.Context, repos Repositories, inv *finance.Invoice, actorID uuid.UUID) error {
	if inv.ReleaseOrderID == nil {
		return nil
	}
	ro, err := repos.ReleaseOrders().FindByID(ctx, *inv.ReleaseOrderID)
	if err != nil {
		return err
	}
	status := release.PaymentStatusPartial
	if inv.Status == finance.InvoiceStatusCompleted {
		status = release.PaymentStatusCompleted
	}
	if err := ro.SetPaymentStatus(status, actorID); err != nil {
		return err
	}
	return repos.ReleaseOrders().SaveWithLock(ctx, ro)
}

// GetByID returns one invoice
func (s *InvoiceService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*InvoiceResponse, error) {
	if err := actor.Require(identity.ActionInvoiceRead); err != nil {
		return nil, err
	}
	inv, err := s.repos.Invoices().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(actor, inv.ClientID); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ListByWorkOrder returns every invoice of a work order
func (s *InvoiceService) ListByWorkOrder(ctx context.Context, actor identity.Actor, workOrderID uuid.UUID) ([]InvoiceResponse, error) {
	if err := actor.Require(identity.ActionInvoiceRead); err != nil {
		return nil, err
	}
	order, err := s.repos.WorkOrders().FindByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(actor, order.ClientID); err != nil {
		return nil, err
	}
	invoices, err := s.repos.Invoices().FindByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(invoices), nil
}

// attachDocument renders the invoice PDF after commit. Failures are logged and
// leave the invoice without a file.
func (s *InvoiceService) attachDocument(ctx context.Context, invoice *finance.Invoice, order *booking.WorkOrder, releaseOrderID *uuid.UUID) {
	if s.documents == nil {
		return
	}
	url, err := s.documents.Generate(ctx, invoice, order)
	if err != nil {
		s.logger.Warn("invoice document generation failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
		return
	}

	err = s.txScope.Execute(ctx, func(repos Repositories) error {
		fresh, err := repos.Invoices().FindByID(ctx, invoice.ID)
		if err != nil {
			return err
		}
		fresh.AttachDocument(url)
		if err := repos.Invoices().SaveWithLock(ctx, fresh); err != nil {
			return err
		}
		*invoice = *fresh
		if releaseOrderID == nil {
			return nil
		}
		ro, err := repos.ReleaseOrders().FindByID(ctx, *releaseOrderID)
		if err != nil {
			return err
		}
		ro.SetAccountsInvoiceURL(url)
		return repos.ReleaseOrders().SaveWithLock(ctx, ro)
	})
	if err != nil {
		s.logger.Warn("attaching invoice document failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *InvoiceService) dueDate(requested *time.Time) *time.Time {
	if requested != nil || s.policy.ProformaDueDays <= 0 {
		return requested
	}
	due := time.Now().AddDate(0, 0, s.policy.ProformaDueDays)
	return &due
}
