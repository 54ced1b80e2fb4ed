package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/finance"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/release"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The helpers below are the cross-aggregate steps shared by the engines.
// They always run inside TransactionScope.Execute with the scope's repositories.

// markWorkOrderPaid moves the order to paid, books its slots and issues the
// release order.
func markWorkOrderPaid(ctx context.Context, repos Repositories, wo *booking.WorkOrder) (*release.ReleaseOrder, error) {
	if err := wo.MarkPaid(); err != nil {
		return nil, err
	}
	if err := forEachSlot(ctx, repos, wo, func(s slotMutator) error { return s.Book(wo.ID) }); err != nil {
		return nil, err
	}
	if err := repos.WorkOrders().SaveWithLock(ctx, wo); err != nil {
		return nil, err
	}

	number, err := repos.ReleaseOrders().NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate release order number: %w", err)
	}
	ro, err := release.NewReleaseOrder(number, wo)
	if err != nil {
		return nil, err
	}
	if err := repos.ReleaseOrders().Save(ctx, ro); err != nil {
		return nil, err
	}
	return ro, nil
}

// activateIfDeployed activates the work order once its release order is deployed
func activateIfDeployed(ctx context.Context, repos Repositories, ro *release.ReleaseOrder) error {
	if ro.Status != release.StatusDeployed {
		return nil
	}
	wo, err := repos.WorkOrders().FindByID(ctx, ro.WorkOrderID)
	if err != nil {
		return err
	}
	if wo.Status != booking.WorkOrderStatusPaid {
		return nil
	}
	if err := wo.Activate(); err != nil {
		return err
	}
	return repos.WorkOrders().SaveWithLock(ctx, wo)
}

// completeWorkOrder closes an active order and returns its slots to the catalog
func completeWorkOrder(ctx context.Context, repos Repositories, wo *booking.WorkOrder, actorID uuid.UUID) error {
	if err := wo.Complete(actorID); err != nil {
		return err
	}
	if err := releaseSlots(ctx, repos, wo); err != nil {
		return err
	}
	return repos.WorkOrders().SaveWithLock(ctx, wo)
}

// releaseSlots frees every slot the order still holds
func releaseSlots(ctx context.Context, repos Repositories, wo *booking.WorkOrder) error {
	return forEachSlot(ctx, repos, wo, func(s slotMutator) error { return s.Release(wo.ID) })
}

// failActiveProformas voids the order's pending or partial proformas
func failActiveProformas(ctx context.Context, repos Repositories, workOrderID uuid.UUID, reason string) error {
	invoices, err := repos.Invoices().FindByWorkOrder(ctx, workOrderID)
	if err != nil {
		return err
	}
	for _, inv := range invoices {
		if !inv.IsProforma() || !inv.Status.IsActive() {
			continue
		}
		if err := inv.MarkFailed(reason); err != nil {
			return err
		}
		if err := repos.Invoices().SaveWithLock(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

// paidProformasCover reports whether completed proformas exist and pay the
// whole of total.
func paidProformasCover(total decimal.Decimal, invoices []*finance.Invoice) bool {
	for _, inv := range invoices {
		if inv.IsProforma() && inv.Status == finance.InvoiceStatusCompleted {
			return finance.ProformasCover(total, invoices)
		}
	}
	return false
}

// hasProforma reports whether any proforma was issued for the order
func hasProforma(ctx context.Context, repos Repositories, workOrderID uuid.UUID) (bool, error) {
	invoices, err := repos.Invoices().FindByWorkOrder(ctx, workOrderID)
	if err != nil {
		return false, err
	}
	return finance.HasProforma(invoices), nil
}

type slotMutator interface {
	Book(workOrderID uuid.UUID) error
	Release(workOrderID uuid.UUID) error
}

func forEachSlot(ctx context.Context, repos Repositories, wo *booking.WorkOrder, fn func(slotMutator) error) error {
	ids := wo.SlotIDs()
	if len(ids) == 0 {
		return nil
	}
	slots, err := repos.Slots().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, slot := range slots {
		if err := fn(slot); err != nil {
			return err
		}
		if err := repos.Slots().SaveWithLock(ctx, slot); err != nil {
			return err
		}
	}
	return nil
}

// requireOwnerOrStaff lets staff read anything and clients only their own records
func requireOwnerOrStaff(actor identity.Actor, clientID uuid.UUID) error {
	if actor.Role == identity.RoleClient && actor.ID != clientID {
		return shared.NewForbiddenError("this record belongs to another client")
	}
	return nil
}

// isNotFound reports whether err is the repositories' not-found error
func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

func newFilter(page, pageSize int) shared.Filter {
	f := shared.DefaultFilter()
	f.Page, f.PageSize = shared.PageBounds(page, pageSize)
	return f
}
