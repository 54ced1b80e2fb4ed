package booking

import (
	"context"
	"fmt"
	"path"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkOrderService runs the work order engine
type WorkOrderService struct {
	txScope TransactionScope
	repos   Repositories
	storage FileStorage
	logger  *zap.Logger
}

// NewWorkOrderService creates a new WorkOrderService.
// repos is used for reads outside a transaction.
func NewWorkOrderService(txScope TransactionScope, repos Repositories, logger *zap.Logger) *WorkOrderService {
	return &WorkOrderService{
		txScope: txScope,
		repos:   repos,
		logger:  logger,
	}
}

// SetFileStorage enables multipart uploads for banners and purchase orders
func (s *WorkOrderService) SetFileStorage(storage FileStorage) {
	s.storage = storage
}

// CreateDraft creates a draft work order and holds every referenced slot
func (s *WorkOrderService) CreateDraft(ctx context.Context, actor identity.Actor, req CreateWorkOrderRequest) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderCreate); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("work order must contain at least one item")
	}

	var order *booking.WorkOrder
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		items := make([]booking.WorkOrderItem, 0, len(req.Items))
		slotsByItem := make(map[int]uuid.UUID)
		for i, in := range req.Items {
			item, err := s.buildItem(ctx, repos, in)
			if err != nil {
				return err
			}
			if in.SlotID != nil {
				slotsByItem[i] = *in.SlotID
			}
			items = append(items, item)
		}

		number, err := repos.WorkOrders().NextNumber(ctx)
		if err != nil {
			return fmt.Errorf("allocate work order number: %w", err)
		}
		order, err = booking.NewWorkOrder(number, actor.ID, booking.PaymentMode(req.PaymentMode), items)
		if err != nil {
			return err
		}

		for _, slotID := range slotsByItem {
			slot, err := repos.Slots().FindByID(ctx, slotID)
			if err != nil {
				return err
			}
			if err := slot.Reserve(order.ID); err != nil {
				return err
			}
			if err := repos.Slots().SaveWithLock(ctx, slot); err != nil {
				return err
			}
		}
		return repos.WorkOrders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("work order created",
		zap.String("work_order_id", order.ID.String()),
		zap.String("number", order.Number),
		zap.String("client_id", actor.ID.String()),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)
	resp := ToWorkOrderResponse(order)
	return &resp, nil
}

func (s *WorkOrderService) buildItem(ctx context.Context, repos Repositories, in WorkOrderItemInput) (booking.WorkOrderItem, error) {
	switch {
	case in.SlotID != nil && in.AddonType != nil:
		return booking.WorkOrderItem{}, shared.NewValidationError("an item must reference a slot or an addon, not both")
	case in.SlotID == nil && in.AddonType == nil:
		return booking.WorkOrderItem{}, shared.NewValidationError("an item must reference a slot or an addon")
	case in.AddonType != nil:
		if in.UnitPrice == nil {
			return booking.WorkOrderItem{}, shared.NewValidationError("addon %s requires a unit price", *in.AddonType)
		}
		return booking.NewAddonItem(booking.AddonType(*in.AddonType), in.StartDate, in.EndDate, *in.UnitPrice)
	}

	slot, err := repos.Slots().FindByID(ctx, *in.SlotID)
	if err != nil {
		if isNotFound(err) {
			return booking.WorkOrderItem{}, shared.NewValidationError("slot %s does not exist", *in.SlotID)
		}
		return booking.WorkOrderItem{}, err
	}
	if !slot.IsAvailable() {
		return booking.WorkOrderItem{}, shared.NewValidationError("slot %s is not available (status %s)", slot.Code, slot.Status)
	}
	return booking.NewSlotItem(slot, in.StartDate, in.EndDate, in.UnitPrice)
}

// Quote sets prices and moves the order to quoted; from client_accepted it is a re-quote
func (s *WorkOrderService) Quote(ctx context.Context, actor identity.Actor, id uuid.UUID, req QuoteRequest) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderQuote); err != nil {
		return nil, err
	}
	adjustments := make([]booking.PriceAdjustment, len(req.Items))
	for i, in := range req.Items {
		adjustments[i] = booking.PriceAdjustment{ItemID: in.ItemID, UnitPrice: in.UnitPrice}
	}
	return s.mutate(ctx, id, "quoted", func(repos Repositories, o *booking.WorkOrder) error {
		requote := o.Status == booking.WorkOrderStatusClientAccepted
		if err := o.Quote(actor.ID, adjustments); err != nil {
			return err
		}
		if !requote {
			return nil
		}
		// Proformas priced against the old quote must not stay payable
		return failActiveProformas(ctx, repos, o.ID, "superseded by re-quote")
	})
}

// Accept records the client's acceptance of the quote. Proformas completed
// before a re-quote still count, so an order they already cover is paid
// on acceptance.
func (s *WorkOrderService) Accept(ctx context.Context, actor identity.Actor, id uuid.UUID) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderAccept); err != nil {
		return nil, err
	}
	var (
		order *booking.WorkOrder
		paid  bool
	)
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		var err error
		order, err = repos.WorkOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Accept(actor.ID); err != nil {
			return err
		}
		invoices, err := repos.Invoices().FindByWorkOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if !paidProformasCover(order.TotalAmount, invoices) {
			return repos.WorkOrders().SaveWithLock(ctx, order)
		}
		paid = true
		_, err = markWorkOrderPaid(ctx, repos, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logTransition(order, "accepted")
	if paid {
		s.logTransition(order, "paid")
	}
	resp := ToWorkOrderResponse(order)
	return &resp, nil
}

// RequestNegotiation asks for a revised quote
func (s *WorkOrderService) RequestNegotiation(ctx context.Context, actor identity.Actor, id uuid.UUID, reason string) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderNegotiate); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "negotiation requested", func(_ Repositories, o *booking.WorkOrder) error {
		return o.RequestNegotiation(actor.ID, reason)
	})
}

// Reject terminates the order, releases its slots and voids active proformas
func (s *WorkOrderService) Reject(ctx context.Context, actor identity.Actor, id uuid.UUID, reason string) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderReject); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "rejected", func(repos Repositories, o *booking.WorkOrder) error {
		if err := o.Reject(actor, reason); err != nil {
			return err
		}
		if err := releaseSlots(ctx, repos, o); err != nil {
			return err
		}
		return failActiveProformas(ctx, repos, o.ID, "work order rejected")
	})
}

// Complete closes an active order and frees its slots
func (s *WorkOrderService) Complete(ctx context.Context, actor identity.Actor, id uuid.UUID) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderComplete); err != nil {
		return nil, err
	}
	var order *booking.WorkOrder
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		var err error
		order, err = repos.WorkOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		return completeWorkOrder(ctx, repos, order, actor.ID)
	})
	if err != nil {
		return nil, err
	}
	s.logTransition(order, "completed")
	resp := ToWorkOrderResponse(order)
	return &resp, nil
}

// UploadPurchaseOrder attaches a hosted PO document
func (s *WorkOrderService) UploadPurchaseOrder(ctx context.Context, actor identity.Actor, id uuid.UUID, url string) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderUploadPO); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "purchase order uploaded", func(_ Repositories, o *booking.WorkOrder) error {
		return o.UploadPurchaseOrder(actor.ID, url)
	})
}

// UploadPurchaseOrderFile stores the PO through file storage, then attaches it
func (s *WorkOrderService) UploadPurchaseOrderFile(ctx context.Context, actor identity.Actor, id uuid.UUID, file Upload) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderUploadPO); err != nil {
		return nil, err
	}
	url, err := s.store(ctx, path.Join("work-orders", id.String(), "purchase-order", uuid.NewString()+path.Ext(file.Filename)), file)
	if err != nil {
		return nil, err
	}
	return s.UploadPurchaseOrder(ctx, actor, id, url)
}

// ApprovePurchaseOrder accepts the uploaded PO
func (s *WorkOrderService) ApprovePurchaseOrder(ctx context.Context, actor identity.Actor, id uuid.UUID) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderApprovePO); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "purchase order approved", func(_ Repositories, o *booking.WorkOrder) error {
		return o.ApprovePurchaseOrder(actor.ID)
	})
}

// UploadBanner sets an item's creative and mirrors it onto the release order
func (s *WorkOrderService) UploadBanner(ctx context.Context, actor identity.Actor, id, itemID uuid.UUID, url string) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderUploadBanner); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "banner uploaded", func(repos Repositories, o *booking.WorkOrder) error {
		proforma, err := hasProforma(ctx, repos, o.ID)
		if err != nil {
			return err
		}
		if _, err := o.UploadBanner(actor.ID, itemID, url, proforma); err != nil {
			return err
		}
		if !o.Status.IsPaidOrLater() {
			return nil
		}

		ro, err := repos.ReleaseOrders().FindByWorkOrder(ctx, o.ID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		moved, err := ro.AttachBanner(itemID, url, actor.ID)
		if err != nil {
			return err
		}
		if moved {
			s.logger.Info("release order ready for manager review",
				zap.String("release_order_id", ro.ID.String()),
				zap.String("number", ro.Number),
			)
		}
		return repos.ReleaseOrders().SaveWithLock(ctx, ro)
	})
}

// UploadBannerFile stores the banner through file storage, then attaches it
func (s *WorkOrderService) UploadBannerFile(ctx context.Context, actor identity.Actor, id, itemID uuid.UUID, file Upload) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderUploadBanner); err != nil {
		return nil, err
	}
	url, err := s.store(ctx, path.Join("work-orders", id.String(), "banners", itemID.String(), uuid.NewString()+path.Ext(file.Filename)), file)
	if err != nil {
		return nil, err
	}
	return s.UploadBanner(ctx, actor, id, itemID, url)
}

// GetByID returns one work order; clients only see their own
func (s *WorkOrderService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*WorkOrderResponse, error) {
	if err := actor.Require(identity.ActionWorkOrderRead); err != nil {
		return nil, err
	}
	order, err := s.repos.WorkOrders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(actor, order.ClientID); err != nil {
		return nil, err
	}
	resp := ToWorkOrderResponse(order)
	return &resp, nil
}

// List returns a page of work orders; a client's list is always restricted to their own
func (s *WorkOrderService) List(ctx context.Context, actor identity.Actor, filter WorkOrderListFilter) ([]WorkOrderResponse, int64, error) {
	if err := actor.Require(identity.ActionWorkOrderRead); err != nil {
		return nil, 0, err
	}
	domainFilter := newFilter(filter.Page, filter.PageSize)
	if actor.Role == identity.RoleClient {
		domainFilter = domainFilter.With("client_id", actor.ID)
	} else if filter.ClientID != nil {
		domainFilter = domainFilter.With("client_id", *filter.ClientID)
	}
	if filter.Status != "" {
		domainFilter = domainFilter.With("status", filter.Status)
	}

	orders, total, err := s.repos.WorkOrders().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]WorkOrderResponse, len(orders))
	for i, o := range orders {
		out[i] = ToWorkOrderResponse(o)
	}
	return out, total, nil
}

// mutate loads the order in a transaction, applies fn and saves with a version check
func (s *WorkOrderService) mutate(ctx context.Context, id uuid.UUID, transition string, fn func(Repositories, *booking.WorkOrder) error) (*WorkOrderResponse, error) {
	var order *booking.WorkOrder
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		var err error
		order, err = repos.WorkOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(repos, order); err != nil {
			return err
		}
		return repos.WorkOrders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.logTransition(order, transition)
	resp := ToWorkOrderResponse(order)
	return &resp, nil
}

func (s *WorkOrderService) store(ctx context.Context, key string, file Upload) (string, error) {
	if s.storage == nil {
		return "", shared.NewValidationError("file uploads are not enabled; provide a url instead")
	}
	url, err := s.storage.Store(ctx, key, file.ContentType, file.Body)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return url, nil
}

func (s *WorkOrderService) logTransition(o *booking.WorkOrder, transition string) {
	s.logger.Info("work order "+transition,
		zap.String("work_order_id", o.ID.String()),
		zap.String("number", o.Number),
		zap.String("status", string(o.Status)),
	)
}
