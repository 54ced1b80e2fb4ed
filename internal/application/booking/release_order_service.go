package booking

import (
	"context"

	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/domain/release"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// stageActions maps each review stage to the permission its reviewer needs
var stageActions = map[release.Status]identity.Action{
	release.StatusPendingManagerReview: identity.ActionReleaseReviewManager,
	release.StatusPendingVPReview:      identity.ActionReleaseReviewVP,
	release.StatusPendingPVReview:      identity.ActionReleaseReviewPV,
}

// ReleaseOrderService runs the release order engine
type ReleaseOrderService struct {
	txScope TransactionScope
	repos   Repositories
	logger  *zap.Logger
}

// NewReleaseOrderService creates a new ReleaseOrderService
func NewReleaseOrderService(txScope TransactionScope, repos Repositories, logger *zap.Logger) *ReleaseOrderService {
	return &ReleaseOrderService{
		txScope: txScope,
		repos:   repos,
		logger:  logger,
	}
}

// Approve advances the release order one stage
func (s *ReleaseOrderService) Approve(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ReleaseOrderResponse, error) {
	return s.mutate(ctx, id, "approved", func(repos Repositories, ro *release.ReleaseOrder) error {
		if err := requireStage(actor, ro); err != nil {
			return err
		}
		if err := ro.Approve(actor); err != nil {
			return err
		}
		return activateIfDeployed(ctx, repos, ro)
	})
}

// Reject sends the release order exactly one stage back
func (s *ReleaseOrderService) Reject(ctx context.Context, actor identity.Actor, id uuid.UUID, req RejectReleaseOrderRequest) (*ReleaseOrderResponse, error) {
	return s.mutate(ctx, id, "rejected", func(_ Repositories, ro *release.ReleaseOrder) error {
		if err := requireStage(actor, ro); err != nil {
			return err
		}
		return ro.Reject(actor, req.Reason, req.ItemIDs)
	})
}

// MarkPaymentCompleted records full collection by the accounts team
func (s *ReleaseOrderService) MarkPaymentCompleted(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ReleaseOrderResponse, error) {
	if err := actor.Require(identity.ActionReleaseMarkPayment); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "payment completed", func(_ Repositories, ro *release.ReleaseOrder) error {
		return ro.MarkPaymentCompleted(actor.ID)
	})
}

// MarkItemProcessed records that the lane team finished an item without deploying it
func (s *ReleaseOrderService) MarkItemProcessed(ctx context.Context, actor identity.Actor, id, itemID uuid.UUID) (*ReleaseOrderResponse, error) {
	return s.mutate(ctx, id, "item processed", func(_ Repositories, ro *release.ReleaseOrder) error {
		_, err := ro.MarkItemProcessed(actor, itemID)
		return err
	})
}

// GetByID returns one release order
func (s *ReleaseOrderService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ReleaseOrderResponse, error) {
	if err := actor.Require(identity.ActionReleaseRead); err != nil {
		return nil, err
	}
	ro, err := s.repos.ReleaseOrders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(actor, ro.ClientID); err != nil {
		return nil, err
	}
	resp := ToReleaseOrderResponse(ro)
	return &resp, nil
}

// GetByWorkOrder returns the release order spawned by a work order
func (s *ReleaseOrderService) GetByWorkOrder(ctx context.Context, actor identity.Actor, workOrderID uuid.UUID) (*ReleaseOrderResponse, error) {
	if err := actor.Require(identity.ActionReleaseRead); err != nil {
		return nil, err
	}
	ro, err := s.repos.ReleaseOrders().FindByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(actor, ro.ClientID); err != nil {
		return nil, err
	}
	resp := ToReleaseOrderResponse(ro)
	return &resp, nil
}

// List returns a page of release orders filtered by status or work order
func (s *ReleaseOrderService) List(ctx context.Context, actor identity.Actor, filter ReleaseOrderListFilter) ([]ReleaseOrderResponse, int64, error) {
	if err := actor.Require(identity.ActionReleaseRead); err != nil {
		return nil, 0, err
	}
	domainFilter := newFilter(filter.Page, filter.PageSize)
	if filter.Status != "" {
		domainFilter = domainFilter.With("status", filter.Status)
	}
	if filter.WorkOrderID != nil {
		domainFilter = domainFilter.With("work_order_id", *filter.WorkOrderID)
	}
	if actor.Role == identity.RoleClient {
		domainFilter = domainFilter.With("client_id", actor.ID)
	}
	orders, total, err := s.repos.ReleaseOrders().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toReleaseOrderResponses(orders), total, nil
}

// ReadyForIT is the IT team's queue
func (s *ReleaseOrderService) ReadyForIT(ctx context.Context, actor identity.Actor, page, pageSize int) ([]ReleaseOrderResponse, int64, error) {
	return s.readyFor(ctx, actor, release.LaneIT, page, pageSize)
}

// ReadyForMaterial is the material team's queue
func (s *ReleaseOrderService) ReadyForMaterial(ctx context.Context, actor identity.Actor, page, pageSize int) ([]ReleaseOrderResponse, int64, error) {
	return s.readyFor(ctx, actor, release.LaneMaterial, page, pageSize)
}

func (s *ReleaseOrderService) readyFor(ctx context.Context, actor identity.Actor, lane release.Lane, page, pageSize int) ([]ReleaseOrderResponse, int64, error) {
	if err := actor.Require(identity.ActionReleaseRead); err != nil {
		return nil, 0, err
	}
	if !actor.Role.IsStaff() {
		return nil, 0, shared.NewForbiddenError("lane queues are only visible to staff")
	}
	orders, total, err := s.repos.ReleaseOrders().FindReadyForLane(ctx, lane, newFilter(page, pageSize))
	if err != nil {
		return nil, 0, err
	}
	return toReleaseOrderResponses(orders), total, nil
}

func (s *ReleaseOrderService) mutate(ctx context.Context, id uuid.UUID, transition string, fn func(Repositories, *release.ReleaseOrder) error) (*ReleaseOrderResponse, error) {
	var ro *release.ReleaseOrder
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		var err error
		ro, err = repos.ReleaseOrders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(repos, ro); err != nil {
			return err
		}
		return repos.ReleaseOrders().SaveWithLock(ctx, ro)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("release order "+transition,
		zap.String("release_order_id", ro.ID.String()),
		zap.String("number", ro.Number),
		zap.String("status", string(ro.Status)),
	)
	resp := ToReleaseOrderResponse(ro)
	return &resp, nil
}

// requireStage checks the central permission table for the order's current stage.
// Outside review stages the aggregate reports the invalid transition itself.
func requireStage(actor identity.Actor, ro *release.ReleaseOrder) error {
	action, ok := stageActions[ro.Status]
	if !ok {
		return nil
	}
	return actor.Require(action)
}

func toReleaseOrderResponses(orders []*release.ReleaseOrder) []ReleaseOrderResponse {
	out := make([]ReleaseOrderResponse, len(orders))
	for i, ro := range orders {
		out[i] = ToReleaseOrderResponse(ro)
	}
	return out
}
