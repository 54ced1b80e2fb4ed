package booking

import (
	"context"
	"time"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/deployment"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeploymentService runs the deployment tracker
type DeploymentService struct {
	txScope TransactionScope
	repos   Repositories
	policy  Policy
	logger  *zap.Logger
}

// NewDeploymentService creates a new DeploymentService
func NewDeploymentService(txScope TransactionScope, repos Repositories, policy Policy, logger *zap.Logger) *DeploymentService {
	return &DeploymentService{
		txScope: txScope,
		repos:   repos,
		policy:  policy,
		logger:  logger,
	}
}

// Deploy puts a banner live on a release order item. A previous live
// deployment of the item is removed in the same transaction.
func (s *DeploymentService) Deploy(ctx context.Context, actor identity.Actor, releaseOrderID, itemID uuid.UUID, req DeployRequest) (*DeploymentResponse, error) {
	var (
		created  *deployment.Deployment
		deployed bool
	)
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		ro, err := repos.ReleaseOrders().FindByID(ctx, releaseOrderID)
		if err != nil {
			return err
		}
		item, err := ro.CheckDeployable(actor, itemID, s.policy.DeployRequiresPayment)
		if err != nil {
			return err
		}

		bannerURL := req.BannerURL
		if bannerURL == "" && item.BannerURL != nil {
			bannerURL = *item.BannerURL
		}

		previous, err := repos.Deployments().FindLiveByItem(ctx, item.ID)
		switch {
		case err == nil:
			if err := previous.Supersede(actor.ID); err != nil {
				return err
			}
			if err := repos.Deployments().SaveWithLock(ctx, previous); err != nil {
				return err
			}
		case !isNotFound(err):
			return err
		}

		created, err = deployment.New(deployment.Target{
			ReleaseOrderID:     ro.ID,
			ReleaseOrderItemID: item.ID,
			WorkOrderID:        ro.WorkOrderID,
			WorkOrderItemID:    item.WorkOrderItemID,
			ClientID:           ro.ClientID,
			EndDate:            item.EndDate,
		}, bannerURL, actor.ID)
		if err != nil {
			return err
		}
		if err := repos.Deployments().Save(ctx, created); err != nil {
			return err
		}

		deployed, err = ro.RecordDeployment(item.ID, created.ID, actor.ID)
		if err != nil {
			return err
		}
		if err := repos.ReleaseOrders().SaveWithLock(ctx, ro); err != nil {
			return err
		}
		return activateIfDeployed(ctx, repos, ro)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("banner deployed",
		zap.String("deployment_id", created.ID.String()),
		zap.String("release_order_id", releaseOrderID.String()),
		zap.String("item_id", itemID.String()),
		zap.String("actor_id", actor.ID.String()),
		zap.Bool("release_order_deployed", deployed),
	)
	resp := ToDeploymentResponse(created)
	return &resp, nil
}

// Remove takes a live banner down
func (s *DeploymentService) Remove(ctx context.Context, actor identity.Actor, deploymentID uuid.UUID) (*DeploymentResponse, error) {
	if err := actor.Require(identity.ActionDeploymentRemove); err != nil {
		return nil, err
	}

	var d *deployment.Deployment
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		var err error
		d, err = repos.Deployments().FindByID(ctx, deploymentID)
		if err != nil {
			return err
		}
		if err := d.Remove(actor.ID); err != nil {
			return err
		}
		if err := repos.Deployments().SaveWithLock(ctx, d); err != nil {
			return err
		}
		return clearLiveMarker(ctx, repos, d)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("banner removed",
		zap.String("deployment_id", d.ID.String()),
		zap.String("release_order_id", d.ReleaseOrderID.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	resp := ToDeploymentResponse(d)
	return &resp, nil
}

// ListByReleaseOrder returns the deployment history of a release order
func (s *DeploymentService) ListByReleaseOrder(ctx context.Context, actor identity.Actor, releaseOrderID uuid.UUID) ([]DeploymentResponse, error) {
	if err := actor.Require(identity.ActionReleaseRead); err != nil {
		return nil, err
	}
	ro, err := s.repos.ReleaseOrders().FindByID(ctx, releaseOrderID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(actor, ro.ClientID); err != nil {
		return nil, err
	}
	records, err := s.repos.Deployments().FindByReleaseOrder(ctx, releaseOrderID)
	if err != nil {
		return nil, err
	}
	resp := make([]DeploymentResponse, len(records))
	for i, d := range records {
		resp[i] = ToDeploymentResponse(d)
	}
	return resp, nil
}

// ExpireDue flips up to batch live deployments whose end date has passed and
// completes the work orders left without live banners. Each deployment is
// handled in its own transaction; failures are logged and skipped.
func (s *DeploymentService) ExpireDue(ctx context.Context, now time.Time, batch int) (int, error) {
	due, err := s.repos.Deployments().FindExpiring(ctx, now, batch)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range due {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		completed := false
		err := s.txScope.Execute(ctx, func(repos Repositories) error {
			d, err := repos.Deployments().FindByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if !deployment.IsExpired(d, now) {
				return nil
			}
			if err := d.Expire(now); err != nil {
				return err
			}
			if err := repos.Deployments().SaveWithLock(ctx, d); err != nil {
				return err
			}
			if err := clearLiveMarker(ctx, repos, d); err != nil {
				return err
			}
			completed, err = completeIfNothingLive(ctx, repos, d.WorkOrderID)
			return err
		})
		if err != nil {
			s.logger.Warn("expiring deployment failed",
				zap.String("deployment_id", candidate.ID.String()),
				zap.Error(err),
			)
			continue
		}
		expired++
		if completed {
			s.logger.Info("work order completed after banners expired",
				zap.String("work_order_id", candidate.WorkOrderID.String()),
			)
		}
	}
	return expired, nil
}

func clearLiveMarker(ctx context.Context, repos Repositories, d *deployment.Deployment) error {
	ro, err := repos.ReleaseOrders().FindByID(ctx, d.ReleaseOrderID)
	if err != nil {
		return err
	}
	ro.ClearDeployment(d.ReleaseOrderItemID, d.ID)
	return repos.ReleaseOrders().SaveWithLock(ctx, ro)
}

func completeIfNothingLive(ctx context.Context, repos Repositories, workOrderID uuid.UUID) (bool, error) {
	records, err := repos.Deployments().FindByWorkOrder(ctx, workOrderID)
	if err != nil {
		return false, err
	}
	for _, d := range records {
		if d.IsLive() {
			return false, nil
		}
	}
	wo, err := repos.WorkOrders().FindByID(ctx, workOrderID)
	if err != nil {
		return false, err
	}
	if wo.Status != booking.WorkOrderStatusActive {
		return false, nil
	}
	if err := completeWorkOrder(ctx, repos, wo, identity.SystemActor.ID); err != nil {
		return false, err
	}
	return true, nil
}

