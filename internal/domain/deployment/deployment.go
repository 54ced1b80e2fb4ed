package deployment

import (
	"strings"
	"time"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the state of a deployed banner
type Status string

const (
	StatusDeployed Status = "deployed"
	StatusRemoved  Status = "removed"
	StatusExpired  Status = "expired"
)

// IsValid checks if the status is a valid deployment status
func (s Status) IsValid() bool {
	return s == StatusDeployed || s == StatusRemoved || s == StatusExpired
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// Deployment records one banner going live on one release order item.
// Records are never moved back to deployed; a redeploy creates a new one.
type Deployment struct {
	shared.BaseAggregateRoot
	ReleaseOrderID     uuid.UUID
	ReleaseOrderItemID uuid.UUID
	WorkOrderID        uuid.UUID
	WorkOrderItemID    uuid.UUID
	ClientID           uuid.UUID
	BannerURL          string
	Status             Status
	DeployedBy         uuid.UUID
	DeployedAt         time.Time
	EndDate            time.Time
	RemovedBy          *uuid.UUID
	RemovedAt          *time.Time
	ExpiredAt          *time.Time
}

// Target describes the item being deployed
type Target struct {
	ReleaseOrderID     uuid.UUID
	ReleaseOrderItemID uuid.UUID
	WorkOrderID        uuid.UUID
	WorkOrderItemID    uuid.UUID
	ClientID           uuid.UUID
	EndDate            time.Time
}

// New creates a live deployment
func New(target Target, bannerURL string, actorID uuid.UUID) (*Deployment, error) {
	bannerURL = strings.TrimSpace(bannerURL)
	if bannerURL == "" {
		return nil, shared.NewValidationError("banner url is required to deploy")
	}
	if target.ReleaseOrderItemID == uuid.Nil {
		return nil, shared.NewValidationError("release order item is required")
	}
	d := &Deployment{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		ReleaseOrderID:     target.ReleaseOrderID,
		ReleaseOrderItemID: target.ReleaseOrderItemID,
		WorkOrderID:        target.WorkOrderID,
		WorkOrderItemID:    target.WorkOrderItemID,
		ClientID:           target.ClientID,
		BannerURL:          bannerURL,
		Status:             StatusDeployed,
		DeployedBy:         actorID,
		EndDate:            target.EndDate,
	}
	d.DeployedAt = d.CreatedAt
	d.AddDomainEvent(NewBannerDeployedEvent(d))
	return d, nil
}

// IsLive reports whether the banner is currently deployed
func (d *Deployment) IsLive() bool {
	return d.Status == StatusDeployed
}

// Remove takes a live banner down
func (d *Deployment) Remove(actorID uuid.UUID) error {
	return d.remove(actorID, false)
}

// Supersede removes the record because a newer deployment replaces it
func (d *Deployment) Supersede(actorID uuid.UUID) error {
	return d.remove(actorID, true)
}

func (d *Deployment) remove(actorID uuid.UUID, superseded bool) error {
	if d.Status != StatusDeployed {
		return shared.NewInvalidTransitionError("deployment", string(d.Status), "remove")
	}
	now := time.Now()
	d.Status = StatusRemoved
	d.RemovedBy = &actorID
	d.RemovedAt = &now
	d.Touch()
	d.AddDomainEvent(NewBannerRemovedEvent(d, actorID, superseded))
	return nil
}

// Expire flips a live deployment whose booking period has ended
func (d *Deployment) Expire(now time.Time) error {
	if !IsExpired(d, now) {
		return shared.NewInvalidTransitionError("deployment", string(d.Status), "expire")
	}
	d.Status = StatusExpired
	d.ExpiredAt = &now
	d.Touch()
	d.AddDomainEvent(NewBannerExpiredEvent(d))
	return nil
}

// IsExpired is true when d is live and now is at or after its end date
func IsExpired(d *Deployment, now time.Time) bool {
	return d.Status == StatusDeployed && !now.Before(d.EndDate)
}
