package deployment

import (
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeDeployment = "Deployment"

// Event type constants
const (
	EventTypeBannerDeployed = "BannerDeployed"
	EventTypeBannerRemoved  = "BannerRemoved"
	EventTypeBannerExpired  = "BannerExpired"
)

// DeploymentRef identifies the deployment in its events
type DeploymentRef struct {
	DeploymentID       uuid.UUID `json:"deployment_id"`
	ReleaseOrderID     uuid.UUID `json:"release_order_id"`
	ReleaseOrderItemID uuid.UUID `json:"release_order_item_id"`
	WorkOrderID        uuid.UUID `json:"work_order_id"`
	ClientID           uuid.UUID `json:"client_id"`
	BannerURL          string    `json:"banner_url"`
}

func refOf(d *Deployment) DeploymentRef {
	return DeploymentRef{
		DeploymentID:       d.ID,
		ReleaseOrderID:     d.ReleaseOrderID,
		ReleaseOrderItemID: d.ReleaseOrderItemID,
		WorkOrderID:        d.WorkOrderID,
		ClientID:           d.ClientID,
		BannerURL:          d.BannerURL,
	}
}

// BannerDeployedEvent is raised when a banner goes live
type BannerDeployedEvent struct {
	shared.BaseDomainEvent
	DeploymentRef
}

// NewBannerDeployedEvent creates a new BannerDeployedEvent
func NewBannerDeployedEvent(d *Deployment) *BannerDeployedEvent {
	return &BannerDeployedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBannerDeployed, AggregateTypeDeployment, d.ID, d.DeployedBy),
		DeploymentRef:   refOf(d),
	}
}

// EventType returns the event type name
func (e *BannerDeployedEvent) EventType() string {
	return EventTypeBannerDeployed
}

// BannerRemovedEvent is raised when a banner is taken down or replaced
type BannerRemovedEvent struct {
	shared.BaseDomainEvent
	DeploymentRef
	Superseded bool `json:"superseded"`
}

// NewBannerRemovedEvent creates a new BannerRemovedEvent
func NewBannerRemovedEvent(d *Deployment, actorID uuid.UUID, superseded bool) *BannerRemovedEvent {
	return &BannerRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBannerRemoved, AggregateTypeDeployment, d.ID, actorID),
		DeploymentRef:   refOf(d),
		Superseded:      superseded,
	}
}

// EventType returns the event type name
func (e *BannerRemovedEvent) EventType() string {
	return EventTypeBannerRemoved
}

// BannerExpiredEvent is raised by the expiry sweep
type BannerExpiredEvent struct {
	shared.BaseDomainEvent
	DeploymentRef
}

// NewBannerExpiredEvent creates a new BannerExpiredEvent
func NewBannerExpiredEvent(d *Deployment) *BannerExpiredEvent {
	return &BannerExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBannerExpired, AggregateTypeDeployment, d.ID, uuid.Nil),
		DeploymentRef:   refOf(d),
	}
}

// EventType returns the event type name
func (e *BannerExpiredEvent) EventType() string {
	return EventTypeBannerExpired
}
