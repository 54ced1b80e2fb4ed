package release

import (
	"time"

	"github.com/adbook/backend/internal/domain/booking"
	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// Lane is the team that publishes an item
type Lane string

const (
	LaneIT       Lane = "it"
	LaneMaterial Lane = "material"
)

// LaneFor classifies a media type: print goes to material, everything else to IT
func LaneFor(media catalog.MediaType) Lane {
	if media.IsPrint() {
		return LaneMaterial
	}
	return LaneIT
}

// IsValid checks if the lane is known
func (l Lane) IsValid() bool {
	return l == LaneIT || l == LaneMaterial
}

// Role returns the role that works this lane
func (l Lane) Role() identity.Role {
	if l == LaneMaterial {
		return identity.RoleMaterial
	}
	return identity.RoleIT
}

// DeployAction returns the permission needed to deploy items of this lane
func (l Lane) DeployAction() identity.Action {
	if l == LaneMaterial {
		return identity.ActionDeployMaterial
	}
	return identity.ActionDeployIT
}

// ProcessAction returns the permission needed to mark items of this lane processed
func (l Lane) ProcessAction() identity.Action {
	if l == LaneMaterial {
		return identity.ActionProcessMaterial
	}
	return identity.ActionProcessIT
}

// Item is one slot placement to be published
type Item struct {
	ID               uuid.UUID
	ReleaseOrderID   uuid.UUID
	WorkOrderItemID  uuid.UUID
	SlotID           uuid.UUID
	MediaType        catalog.MediaType
	Lane             Lane
	BannerURL        *string
	ProcessedAt      *time.Time
	ProcessedBy      *uuid.UUID
	LiveDeploymentID *uuid.UUID
	EndDate          time.Time
}

func newItem(releaseOrderID uuid.UUID, woItem booking.WorkOrderItem) Item {
	item := Item{
		ID:              uuid.New(),
		ReleaseOrderID:  releaseOrderID,
		WorkOrderItemID: woItem.ID,
		MediaType:       woItem.MediaType,
		Lane:            LaneFor(woItem.MediaType),
		EndDate:         woItem.EndDate,
	}
	if woItem.SlotID != nil {
		item.SlotID = *woItem.SlotID
	}
	if woItem.HasBanner() {
		url := *woItem.BannerURL
		item.BannerURL = &url
	}
	return item
}

// HasBanner reports whether the item has an approved creative
func (i *Item) HasBanner() bool {
	return i.BannerURL != nil && *i.BannerURL != ""
}

// IsLive reports whether a deployment is currently live
func (i *Item) IsLive() bool {
	return i.LiveDeploymentID != nil
}

// IsPending reports whether the lane team still has to act on the item
func (i *Item) IsPending() bool {
	return i.ProcessedAt == nil && !i.IsLive()
}
