package handler

import (
	"context"

	bookingapp "github.com/adbook/backend/internal/application/booking"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeploymentService tracks live banners
type DeploymentService interface {
	Deploy(ctx context.Context, actor identity.Actor, releaseOrderID, itemID uuid.UUID, req bookingapp.DeployRequest) (*bookingapp.DeploymentResponse, error)
	Remove(ctx context.Context, actor identity.Actor, deploymentID uuid.UUID) (*bookingapp.DeploymentResponse, error)
	ListByReleaseOrder(ctx context.Context, actor identity.Actor, releaseOrderID uuid.UUID) ([]bookingapp.DeploymentResponse, error)
}

// DeploymentHandler handles deployment HTTP requests
type DeploymentHandler struct {
	BaseHandler
	deployments DeploymentService
}

// NewDeploymentHandler creates a new DeploymentHandler
func NewDeploymentHandler(deployments DeploymentService) *DeploymentHandler {
	return &DeploymentHandler{deployments: deployments}
}

// Deploy godoc
// @ID           deployReleaseOrderItem
// @Summary      Deploy a release order item
// @Description  Puts the banner live. A previous live deployment of the same item is removed.
// @Tags         deployments
// @Accept       json
// @Produce      json
// @Param        id path string true "Release order ID" format(uuid)
// @Param        itemId path string true "Release order item ID" format(uuid)
// @Param        request body bookingapp.DeployRequest false "Banner override"
// @Success      201 {object} APIResponse[bookingapp.DeploymentResponse]
// @Failure      402 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /release-orders/{id}/items/{itemId}/deploy [post]
func (h *DeploymentHandler) Deploy(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	releaseOrderID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "itemId")
	if !ok {
		return
	}
	var req bookingapp.DeployRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	deployment, err := h.deployments.Deploy(c.Request.Context(), actor, releaseOrderID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, deployment)
}

// ListByReleaseOrder godoc
// @ID           listReleaseOrderDeployments
// @Summary      List deployments of a release order
// @Tags         deployments
// @Produce      json
// @Param        id path string true "Release order ID" format(uuid)
// @Success      200 {object} APIResponse[[]bookingapp.DeploymentResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /release-orders/{id}/deployments [get]
func (h *DeploymentHandler) ListByReleaseOrder(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	releaseOrderID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	deployments, err := h.deployments.ListByReleaseOrder(c.Request.Context(), actor, releaseOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deployments)
}

// Remove godoc
// @ID           removeDeployment
// @Summary      Take a live banner down
// @Tags         deployments
// @Produce      json
// @Param        id path string true "Deployment ID" format(uuid)
// @Success      200 {object} APIResponse[bookingapp.DeploymentResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /deployments/{id}/remove [post]
func (h *DeploymentHandler) Remove(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	deployment, err := h.deployments.Remove(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deployment)
}
