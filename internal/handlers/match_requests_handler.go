package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
)

// MatchRequestsHandler handles match request endpoints
type MatchRequestsHandler struct {
	service services.MatchServiceInterface
}

// NewMatchRequestsHandler creates a new MatchRequestsHandler
func NewMatchRequestsHandler(service services.MatchServiceInterface) *MatchRequestsHandler {
	return &MatchRequestsHandler{
		service: service,
	}
}

// Create handles POST /api/v1/match-requests
func (h *MatchRequestsHandler) Create(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload models.CreateMatchRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	request, err := h.service.CreateRequest(c.Request.Context(), actor, &payload)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// Decide handles POST /api/v1/match-requests/:id/decide
func (h *MatchRequestsHandler) Decide(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	requestID := c.Param("id")
	if requestID == "" {
		respondError(c, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	var payload models.DecideMatchRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	request, err := h.service.DecideRequest(c.Request.Context(), actor, requestID, payload.Outcome)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// Cancel handles DELETE /api/v1/match-requests/:id
func (h *MatchRequestsHandler) Cancel(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	requestID := c.Param("id")
	if requestID == "" {
		respondError(c, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	request, err := h.service.CancelRequest(c.Request.Context(), actor, requestID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// ListIncoming handles GET /api/v1/match-requests/incoming
func (h *MatchRequestsHandler) ListIncoming(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	response, err := h.service.ListIncoming(c.Request.Context(), actor)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListOutgoing handles GET /api/v1/match-requests/outgoing
func (h *MatchRequestsHandler) ListOutgoing(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	response, err := h.service.ListOutgoing(c.Request.Context(), actor)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
