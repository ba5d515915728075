package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
)

// MentorHandler serves the mentor directory
type MentorHandler struct {
	service services.MentorServiceInterface
}

// NewMentorHandler creates a new MentorHandler
func NewMentorHandler(service services.MentorServiceInterface) *MentorHandler {
	return &MentorHandler{
		service: service,
	}
}

// ListMentors handles GET /api/v1/mentors
// Query parameters: skill (substring filter), sort (name|skill)
func (h *MentorHandler) ListMentors(c *gin.Context) {
	sort := models.MentorSort(c.Query("sort"))
	switch sort {
	case models.MentorSortDefault, models.MentorSortName, models.MentorSortSkill:
	default:
		respondError(c, http.StatusBadRequest, "Invalid sort value. Must be 'name' or 'skill'", nil)
		return
	}

	filter := models.MentorFilter{
		Skill: c.Query("skill"),
		Sort:  sort,
	}

	mentors, err := h.service.ListMentors(c.Request.Context(), filter)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mentors": mentors,
		"total":   len(mentors),
	})
}
