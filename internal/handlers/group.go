package handlers

import (
	"net/http"
	"strconv"

	"academykit-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	courseService *services.CourseService
}

func NewGroupHandler(courseService *services.CourseService) *GroupHandler {
	return &GroupHandler{courseService: courseService}
}

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=3,max=255" example:"Batch 2026-A"`
}

// CreateGroup godoc
// @Summary      Create a trainee group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateGroupRequest true "Group data"
// @Success      201 {object} models.Group
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	trainerID := c.GetUint("user_id")

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	group, err := h.courseService.CreateGroup(trainerID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// GetGroup godoc
// @Summary      Get a group
// @Description  Fetch a group with its members, by numeric id or slug
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        ref path string true "Group ID or slug"
// @Success      200 {object} models.Group
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/groups/{ref} [get]
func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, err := h.courseService.GetGroup(c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// JoinGroup godoc
// @Summary      Join a group
// @Description  Add the authenticated user to the group; rejoining is a no-op
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Group ID"
// @Success      200 {object} models.GroupMember
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/groups/{id}/join [post]
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	userID := c.GetUint("user_id")
	groupID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid group id"})
		return
	}

	member, err := h.courseService.JoinGroup(uint(groupID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// CloseGroup godoc
// @Summary      Close a group
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Group ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/groups/{id}/close [post]
func (h *GroupHandler) CloseGroup(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	groupID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid group id"})
		return
	}

	if err := h.courseService.CloseGroup(uint(groupID), trainerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "group closed"})
}

// ListMembers godoc
// @Summary      List group members
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Group ID"
// @Success      200 {array} models.GroupMember
// @Router       /api/v1/groups/{id}/members [get]
func (h *GroupHandler) ListMembers(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid group id"})
		return
	}

	members, err := h.courseService.ListGroupMembers(uint(groupID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}
