package handlers

import (
	"net/http"
	"strconv"

	"academykit-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courseService *services.CourseService
}

func NewCourseHandler(courseService *services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255" example:"Intro to Go"`
	Description string `json:"description" example:"A first course on Go"`
}

type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=draft published archived"`
}

type TagRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100" example:"golang"`
}

type CreatePoolRequest struct {
	Name string `json:"name" binding:"required,min=3,max=255" example:"Go basics pool"`
}

// CreateCourse godoc
// @Summary      Create a course
// @Description  Create a course owned by the authenticated trainer; a unique slug is derived from the title
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCourseRequest true "Course data"
// @Success      201 {object} models.Course
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	trainerID := c.GetUint("user_id")

	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	course, err := h.courseService.CreateCourse(trainerID, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// ListCourses godoc
// @Summary      List courses
// @Description  Get all courses owned by the authenticated trainer
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Course
// @Router       /api/v1/courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	trainerID := c.GetUint("user_id")

	courses, err := h.courseService.ListCourses(trainerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary      Get a course
// @Description  Fetch a course by numeric id or slug
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        ref path string true "Course ID or slug"
// @Success      200 {object} models.Course
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/courses/{ref} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseService.GetCourse(c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse godoc
// @Summary      Update a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Course ID"
// @Param        request body UpdateCourseRequest true "Course data"
// @Success      200 {object} models.Course
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	courseID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid course id"})
		return
	}

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	course, err := h.courseService.UpdateCourse(uint(courseID), trainerID, req.Title, req.Description, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse godoc
// @Summary      Delete a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Course ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	courseID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid course id"})
		return
	}

	if err := h.courseService.DeleteCourse(uint(courseID), trainerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "course deleted"})
}

// TagCourse godoc
// @Summary      Tag a course
// @Description  Attach a tag by name, creating it (and its slug) on first use
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Course ID"
// @Param        request body TagRequest true "Tag name"
// @Success      201 {object} models.Tag
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/courses/{id}/tags [post]
func (h *CourseHandler) TagCourse(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	courseID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid course id"})
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tag, err := h.courseService.TagCourse(uint(courseID), trainerID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// CreatePool godoc
// @Summary      Create a question pool
// @Tags         pools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePoolRequest true "Pool data"
// @Success      201 {object} models.QuestionPool
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/pools [post]
func (h *CourseHandler) CreatePool(c *gin.Context) {
	trainerID := c.GetUint("user_id")

	var req CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	pool, err := h.courseService.CreatePool(trainerID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pool)
}

// GetPool godoc
// @Summary      Get a question pool
// @Tags         pools
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Pool ID"
// @Success      200 {object} models.QuestionPool
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/pools/{id} [get]
func (h *CourseHandler) GetPool(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	poolID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool id"})
		return
	}

	pool, err := h.courseService.GetPool(uint(poolID), trainerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pool)
}
