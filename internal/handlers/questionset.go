package handlers

import (
	"net/http"
	"strconv"

	"academykit-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionSetHandler struct {
	setService *services.QuestionSetService
}

func NewQuestionSetHandler(setService *services.QuestionSetService) *QuestionSetHandler {
	return &QuestionSetHandler{setService: setService}
}

// CreateQuestionSet godoc
// @Summary      Create a question set
// @Description  Create a timed question set under a course; a unique slug is derived from the title
// @Tags         question-sets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Course ID"
// @Param        request body services.QuestionSetInput true "Question set data"
// @Success      201 {object} models.QuestionSet
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/courses/{id}/question-sets [post]
func (h *QuestionSetHandler) CreateQuestionSet(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	courseID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid course id"})
		return
	}

	var req services.QuestionSetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	set, err := h.setService.CreateQuestionSet(uint(courseID), trainerID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, set)
}

// ListQuestionSets godoc
// @Summary      List question sets of a course
// @Tags         question-sets
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Course ID"
// @Success      200 {array} models.QuestionSet
// @Router       /api/v1/courses/{id}/question-sets [get]
func (h *QuestionSetHandler) ListQuestionSets(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	courseID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid course id"})
		return
	}

	sets, err := h.setService.ListByCourse(uint(courseID), trainerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sets)
}

// GetQuestionSet godoc
// @Summary      Get a question set
// @Description  Fetch a question set with questions and options, by id or slug. Authoring view: includes correct answers.
// @Tags         question-sets
// @Produce      json
// @Security     BearerAuth
// @Param        ref path string true "Question set ID or slug"
// @Success      200 {object} models.QuestionSet
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/question-sets/{ref} [get]
func (h *QuestionSetHandler) GetQuestionSet(c *gin.Context) {
	set, err := h.setService.GetQuestionSet(c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, set)
}

// UpdateQuestionSet godoc
// @Summary      Update a question set
// @Description  Apply authoring changes; refused once any attempt exists
// @Tags         question-sets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question set ID"
// @Param        request body services.QuestionSetInput true "Question set data"
// @Success      200 {object} models.QuestionSet
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/question-sets/{id} [put]
func (h *QuestionSetHandler) UpdateQuestionSet(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	setID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question set id"})
		return
	}

	var req services.QuestionSetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	set, err := h.setService.UpdateQuestionSet(uint(setID), trainerID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, set)
}

// AddQuestion godoc
// @Summary      Add a question to a set
// @Description  Create a question with options and append it to the set. Single choice needs exactly one correct option, multiple choice at least one, subjective none.
// @Tags         question-sets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question set ID"
// @Param        request body services.QuestionInput true "Question data"
// @Success      201 {object} models.Question
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/question-sets/{id}/questions [post]
func (h *QuestionSetHandler) AddQuestion(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	setID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question set id"})
		return
	}

	var req services.QuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.setService.AddQuestion(uint(setID), trainerID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion godoc
// @Summary      Update a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Param        request body services.QuestionInput true "Question data"
// @Success      200 {object} models.Question
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions/{id} [put]
func (h *QuestionSetHandler) UpdateQuestion(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	var req services.QuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.setService.UpdateQuestion(uint(questionID), trainerID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// RemoveQuestion godoc
// @Summary      Remove a question from a set
// @Description  Detach the question; ad-hoc questions are deleted, pool questions stay reusable
// @Tags         question-sets
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question set ID"
// @Param        qid path int true "Question ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/question-sets/{id}/questions/{qid} [delete]
func (h *QuestionSetHandler) RemoveQuestion(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	setID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question set id"})
		return
	}
	questionID, err := strconv.ParseUint(c.Param("qid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	if err := h.setService.RemoveQuestion(uint(setID), uint(questionID), trainerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "question removed"})
}
