package handlers

import (
	"net/http"
	"strconv"

	"academykit-backend/internal/services"
	"academykit-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	examService *services.ExamService
	hub         *ws.Hub
}

func NewExamHandler(examService *services.ExamService, hub *ws.Hub) *ExamHandler {
	return &ExamHandler{examService: examService, hub: hub}
}

type SubmitRequest struct {
	Answers []services.Answer `json:"answers" binding:"required"`
}

// StartAttempt godoc
// @Summary      Start or resume an exam attempt
// @Description  Begin a new attempt, or resume the caller's in-flight one. Questions are returned without correct-answer markers.
// @Tags         exams
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question set ID"
// @Success      200 {object} services.AttemptState
// @Failure      403 {object} ErrorResponse "attempt limit reached or window closed"
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/exams/{id}/start [post]
func (h *ExamHandler) StartAttempt(c *gin.Context) {
	userID := c.GetUint("user_id")
	setID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question set id"})
		return
	}

	state, err := h.examService.StartAttempt(uint(setID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !state.Resumed {
		h.hub.Broadcast(uint(setID), ws.ExamEvent{Type: "attempt_started", Data: gin.H{
			"submission_id": state.SubmissionID,
			"user_id":       userID,
			"attempt_count": state.AttemptCount,
		}})
	}

	c.JSON(http.StatusOK, state)
}

// Submit godoc
// @Summary      Submit an attempt
// @Description  Score the answers against the stored correct options and close the attempt. Exactly one concurrent submit wins.
// @Tags         exams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Submission ID"
// @Param        request body SubmitRequest true "Answers"
// @Success      200 {object} services.SubmitResult
// @Failure      409 {object} ErrorResponse "already submitted"
// @Failure      410 {object} ErrorResponse "attempt expired"
// @Router       /api/v1/exams/submissions/{id} [post]
func (h *ExamHandler) Submit(c *gin.Context) {
	userID := c.GetUint("user_id")
	submissionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid submission id"})
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.examService.Submit(uint(submissionID), userID, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(result.QuestionSetID, ws.ExamEvent{Type: "attempt_submitted", Data: gin.H{
		"submission_id":  result.SubmissionID,
		"user_id":        userID,
		"obtained_marks": result.ObtainedMarks,
		"has_passed":     result.HasPassed,
	}})

	c.JSON(http.StatusOK, result)
}

// Results godoc
// @Summary      List the caller's results
// @Description  Completed submissions for a question set, newest first
// @Tags         exams
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question set ID"
// @Success      200 {array} models.QuestionSetSubmission
// @Router       /api/v1/exams/{id}/results [get]
func (h *ExamHandler) Results(c *gin.Context) {
	userID := c.GetUint("user_id")
	setID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question set id"})
		return
	}

	subs, err := h.examService.Results(uint(setID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	remaining, err := h.examService.RemainingAttempts(uint(setID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions":        subs,
		"remaining_attempts": remaining,
	})
}
