package handlers

import (
	"net/http"
	"strconv"

	"academykit-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AIGenerateHandler struct {
	courseService *services.CourseService
	setService    *services.QuestionSetService
	aiService     *services.AIGenerateService
}

func NewAIGenerateHandler(courseService *services.CourseService, setService *services.QuestionSetService, aiService *services.AIGenerateService) *AIGenerateHandler {
	return &AIGenerateHandler{courseService: courseService, setService: setService, aiService: aiService}
}

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required,min=3" example:"10 questions about Go concurrency"`
}

type AIStatusResponse struct {
	Available bool `json:"available"`
}

// CheckAI godoc
// @Summary      Check AI generation availability
// @Tags         pools
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} AIStatusResponse
// @Router       /api/v1/pools/ai-status [get]
func (h *AIGenerateHandler) CheckAI(c *gin.Context) {
	c.JSON(http.StatusOK, AIStatusResponse{Available: h.aiService.IsAvailable()})
}

// Generate godoc
// @Summary      Generate draft questions into a pool
// @Description  Ask the configured AI model for draft questions; validated drafts are returned for review, nothing is persisted until the trainer accepts them
// @Tags         pools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Pool ID"
// @Param        request body GenerateRequest true "Topic prompt"
// @Success      200 {array} services.QuestionInput
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/pools/{id}/generate [post]
func (h *AIGenerateHandler) Generate(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	poolID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool id"})
		return
	}

	if _, err := h.courseService.GetPool(uint(poolID), trainerID); err != nil {
		respondError(c, err)
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	drafts, err := h.aiService.GenerateQuestions(req.Prompt)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, drafts)
}
