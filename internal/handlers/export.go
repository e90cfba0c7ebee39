package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"academykit-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ExportOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type ExportQuestion struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Type        string         `json:"type"`
	Options     []ExportOption `json:"options,omitempty"`
}

type ExportData struct {
	Title     string           `json:"title"`
	Questions []ExportQuestion `json:"questions"`
}

// ExportQuestionSet godoc
// @Summary      Export a question set
// @Description  Download the set's questions as JSON or CSV (format query param)
// @Tags         question-sets
// @Produce      json
// @Security     BearerAuth
// @Param        ref path string true "Question set ID or slug"
// @Param        format query string false "json or csv" default(json)
// @Success      200 {object} ExportData
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/question-sets/{ref}/export [get]
func (h *QuestionSetHandler) ExportQuestionSet(c *gin.Context) {
	set, err := h.setService.GetQuestionSet(c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}

	data := ExportData{Title: set.Title}
	for _, j := range set.Questions {
		q := j.Question
		eq := ExportQuestion{Name: q.Name, Description: q.Description, Type: q.Type}
		for _, o := range q.Options {
			eq.Options = append(eq.Options, ExportOption{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		data.Questions = append(data.Questions, eq)
	}

	filename := strings.ReplaceAll(set.Slug, "-", "_")
	format := c.DefaultQuery("format", "json")

	if format == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

		w := csv.NewWriter(c.Writer)
		w.Write([]string{"question", "type", "option1", "option2", "option3", "option4", "correct"})
		for _, q := range data.Questions {
			row := make([]string, 7)
			row[0] = q.Name
			row[1] = q.Type
			var correct []string
			for i, o := range q.Options {
				if i < 4 {
					row[2+i] = o.Text
				}
				if o.IsCorrect {
					correct = append(correct, strconv.Itoa(i+1))
				}
			}
			row[6] = strings.Join(correct, ";")
			w.Write(row)
		}
		w.Flush()
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.json\"", filename))
	c.JSON(http.StatusOK, data)
}

// ImportQuestionSet godoc
// @Summary      Import questions into a set
// @Description  Upload a JSON export (request body) and append its questions to the set
// @Tags         question-sets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question set ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/question-sets/{id}/import [post]
func (h *QuestionSetHandler) ImportQuestionSet(c *gin.Context) {
	trainerID := c.GetUint("user_id")
	setID, err := strconv.ParseUint(c.Param("ref"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question set id"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read body"})
		return
	}

	var data ExportData
	if err := json.Unmarshal(body, &data); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid import payload"})
		return
	}

	imported := 0
	for _, q := range data.Questions {
		in := services.QuestionInput{
			Name:        q.Name,
			Description: q.Description,
			Type:        q.Type,
		}
		for _, o := range q.Options {
			in.Options = append(in.Options, services.OptionInput{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		if _, err := h.setService.AddQuestion(uint(setID), trainerID, in); err != nil {
			respondError(c, fmt.Errorf("question %d: %w", imported+1, err))
			return
		}
		imported++
	}

	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("%d questions imported", imported)})
}
