package http

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"docman/src/core/qa"
)

type QAHandler struct {
	qaService *qa.Service
}

func NewQAHandler(qaService *qa.Service) *QAHandler {
	return &QAHandler{qaService: qaService}
}

type questionRequest struct {
	Question string `json:"question"`
}

// Ask handles POST /api/v1/qa/question
func (h *QAHandler) Ask(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question must not be blank"})
		return
	}
	if length := utf8.RuneCountInString(question); length < 3 || length > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question must be between 3 and 500 characters"})
		return
	}

	answer, err := h.qaService.Answer(c.Request.Context(), question)
	if err != nil {
		if errors.Is(err, qa.ErrSearchUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is currently unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to answer question"})
		return
	}

	c.JSON(http.StatusOK, answer)
}
