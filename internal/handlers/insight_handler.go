package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/ticnote/internal/domains/insight"
	"github.com/xpanvictor/ticnote/pkg/Logger"
)

// InsightService produces summaries and answers from transcripts.
type InsightService interface {
	Summarize(ctx context.Context, text string) (string, error)
	Answer(ctx context.Context, question, contextText string) (string, error)
}

// InsightHandler handles summarize and ask requests
type InsightHandler struct {
	insightService InsightService
	logger         *Logger.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightService InsightService, logger *Logger.Logger) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
		logger:         logger,
	}
}

// Summarize handles text summarization
// @Summary Summarize text
// @Description Generate a concise summary of the given text
// @Tags Insight
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SummarizeRequest true "Text to summarize"
// @Success 200 {object} SummarizeResponse
// @Failure 400 {object} ErrorResponse "Text is required"
// @Failure 500 {object} ErrorResponse "Failed to generate summary"
// @Router /api/summarize [post]
func (h *InsightHandler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	// an empty body is validated like an empty field
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	summary, err := h.insightService.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, insight.ErrTextRequired) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Text is required"})
			return
		}
		h.logger.Errorf("summarize error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate summary"})
		return
	}

	c.JSON(http.StatusOK, SummarizeResponse{Summary: summary})
}

// Ask handles a question about a transcript
// @Summary Ask a question
// @Description Answer a question using the supplied context, usually a transcription
// @Tags Insight
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AskRequest true "Question and context"
// @Success 200 {object} AskResponse
// @Failure 400 {object} ErrorResponse "Question is required"
// @Failure 500 {object} ErrorResponse "Failed to answer question"
// @Router /api/ask [post]
func (h *InsightHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	answer, err := h.insightService.Answer(c.Request.Context(), req.Question, req.Context)
	if err != nil {
		if errors.Is(err, insight.ErrQuestionRequired) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Question is required"})
			return
		}
		h.logger.Errorf("ask error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to answer question"})
		return
	}

	c.JSON(http.StatusOK, AskResponse{Answer: answer})
}
