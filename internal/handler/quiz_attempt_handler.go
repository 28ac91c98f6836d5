package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/bizfit-api/internal/handler/dto"
	"github.com/yourusername/bizfit-api/internal/middleware"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
	"github.com/yourusername/bizfit-api/internal/service"
)

// QuizAttemptHandler обрабатывает запросы, связанные с попытками квиза
type QuizAttemptHandler struct {
	attemptService *service.QuizAttemptService
	contentService *service.AIContentService
}

// NewQuizAttemptHandler создает новый обработчик попыток квиза
func NewQuizAttemptHandler(
	attemptService *service.QuizAttemptService,
	contentService *service.AIContentService,
) *QuizAttemptHandler {
	return &QuizAttemptHandler{
		attemptService: attemptService,
		contentService: contentService,
	}
}

// SubmitAttempt обрабатывает отправку завершённого квиза.
// Ответ содержит мгновенные алгоритмические баллы; превью генерируется
// асинхронно и доезжает через /content или WebSocket.
func (h *QuizAttemptHandler) SubmitAttempt(c *gin.Context) {
	var req dto.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var userID *uint
	if id, ok := middleware.UserID(c); ok {
		userID = &id
	}

	attempt, instant, err := h.attemptService.SubmitAttempt(c.Request.Context(), userID, req.SessionID, req.Answers)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitAttemptResponse{
		Attempt:       dto.NewAttemptResponse(attempt, nil),
		InstantScores: instant,
	})
}

// GetAttempt возвращает попытку и перечень уже готового контента
func (h *QuizAttemptHandler) GetAttempt(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uuid.UUID)

	attempt, err := h.attemptService.GetAttempt(attemptID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	contents, err := h.contentService.ListByAttempt(attemptID)
	if err != nil {
		log.Printf("[AttemptHandler] Failed to list content for %s: %v", attemptID, err)
		contents = nil
	}

	c.JSON(http.StatusOK, dto.NewAttemptResponse(attempt, contents))
}

// GetScores возвращает мгновенные алгоритмические баллы попытки
func (h *QuizAttemptHandler) GetScores(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uuid.UUID)

	analysis, err := h.attemptService.AlgorithmicScores(attemptID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GenerateAnalysis возвращает полный анализ совместимости, запуская его
// при первом обращении
func (h *QuizAttemptHandler) GenerateAnalysis(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uuid.UUID)

	analysis, err := h.contentService.GetOrGenerateAnalysis(c.Request.Context(), attemptID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GenerateContent возвращает нарративный контент указанного типа,
// генерируя его при первом обращении
func (h *QuizAttemptHandler) GenerateContent(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uuid.UUID)
	contentType := c.Param("type")

	record, err := h.contentService.GetOrGenerate(c.Request.Context(), attemptID, contentType)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewContentResponse(record))
}

func (h *QuizAttemptHandler) handleAttemptError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in QuizAttemptHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
