package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/yourusername/bizfit-api/internal/handler/dto"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
	"github.com/yourusername/bizfit-api/internal/service"
)

// PaymentHandler принимает подтверждения оплаты от платёжного провайдера.
// Сама обработка платежей живёт во внешней подсистеме; сюда приходит
// только вебхук о завершённой оплате полного отчёта.
type PaymentHandler struct {
	paymentService *service.PaymentService
	webhookSecret  string
}

// NewPaymentHandler создает обработчик платёжных вебхуков
func NewPaymentHandler(paymentService *service.PaymentService, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, webhookSecret: webhookSecret}
}

// Webhook обрабатывает подтверждение оплаты. Подпись HMAC-SHA256 тела
// запроса передаётся в заголовке X-Webhook-Signature.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	if h.webhookSecret != "" && !h.verifySignature(body, c.GetHeader("X-Webhook-Signature")) {
		log.Printf("[PaymentHandler] Webhook signature mismatch from %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
		return
	}

	var req dto.PaymentWebhookRequest
	if err := bindJSONBody(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attemptID, err := uuid.Parse(req.QuizAttemptID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz_attempt_id"})
		return
	}

	if err := h.paymentService.RecordUnlock(attemptID, req.Provider, req.ExternalRef); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			log.Printf("ERROR: Internal server error in PaymentHandler: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unlocked"})
}

// bindJSONBody разбирает и валидирует уже прочитанное тело запроса
// (тело вычитано заранее ради проверки подписи)
func bindJSONBody(body []byte, obj interface{}) error {
	if err := json.Unmarshal(body, obj); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}

func (h *PaymentHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
