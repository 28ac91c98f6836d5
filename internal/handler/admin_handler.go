package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/bizfit-api/internal/domain/entity"
	apperrors "github.com/yourusername/bizfit-api/internal/pkg/errors"
	"github.com/yourusername/bizfit-api/internal/service"
)

// AdminHandler обрабатывает административные запросы
type AdminHandler struct {
	attemptService *service.QuizAttemptService
}

// NewAdminHandler создает обработчик админки
func NewAdminHandler(attemptService *service.QuizAttemptService) *AdminHandler {
	return &AdminHandler{attemptService: attemptService}
}

// ListAttempts возвращает страницу попыток квиза
func (h *AdminHandler) ListAttempts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}

	attempts, total, err := h.attemptService.ListAttempts(perPage, (page-1)*perPage)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempts": attempts,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// exportPageSize — размер страницы при выгрузке попыток
const exportPageSize = 500

// ExportAttempts выгружает попытки квиза в CSV или XLSX
func (h *AdminHandler) ExportAttempts(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	// выгружаем постранично, чтобы не держать всю таблицу в памяти
	var attempts []entity.QuizAttempt
	offset := 0
	for {
		page, total, err := h.attemptService.ListAttempts(exportPageSize, offset)
		if err != nil {
			h.handleAdminError(c, err)
			return
		}
		attempts = append(attempts, page...)
		offset += len(page)
		if len(page) == 0 || int64(offset) >= total {
			break
		}
	}

	filename := fmt.Sprintf("quiz_attempts_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, attempts, filename)
	default:
		h.exportCSV(c, attempts, filename)
	}
}

// exportRow собирает одну строку выгрузки из попытки
func exportRow(attempt *entity.QuizAttempt) (userID, incomeGoal, budget, hours, timeline string) {
	userID = ""
	if attempt.UserID != nil {
		userID = strconv.FormatUint(uint64(*attempt.UserID), 10)
	}
	answers, err := attempt.Answers()
	if err != nil {
		return userID, "", "", "", ""
	}
	return userID,
		strconv.FormatFloat(answers.SuccessIncomeGoal, 'f', 0, 64),
		strconv.FormatFloat(answers.UpfrontInvestment, 'f', 0, 64),
		strconv.Itoa(answers.WeeklyTimeCommitment),
		answers.FirstIncomeTimeline
}

func (h *AdminHandler) exportCSV(c *gin.Context, attempts []entity.QuizAttempt, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"ID", "Пользователь", "Сессия", "Цель дохода", "Бюджет", "Часов в неделю", "Срок первого дохода", "Завершена"})

	for i := range attempts {
		attempt := &attempts[i]
		userID, incomeGoal, budget, hours, timeline := exportRow(attempt)
		writer.Write([]string{
			attempt.ID.String(),
			userID,
			sanitizeForExcel(attempt.SessionID),
			incomeGoal,
			budget,
			hours,
			timeline,
			attempt.CompletedAt.Format(time.RFC3339),
		})
	}
}

func (h *AdminHandler) exportXLSX(c *gin.Context, attempts []entity.QuizAttempt, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Попытки"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[AdminHandler] Failed to create stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"ID", "Пользователь", "Сессия", "Цель дохода", "Бюджет", "Часов в неделю", "Срок первого дохода", "Завершена"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[AdminHandler] Failed to write header row: %v", err)
	}

	for i := range attempts {
		attempt := &attempts[i]
		rowNum := i + 2
		cell := fmt.Sprintf("A%d", rowNum)

		userID, incomeGoal, budget, hours, timeline := exportRow(attempt)
		row := []interface{}{
			attempt.ID.String(),
			userID,
			sanitizeForExcel(attempt.SessionID),
			incomeGoal,
			budget,
			hours,
			timeline,
			attempt.CompletedAt.Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[AdminHandler] Failed to write row %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[AdminHandler] Failed to flush stream writer: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[AdminHandler] Failed to write xlsx response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

func (h *AdminHandler) handleAdminError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in AdminHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
