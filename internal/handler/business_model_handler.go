package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/bizfit-api/internal/catalog"
	"github.com/yourusername/bizfit-api/internal/handler/dto"
)

// BusinessModelHandler отдаёт справочник бизнес-моделей
type BusinessModelHandler struct {
	catalog *catalog.Catalog
}

// NewBusinessModelHandler создает обработчик справочника
func NewBusinessModelHandler(cat *catalog.Catalog) *BusinessModelHandler {
	return &BusinessModelHandler{catalog: cat}
}

// ListModels возвращает все бизнес-модели каталога
func (h *BusinessModelHandler) ListModels(c *gin.Context) {
	models := h.catalog.All()
	responses := make([]*dto.BusinessModelResponse, 0, len(models))
	for i := range models {
		responses = append(responses, dto.NewBusinessModelResponse(&models[i]))
	}
	c.JSON(http.StatusOK, gin.H{"business_models": responses})
}

// GetModel возвращает одну бизнес-модель по идентификатору
func (h *BusinessModelHandler) GetModel(c *gin.Context) {
	model := h.catalog.ByID(c.Param("id"))
	if model == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business model not found"})
		return
	}
	c.JSON(http.StatusOK, dto.NewBusinessModelResponse(model))
}
