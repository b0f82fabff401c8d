package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vipfat/Sbis-Yen/catalog"
)

// HealthResponse состояние сервера
type HealthResponse struct {
	Status    string `json:"status"`
	Catalogs  int    `json:"catalogs"`
	Recipes   int    `json:"recipes"`
	Timestamp string `json:"timestamp"`
}

// SystemHandler служебные обработчики
type SystemHandler struct {
	registry *catalog.Registry
}

// NewSystemHandler создает служебный обработчик
func NewSystemHandler(registry *catalog.Registry) *SystemHandler {
	return &SystemHandler{registry: registry}
}

// HandleHealth проверка живости сервера
// @Summary Проверка живости
// @Description Возвращает состояние сервера и размер загруженного снапшота
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse "Состояние"
// @Router /healthz [get]
func (h *SystemHandler) HandleHealth(c *gin.Context) {
	SendJSONResponse(c, http.StatusOK, HealthResponse{
		Status:    "ok",
		Catalogs:  len(h.registry.Catalogs()),
		Recipes:   h.registry.Recipes().Len(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
