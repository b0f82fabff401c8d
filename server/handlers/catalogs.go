package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vipfat/Sbis-Yen/catalog"
	apperrors "github.com/vipfat/Sbis-Yen/server/errors"
)

// ReloadFunc перечитывает справочники из хранилища и подменяет
// снапшот реестра.
type ReloadFunc func(ctx context.Context) error

// CatalogsHandler обработчики справочников
type CatalogsHandler struct {
	registry *catalog.Registry
	reload   ReloadFunc
}

// NewCatalogsHandler создает обработчик справочников
func NewCatalogsHandler(registry *catalog.Registry, reload ReloadFunc) *CatalogsHandler {
	return &CatalogsHandler{registry: registry, reload: reload}
}

// CatalogSummary сводка по одному справочнику
type CatalogSummary struct {
	Source string `json:"source"`
	Size   int    `json:"size"`
}

// CatalogsResponse сводка по загруженным справочникам
type CatalogsResponse struct {
	Catalogs []CatalogSummary `json:"catalogs"`
	Recipes  int              `json:"recipes"`
}

// HandleList возвращает сводку по загруженным справочникам
// @Summary Сводка справочников
// @Description Возвращает размеры загруженных справочников и количество составов
// @Tags catalogs
// @Produce json
// @Success 200 {object} CatalogsResponse "Сводка"
// @Router /api/catalogs [get]
func (h *CatalogsHandler) HandleList(c *gin.Context) {
	response := CatalogsResponse{Catalogs: make([]CatalogSummary, 0)}
	for _, cat := range h.registry.Catalogs() {
		response.Catalogs = append(response.Catalogs, CatalogSummary{
			Source: string(cat.Source()),
			Size:   cat.Len(),
		})
	}
	response.Recipes = h.registry.Recipes().Len()

	SendJSONResponse(c, http.StatusOK, response)
}

// CatalogEntriesResponse позиции одного справочника
type CatalogEntriesResponse struct {
	Source  string          `json:"source"`
	Entries []catalog.Entry `json:"entries"`
}

// HandleEntries возвращает позиции одного справочника
// @Summary Позиции справочника
// @Description Возвращает позиции справочника в порядке загрузки
// @Tags catalogs
// @Produce json
// @Param source path string true "Справочник (catalog, composition, production)"
// @Success 200 {object} CatalogEntriesResponse "Позиции"
// @Failure 404 {object} ErrorResponse "Справочник не загружен"
// @Router /api/catalogs/{source} [get]
func (h *CatalogsHandler) HandleEntries(c *gin.Context) {
	source := catalog.Source(c.Param("source"))

	cat, ok := h.registry.Catalog(source)
	if !ok {
		appErr := apperrors.NewNotFoundError("справочник не загружен", nil)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	entries := make([]catalog.Entry, 0, cat.Len())
	for _, name := range cat.Names() {
		if entry, found := cat.Entry(name); found {
			entries = append(entries, entry)
		}
	}

	SendJSONResponse(c, http.StatusOK, CatalogEntriesResponse{
		Source:  string(source),
		Entries: entries,
	})
}

// HandleReload перечитывает справочники и подменяет снапшот
// @Summary Перезагрузить справочники
// @Description Перечитывает справочники из хранилища и атомарно подменяет рабочий снапшот
// @Tags catalogs
// @Produce json
// @Success 200 {object} CatalogsResponse "Сводка после перезагрузки"
// @Failure 500 {object} ErrorResponse "Ошибка перезагрузки"
// @Router /api/catalogs/reload [post]
func (h *CatalogsHandler) HandleReload(c *gin.Context) {
	if h.reload == nil {
		SendJSONError(c, http.StatusServiceUnavailable, "перезагрузка справочников не настроена")
		return
	}

	if err := h.reload(c.Request.Context()); err != nil {
		appErr := apperrors.NewInternalError("перезагрузка справочников", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	h.HandleList(c)
}
