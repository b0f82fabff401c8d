package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vipfat/Sbis-Yen/catalog"
	"github.com/vipfat/Sbis-Yen/matching"
	apperrors "github.com/vipfat/Sbis-Yen/server/errors"
)

// ResolutionHandler обработчики сопоставления названий
type ResolutionHandler struct {
	registry *catalog.Registry
}

// NewResolutionHandler создает обработчик сопоставления
func NewResolutionHandler(registry *catalog.Registry) *ResolutionHandler {
	return &ResolutionHandler{registry: registry}
}

// SimilarityRequest запрос оценки похожести двух названий
type SimilarityRequest struct {
	A string `json:"a" binding:"required"`
	B string `json:"b" binding:"required"`
}

// SimilarityResponse оценка похожести
type SimilarityResponse struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
}

// HandleSimilarity оценивает похожесть двух названий
// @Summary Оценить похожесть названий
// @Description Возвращает оценку похожести двух названий в диапазоне [0, 1]
// @Tags resolution
// @Accept json
// @Produce json
// @Param request body SimilarityRequest true "Пара названий"
// @Success 200 {object} SimilarityResponse "Оценка похожести"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Router /api/resolution/similarity [post]
func (h *ResolutionHandler) HandleSimilarity(c *gin.Context) {
	var req SimilarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("неверный формат тела запроса", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	score := h.registry.Scorer().Similarity(req.A, req.B)
	SendJSONResponse(c, http.StatusOK, SimilarityResponse{A: req.A, B: req.B, Score: score})
}

// TopKRequest запрос top-k похожих кандидатов из произвольного списка
type TopKRequest struct {
	Query      string   `json:"query" binding:"required"`
	Candidates []string `json:"candidates" binding:"required"`
	K          int      `json:"k"`
}

// TopKResponse лучшие кандидаты по убыванию оценки
type TopKResponse struct {
	Query   string           `json:"query"`
	Matches []matching.Match `json:"matches"`
}

// HandleTopK возвращает top-k похожих кандидатов
// @Summary Top-k похожих кандидатов
// @Description Оценивает произвольный список кандидатов и возвращает k лучших по убыванию оценки
// @Tags resolution
// @Accept json
// @Produce json
// @Param request body TopKRequest true "Запрос и кандидаты"
// @Success 200 {object} TopKResponse "Лучшие кандидаты"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Router /api/resolution/topk [post]
func (h *ResolutionHandler) HandleTopK(c *gin.Context) {
	var req TopKRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("неверный формат тела запроса", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	k := req.K
	if k <= 0 {
		k = catalog.DefaultSuggestionLimit
	}

	matches := h.registry.Scorer().FindTopK(req.Query, req.Candidates, k)
	SendJSONResponse(c, http.StatusOK, TopKResponse{Query: req.Query, Matches: matches})
}

// MatchRequest запрос поиска по одному справочнику
type MatchRequest struct {
	Query    string  `json:"query" binding:"required"`
	Source   string  `json:"source" binding:"required"`
	MinScore float64 `json:"min_score"`
}

// MatchResponse найденная позиция справочника
type MatchResponse struct {
	Query string        `json:"query"`
	Entry catalog.Entry `json:"entry"`
	Score float64       `json:"score"`
}

// NotFoundResponse ответ с подсказками для ненайденного названия
type NotFoundResponse struct {
	Error       bool             `json:"error"`
	Message     string           `json:"message"`
	Query       string           `json:"query"`
	Source      string           `json:"source"`
	Suggestions []SuggestionItem `json:"suggestions"`
}

// SuggestionItem подсказка с оценкой похожести
type SuggestionItem struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// HandleMatch ищет лучшую позицию в одном справочнике
// @Summary Найти позицию справочника
// @Description Ищет позицию справочника по свободному названию. При оценке ниже порога возвращает 404 с подсказками
// @Tags resolution
// @Accept json
// @Produce json
// @Param request body MatchRequest true "Запрос поиска"
// @Success 200 {object} MatchResponse "Найденная позиция"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Failure 404 {object} NotFoundResponse "Название не сопоставлено"
// @Router /api/resolution/match [post]
func (h *ResolutionHandler) HandleMatch(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("неверный формат тела запроса", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	minScore := req.MinScore
	if minScore == 0 {
		minScore = h.registry.MinScore()
	}

	entry, score, err := h.registry.Lookup(catalog.Source(req.Source), req.Query, minScore)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, MatchResponse{Query: req.Query, Entry: entry, Score: score})
}

// ResolveRequest запрос сквозного сопоставления для типа документа
type ResolveRequest struct {
	Name    string `json:"name" binding:"required"`
	DocType string `json:"doc_type" binding:"required"`
}

// HandleResolve сопоставляет название по всем справочникам
// @Summary Сопоставить название для документа
// @Description Опрашивает все справочники и выбирает итоговый с учетом порядка предпочтения для типа документа
// @Tags resolution
// @Accept json
// @Produce json
// @Param request body ResolveRequest true "Название и тип документа"
// @Success 200 {object} catalog.Resolution "Результат сопоставления"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Router /api/resolution/resolve [post]
func (h *ResolutionHandler) HandleResolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("неверный формат тела запроса", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}

	docType, err := catalog.ParseDocType(req.DocType)
	if err != nil {
		SendJSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	resolution, err := h.registry.Resolve(req.Name, docType)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, resolution)
}

// respondLookupError переводит ошибки сопоставления в HTTP ответы
func (h *ResolutionHandler) respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrEmptyQuery) {
		SendJSONError(c, http.StatusBadRequest, "название не может быть пустым")
		return
	}

	var notFound *catalog.NotFoundError
	if errors.As(err, &notFound) {
		suggestions := make([]SuggestionItem, 0, len(notFound.Suggestions))
		for _, s := range notFound.Suggestions {
			suggestions = append(suggestions, SuggestionItem{Name: s.Name, Score: s.Score})
		}
		SendJSONResponse(c, http.StatusNotFound, NotFoundResponse{
			Error:       true,
			Message:     notFound.Error(),
			Query:       notFound.Query,
			Source:      string(notFound.Source),
			Suggestions: suggestions,
		})
		return
	}

	appErr := apperrors.NewInternalError("сопоставление названия", err)
	SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
}
