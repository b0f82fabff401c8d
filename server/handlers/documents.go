package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vipfat/Sbis-Yen/catalog"
	"github.com/vipfat/Sbis-Yen/document"
	"github.com/vipfat/Sbis-Yen/intake"
	"github.com/vipfat/Sbis-Yen/sbis"
	apperrors "github.com/vipfat/Sbis-Yen/server/errors"
)

// DocumentSender отправляет собранный JSON-RPC запрос в СБИС.
type DocumentSender interface {
	SendDocument(ctx context.Context, payload []byte) (*sbis.Response, error)
}

// DocumentsHandler обработчики сборки и отправки актов
type DocumentsHandler struct {
	builder *document.Builder
	sender  DocumentSender
}

// NewDocumentsHandler создает обработчик документов
func NewDocumentsHandler(builder *document.Builder, sender DocumentSender) *DocumentsHandler {
	return &DocumentsHandler{builder: builder, sender: sender}
}

// BuildRequest запрос сборки акта. Позиции задаются либо готовым
// списком items, либо свободным текстом text.
type BuildRequest struct {
	DocType string        `json:"doc_type" binding:"required"`
	Date    string        `json:"date"`
	Number  string        `json:"number" binding:"required"`
	Items   []intake.Item `json:"items"`
	Text    string        `json:"text"`
}

// UnresolvedItem нераспознанная позиция с подсказками
type UnresolvedItem struct {
	Query       string           `json:"query"`
	Source      string           `json:"source"`
	ItemIndex   int              `json:"item_index"`
	Suggestions []SuggestionItem `json:"suggestions"`
}

// BuildResponse результат сборки акта
type BuildResponse struct {
	DocType     string           `json:"doc_type"`
	Date        string           `json:"date"`
	Number      string           `json:"number"`
	XMLBase64   string           `json:"xml_base64"`
	Payload     json.RawMessage  `json:"payload"`
	Warnings    []string         `json:"warnings,omitempty"`
	Unresolved  []UnresolvedItem `json:"unresolved,omitempty"`
	ParseErrors []string         `json:"parse_errors,omitempty"`
}

// HandleBuild собирает акт без отправки
// @Summary Собрать акт
// @Description Собирает XML акта и JSON-RPC запрос. Нераспознанные позиции возвращаются с подсказками, не прерывая сборку
// @Tags documents
// @Accept json
// @Produce json
// @Param request body BuildRequest true "Параметры акта"
// @Success 200 {object} BuildResponse "Собранный акт"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Router /api/documents/build [post]
func (h *DocumentsHandler) HandleBuild(c *gin.Context) {
	response, ok := h.build(c)
	if !ok {
		return
	}
	SendJSONResponse(c, http.StatusOK, response)
}

// SendResponse результат отправки акта
type SendResponse struct {
	BuildResponse
	Result json.RawMessage `json:"result,omitempty"`
}

// HandleSend собирает акт и отправляет его в СБИС
// @Summary Отправить акт
// @Description Собирает акт и отправляет его через «СБИС.ЗаписатьДокумент». Акт с нераспознанными позициями не отправляется
// @Tags documents
// @Accept json
// @Produce json
// @Param request body BuildRequest true "Параметры акта"
// @Success 200 {object} SendResponse "Ответ сервиса"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Failure 422 {object} BuildResponse "Есть нераспознанные позиции"
// @Failure 502 {object} ErrorResponse "Ошибка сервиса СБИС"
// @Router /api/documents/send [post]
func (h *DocumentsHandler) HandleSend(c *gin.Context) {
	if h.sender == nil {
		SendJSONError(c, http.StatusServiceUnavailable, "отправка в СБИС не настроена")
		return
	}

	response, ok := h.build(c)
	if !ok {
		return
	}

	// Документ с нераспознанными позициями отправлять нельзя
	if len(response.Unresolved) > 0 || len(response.ParseErrors) > 0 {
		SendJSONResponse(c, http.StatusUnprocessableEntity, response)
		return
	}

	result, err := h.sender.SendDocument(c.Request.Context(), response.Payload)
	if err != nil {
		appErr := apperrors.NewBadGatewayError("сервис СБИС вернул ошибку", err)
		SendJSONError(c, appErr.StatusCode(), appErr.Error())
		return
	}

	SendJSONResponse(c, http.StatusOK, SendResponse{
		BuildResponse: response,
		Result:        result.Result,
	})
}

// build разбирает запрос и собирает акт; при ошибке сама пишет ответ
func (h *DocumentsHandler) build(c *gin.Context) (BuildResponse, bool) {
	var req BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError("неверный формат тела запроса", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return BuildResponse{}, false
	}

	docType, err := catalog.ParseDocType(req.DocType)
	if err != nil {
		SendJSONError(c, http.StatusBadRequest, err.Error())
		return BuildResponse{}, false
	}

	if req.Date == "" {
		req.Date = time.Now().Format("02.01.2006")
	}

	items := req.Items
	var parseErrors []string
	if len(items) == 0 && req.Text != "" {
		items, parseErrors = intake.ParseItems(req.Text)
	}
	if len(items) == 0 {
		SendJSONError(c, http.StatusBadRequest, "не заданы позиции акта")
		return BuildResponse{}, false
	}

	result, err := h.builder.BuildAct(docType, req.Date, req.Number, items)
	if err != nil {
		appErr := apperrors.NewInternalError("сборка акта", err)
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return BuildResponse{}, false
	}

	response := BuildResponse{
		DocType:     string(docType),
		Date:        req.Date,
		Number:      req.Number,
		XMLBase64:   base64.StdEncoding.EncodeToString(result.XML),
		Payload:     result.Payload,
		Warnings:    result.Warnings,
		ParseErrors: parseErrors,
	}
	for _, notFound := range result.Unresolved {
		item := UnresolvedItem{
			Query:     notFound.Query,
			Source:    string(notFound.Source),
			ItemIndex: notFound.ItemIndex,
		}
		for _, s := range notFound.Suggestions {
			item.Suggestions = append(item.Suggestions, SuggestionItem{Name: s.Name, Score: s.Score})
		}
		response.Unresolved = append(response.Unresolved, item)
	}

	return response, true
}
