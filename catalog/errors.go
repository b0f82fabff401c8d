package catalog

import (
	"errors"
	"fmt"

	"github.com/vipfat/Sbis-Yen/matching"
)

// ErrEmptyQuery запрос пуст после обрезки пробелов.
// Отбрасывается до любого скоринга.
var ErrEmptyQuery = errors.New("пустое название товара")

// NotFoundError ни одна позиция справочника не набрала проходной оценки.
// Несет исходный запрос, ранжированные подсказки и позицию строки
// в рабочем списке вызывающего кода. Это ожидаемое, восстановимое
// состояние: обёртка над ядром предлагает пользователю выбор,
// а не падает с ошибкой.
type NotFoundError struct {
	Query       string           `json:"query"`
	Source      Source           `json:"source"`
	Suggestions []matching.Match `json:"suggestions"`
	ItemIndex   int              `json:"item_index"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("товар %q не найден в справочнике %q", e.Query, e.Source)
}

// UnresolvedError очередь нерешённых позиций одной сборки документа.
// Порядок совпадает с порядком входных строк, чтобы обёртка могла
// разбирать позиции по одной подсказке за раз.
type UnresolvedError struct {
	Errors []*NotFoundError
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("не найдено товаров: %d", len(e.Errors))
}
