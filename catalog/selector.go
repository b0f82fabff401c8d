package catalog

import (
	"fmt"
	"strings"

	"github.com/vipfat/Sbis-Yen/matching"
)

// DocType тип собираемого документа. Определяет порядок предпочтения
// справочников при кросс-каталожном разрешении: одно и то же свободное
// название может законно указывать на разные позиции в зависимости от
// того, какой документ собирается.
type DocType string

const (
	DocProduction DocType = "production"
	DocWriteoff   DocType = "writeoff"
	DocIncome     DocType = "income"
)

// ParseDocType разбирает тип документа из строки.
func ParseDocType(raw string) (DocType, error) {
	switch DocType(strings.ToLower(strings.TrimSpace(raw))) {
	case DocProduction:
		return DocProduction, nil
	case DocWriteoff:
		return DocWriteoff, nil
	case DocIncome:
		return DocIncome, nil
	}
	return "", fmt.Errorf("неизвестный тип документа: %q", raw)
}

// preferenceOrder порядок предпочтения справочников по типу документа.
// Приход может ссылаться только на закупаемые товары; выпуск и списание
// сначала ищут в составах (выпущенное может быть рецептом, который
// расходуется как ингредиент), затем в готовой продукции и каталоге.
// Таблица данных: новый справочник или тип документа — правка данных,
// а не кода разрешения.
var preferenceOrder = map[DocType][]Source{
	DocIncome:     {SourceGoods},
	DocProduction: {SourceCompositions, SourceProduction, SourceGoods},
	DocWriteoff:   {SourceCompositions, SourceProduction, SourceGoods},
}

// SourceMatch лучшее совпадение с указанием справочника-источника.
type SourceMatch struct {
	Source Source  `json:"source"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
}

// Resolution результат кросс-каталожного разрешения имени.
type Resolution struct {
	// Overall выбранное совпадение с учётом политики предпочтения.
	Overall SourceMatch `json:"overall"`
	// Best глобально лучшее совпадение без учёта политики.
	Best SourceMatch `json:"best"`
	// BySource лучшие совпадения по каждому справочнику.
	BySource map[Source]matching.Match `json:"by_source"`
}

// Accepted сообщает, прошло ли выбранное совпадение порог реестра.
func (res *Resolution) Accepted(minScore float64) bool {
	return res.Overall.Name != "" && res.Overall.Score >= minScore
}

// Resolve запускает поиск лучшего совпадения независимо по каждому
// зарегистрированному справочнику и выбирает итог по политике
// предпочтения для типа документа: берётся первый справочник из
// порядка предпочтения, чьё совпадение прошло порог; если порога не
// достиг никто, остаётся результат самого приоритетного справочника,
// чтобы политика (например, «приход — только каталог») не нарушалась.
func (r *Registry) Resolve(name string, docType DocType) (*Resolution, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyQuery
	}

	order, ok := preferenceOrder[docType]
	if !ok {
		return nil, fmt.Errorf("неизвестный тип документа: %q", docType)
	}

	res := &Resolution{BySource: make(map[Source]matching.Match)}

	forced, forcedOK := r.overrides.Apply(name)

	for _, c := range r.Catalogs() {
		bestName, bestScore := r.scorer.FindBestMatch(name, c.Names())
		// Принудительная подстановка побеждает общий поиск в каждом
		// справочнике, где есть каноническая позиция; остальные
		// сохраняют свой обычный лучший результат.
		if forcedOK {
			if _, found := c.Entry(forced); found {
				bestName, bestScore = forced, 1.0
			}
		}
		if bestName == "" {
			continue
		}
		res.BySource[c.Source()] = matching.Match{Name: bestName, Score: bestScore}
		if bestScore > res.Best.Score {
			res.Best = SourceMatch{Source: c.Source(), Name: bestName, Score: bestScore}
		}
	}

	for _, source := range order {
		match, found := res.BySource[source]
		if !found {
			continue
		}
		if res.Overall.Name == "" {
			// Запасной вариант: самый приоритетный справочник,
			// даже если порог не пройден.
			res.Overall = SourceMatch{Source: source, Name: match.Name, Score: match.Score}
		}
		if match.Score >= r.minScore {
			res.Overall = SourceMatch{Source: source, Name: match.Name, Score: match.Score}
			break
		}
	}

	return res, nil
}
