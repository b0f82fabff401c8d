package catalog

import (
	"strconv"
	"strings"
)

// Entry одна позиция справочника: каноническое название, код,
// единица измерения, код ОКЕИ и себестоимость.
type Entry struct {
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	Unit     string  `json:"unit"`
	UnitCode string  `json:"unit_code"`
	Price    float64 `json:"price"`
}

// okeiByUnit коды ОКЕИ по единицам измерения.
// Пополняется по мере надобности («мл», «упак» и т.п.).
var okeiByUnit = map[string]string{
	"кг": "166",
	"г":  "163",
	"л":  "112",
	"шт": "796",
}

// OKEIForUnit возвращает код ОКЕИ для единицы измерения,
// пустую строку для неизвестных единиц.
func OKEIForUnit(unit string) string {
	return okeiByUnit[strings.TrimSpace(unit)]
}

// ParsePrice приводит сырое значение цены к float64.
// Запятая считается десятичным разделителем, пустота и мусор дают 0.0.
// Возвращает признак успешного разбора, чтобы вызывающий код мог
// зафиксировать подмену в логе: молчаливая порча цен недопустима.
func ParsePrice(raw string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0.0, true
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 {
		return 0.0, false
	}
	return value, true
}
