package catalog

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Имена колонок исходных книг. Сверка по заголовкам, а не по позициям:
// бухгалтерия периодически переставляет колонки местами.
const (
	colName       = "наименование"
	colCode       = "код"
	colUnit       = "единицы измерения"
	colPrice      = "себест."
	colParent     = "родитель"
	colParentCode = "код родителя"
	colCompNo     = "номер состава"
	colBaseOut    = "состав на"
	colCompName   = "название составляющей"
	colCompCode   = "код составляющей"
	colCompUnit   = "ед.изм составляющей"
	colCompQty    = "кол-во"
)

// LoadEntriesFromExcel читает позиции справочника из книги Excel.
// Строки без единицы измерения пропускаются: это служебные строки
// исходной таблицы, а не товары. Мусор в цене заменяется нулём
// с записью в лог — подмена влияет на оценку документов и должна
// оставлять след.
func LoadEntriesFromExcel(path, sheet string) ([]Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть книгу %s: %w", path, err)
	}
	defer f.Close()

	rows, err := readSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	headers := headerIndex(rows[0])
	nameIdx := column(headers, colName)
	if nameIdx < 0 {
		return nil, fmt.Errorf("в %s нет колонки «Наименование»", path)
	}
	unitIdx := column(headers, colUnit)
	if unitIdx < 0 {
		return nil, fmt.Errorf("в %s нет колонки «Единицы измерения»", path)
	}
	codeIdx := column(headers, colCode)
	priceIdx := column(headers, colPrice)

	var entries []Entry
	for rowNum, row := range rows[1:] {
		name := cell(row, nameIdx)
		unit := cell(row, unitIdx)
		if name == "" || unit == "" {
			continue
		}

		entry := Entry{
			Name:     name,
			Code:     cell(row, codeIdx),
			Unit:     unit,
			UnitCode: OKEIForUnit(unit),
		}
		if priceIdx >= 0 {
			raw := cell(row, priceIdx)
			price, clean := ParsePrice(raw)
			if !clean {
				slog.Warn("мусор в цене, подставлен ноль",
					"file", path, "row", rowNum+2, "name", name, "raw", raw)
			}
			entry.Price = price
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// LoadRecipesFromExcel читает реестр составов из книги Excel.
// Строки группируются по паре (родитель, номер состава) с сохранением
// порядка появления.
func LoadRecipesFromExcel(path, sheet string) ([]Recipe, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть книгу %s: %w", path, err)
	}
	defer f.Close()

	rows, err := readSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	headers := headerIndex(rows[0])
	for _, required := range []string{colParent, colCompName, colCompQty} {
		if column(headers, required) < 0 {
			return nil, fmt.Errorf("в %s нет колонки «%s»", path, required)
		}
	}

	type recipeKey struct {
		parent string
		no     int
	}
	byKey := make(map[recipeKey]int)
	var recipes []Recipe

	for rowNum, row := range rows[1:] {
		parent := cell(row, column(headers, colParent))
		if parent == "" {
			continue
		}

		no := 1
		if idx := column(headers, colCompNo); idx >= 0 {
			if parsed, err := strconv.Atoi(cell(row, idx)); err == nil && parsed > 0 {
				no = parsed
			}
		}

		key := recipeKey{parent: parent, no: no}
		idx, exists := byKey[key]
		if !exists {
			idx = len(recipes)
			byKey[key] = idx

			baseOutput := 0.0
			if bIdx := column(headers, colBaseOut); bIdx >= 0 {
				baseOutput, _ = ParsePrice(cell(row, bIdx))
			}
			recipes = append(recipes, Recipe{
				ParentName:    parent,
				ParentCode:    cell(row, column(headers, colParentCode)),
				CompositionNo: no,
				BaseOutput:    baseOutput,
			})
		}

		compUnit := cell(row, column(headers, colCompUnit))
		qtyRaw := cell(row, column(headers, colCompQty))
		qty, clean := ParsePrice(qtyRaw)
		if !clean {
			slog.Warn("мусор в количестве составляющей, подставлен ноль",
				"file", path, "row", rowNum+2, "parent", parent, "raw", qtyRaw)
		}

		recipes[idx].Components = append(recipes[idx].Components, Component{
			Name:     cell(row, column(headers, colCompName)),
			Code:     cell(row, column(headers, colCompCode)),
			Unit:     compUnit,
			UnitCode: OKEIForUnit(compUnit),
			BaseQty:  qty,
		})
	}

	return recipes, nil
}

func readSheet(f *excelize.File, sheet string) ([][]string, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать лист %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("лист %q пуст: нужен заголовок и хотя бы одна строка", sheet)
	}
	return rows, nil
}

func column(headers map[string]int, name string) int {
	if idx, ok := headers[name]; ok {
		return idx
	}
	return -1
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
