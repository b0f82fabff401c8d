// Package intake разбирает свободный текст (голосовой ввод, сообщения)
// в список позиций «название + количество».
package intake

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Item позиция, извлеченная из текста: свободное название и количество.
type Item struct {
	Name string  `json:"name"`
	Qty  float64 `json:"qty"`
}

// Разделители между позициями:
// - переносы строк
// - точка с запятой
// - запятая с пробелом после (но не «2,5» внутри числа)
// - точка с пробелом после; точка в конце текста снимается очисткой пунктуации
var (
	separatorRe     = regexp.MustCompile(`\n|;|,\s+|\.\s+`)
	trailingPunctRe = regexp.MustCompile(`[\.,;:]+$`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// ParseItems достает из текста позиции вида «Название Количество»,
// перечисленные через разделители. Возвращает распознанные позиции
// и фрагменты, которые разобрать не удалось.
func ParseItems(text string) ([]Item, []string) {
	var items []Item
	var failed []string

	for _, raw := range separatorRe.Split(text, -1) {
		chunk := strings.TrimSpace(raw)
		if chunk == "" {
			continue
		}
		chunk = strings.TrimSpace(trailingPunctRe.ReplaceAllString(chunk, ""))
		if chunk == "" {
			continue
		}

		parts := strings.Fields(whitespaceRe.ReplaceAllString(chunk, " "))
		name, qty, ok := smartQuantity(parts)
		if !ok {
			failed = append(failed, chunk)
			continue
		}
		items = append(items, Item{Name: name, Qty: qty})
	}

	return items, failed
}

// smartQuantity выделяет количество из хвоста списка слов.
//
// Обрабатываемые случаи:
//
//	«Ветчина 2»       → («Ветчина», 2)
//	«Ветчина 2 0.97»  → («Ветчина», 2.97)  голосовое «два ноль девяносто семь»
//	«Мука 5,5»        → («Мука», 5.5)
func smartQuantity(parts []string) (string, float64, bool) {
	if len(parts) < 2 {
		return "", 0.0, false
	}

	// Собираем числа с конца; первое не-число завершает хвост
	var numbers []float64
	i := len(parts)
	for i > 0 {
		num, err := strconv.ParseFloat(strings.ReplaceAll(parts[i-1], ",", "."), 64)
		if err != nil {
			break
		}
		numbers = append(numbers, num)
		i--
	}

	if len(numbers) == 0 {
		return "", 0.0, false
	}
	name := strings.TrimSpace(strings.Join(parts[:i], " "))
	if name == "" {
		return "", 0.0, false
	}

	// numbers идут в обратном порядке: numbers[0] - последнее число в тексте
	switch len(numbers) {
	case 1:
		return name, numbers[0], true
	case 2:
		first, last := numbers[1], numbers[0]

		// Два целых - отдельные количества, берем последнее:
		// «капуста 2 3» не должно стать 2.3
		if isWhole(first) && isWhole(last) {
			return name, last, true
		}
		// Целое < 100 и дробное < 1 - голосовой ввод одного числа,
		// склеиваем дробную часть: «2 0.97» → 2.97
		if isWhole(first) && first < 100 && last > 0 && last < 1 {
			frac := strconv.FormatFloat(last, 'f', -1, 64)
			if dot := strings.IndexByte(frac, '.'); dot >= 0 {
				merged, err := strconv.ParseFloat(fmt.Sprintf("%d.%s", int(first), frac[dot+1:]), 64)
				if err == nil {
					return name, merged, true
				}
			}
		}
		return name, last, true
	default:
		return name, numbers[0], true
	}
}

func isWhole(f float64) bool {
	return f == float64(int64(f))
}

// ToFloat безопасно конвертирует строку в число: запятая считается
// десятичным разделителем, пустая строка и мусор дают fallback.
func ToFloat(value string, fallback float64) float64 {
	trimmed := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if trimmed == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return f
}

// FormatQuantity форматирует количество для XML, убирая лишние нули:
// 1.500 → «1.5», 2.0 → «2».
func FormatQuantity(qty float64) string {
	formatted := strconv.FormatFloat(qty, 'f', 3, 64)
	formatted = strings.TrimRight(formatted, "0")
	return strings.TrimRight(formatted, ".")
}

// FormatMoney форматирует сумму для XML с двумя знаками после точки.
func FormatMoney(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// CleanString убирает переносы строк, табы и множественные пробелы.
func CleanString(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
