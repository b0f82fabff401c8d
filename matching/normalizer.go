package matching

import (
	"strings"

	"golang.org/x/text/cases"
)

// homoglyphReplacer заменяет латинские буквы, визуально совпадающие с
// кириллическими. Такие подмены постоянно приходят из OCR и голосовой
// расшифровки названий товаров.
var homoglyphReplacer = strings.NewReplacer(
	"o", "о", "O", "О",
	"a", "а", "A", "А",
	"e", "е", "E", "Е",
	"p", "р", "P", "Р",
	"c", "с", "C", "С",
	"x", "х", "X", "Х",
	"y", "у", "Y", "У",
	"k", "к", "K", "К",
)

// RepairHomoglyphs приводит латинские буквы-двойники к кириллице.
func RepairHomoglyphs(text string) string {
	return homoglyphReplacer.Replace(text)
}

// Normalize приводит строку к канонической форме для сравнения:
// схлопывает пробельные последовательности, обрезает края и
// выполняет case folding, корректный для кириллицы.
func Normalize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return cases.Fold().String(text)
}

// NormalizeQuery полная подготовка пользовательского ввода перед
// сопоставлением: сначала ремонт букв-двойников, затем нормализация.
func NormalizeQuery(text string) string {
	return Normalize(RepairHomoglyphs(text))
}
