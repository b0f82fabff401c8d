package catalog

import (
	"strings"

	"github.com/vipfat/Sbis-Yen/matching"
)

// Source логическая метка справочника.
type Source string

const (
	// SourceGoods закупаемые товары (Каталог).
	SourceGoods Source = "catalog"
	// SourceCompositions полуфабрикаты из реестра составов.
	SourceCompositions Source = "composition"
	// SourceProduction готовая продукция.
	SourceProduction Source = "production"
)

// Catalog именованный неизменяемый список канонических позиций.
// Создается один раз при загрузке снапшота; после создания только читается,
// поэтому безопасен для конкурентных обращений без блокировок.
type Catalog struct {
	source    Source
	entries   []Entry
	names     []string
	byName    map[string]int
	byCode    map[string]int
	byStemKey map[string]int
}

// New создает каталог из готовых позиций. В каталоге товаров позиции
// без единицы измерения отбрасываются: в исходной таблице это
// служебные строки («ИП ПЛЕТНЁВ», разделители групп), а не товары.
// Родители составов единицы не несут, для них фильтр не применяется.
func New(source Source, entries []Entry, stemmer *matching.RussianStemmer) *Catalog {
	c := &Catalog{
		source:    source,
		byName:    make(map[string]int),
		byCode:    make(map[string]int),
		byStemKey: make(map[string]int),
	}

	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		e.Unit = strings.TrimSpace(e.Unit)
		if e.Name == "" {
			continue
		}
		if source == SourceGoods && e.Unit == "" {
			continue
		}
		if e.UnitCode == "" {
			e.UnitCode = OKEIForUnit(e.Unit)
		}

		idx := len(c.entries)
		c.entries = append(c.entries, e)
		c.names = append(c.names, e.Name)

		if _, dup := c.byName[e.Name]; !dup {
			c.byName[e.Name] = idx
		}
		if e.Code != "" {
			if _, dup := c.byCode[e.Code]; !dup {
				c.byCode[e.Code] = idx
			}
		}
		if stemmer != nil {
			if key := stemmer.StemKey(e.Name); key != "" {
				if _, dup := c.byStemKey[key]; !dup {
					c.byStemKey[key] = idx
				}
			}
		}
	}

	return c
}

// Source возвращает метку справочника.
func (c *Catalog) Source() Source {
	return c.source
}

// Len количество позиций.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Names возвращает названия позиций в порядке загрузки.
// Слайс принадлежит каталогу и не должен изменяться вызывающим кодом.
func (c *Catalog) Names() []string {
	return c.names
}

// Entry возвращает позицию по точному каноническому названию.
func (c *Catalog) Entry(name string) (Entry, bool) {
	idx, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// EntryByCode возвращает позицию по коду.
func (c *Catalog) EntryByCode(code string) (Entry, bool) {
	idx, ok := c.byCode[strings.TrimSpace(code)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// entryByStemKey быстрый путь: морфологический вариант названия
// («капусты» → «Капуста») находится без полного перебора.
func (c *Catalog) entryByStemKey(key string) (Entry, bool) {
	if key == "" {
		return Entry{}, false
	}
	idx, ok := c.byStemKey[key]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}
