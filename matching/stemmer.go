package matching

import (
	"strings"
	"sync"

	"github.com/kljensen/snowball"
)

// RussianStemmer стеммер русского языка на базе алгоритма Snowball
// с кэшем результатов. Используется каталогом для быстрого поиска
// морфологических вариантов названий («капусты» → «капуст»).
type RussianStemmer struct {
	cache map[string]string
	mu    sync.RWMutex
}

// NewRussianStemmer создает новый стеммер.
func NewRussianStemmer() *RussianStemmer {
	return &RussianStemmer{cache: make(map[string]string)}
}

// Stem возвращает основу слова. При ошибке стемминга (не-русское слово,
// служебные символы) возвращает нормализованное слово как есть.
func (s *RussianStemmer) Stem(word string) string {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return ""
	}

	s.mu.RLock()
	if cached, ok := s.cache[normalized]; ok {
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	stemmed, err := snowball.Stem(normalized, "russian", false)
	if err != nil || stemmed == "" {
		stemmed = normalized
	}

	s.mu.Lock()
	s.cache[normalized] = stemmed
	s.mu.Unlock()

	return stemmed
}

// StemKey строит ключ фразы: нормализует, стеммирует каждое слово и
// склеивает через пробел. Один и тот же товар в разных падежах даёт
// одинаковый ключ.
func (s *RussianStemmer) StemKey(phrase string) string {
	normalized := NormalizeQuery(phrase)
	if normalized == "" {
		return ""
	}

	words := strings.Fields(normalized)
	stems := make([]string, 0, len(words))
	for _, w := range words {
		if stem := s.Stem(w); stem != "" {
			stems = append(stems, stem)
		}
	}

	return strings.Join(stems, " ")
}
