package matching

import "sort"

// Match результат сопоставления: каноническое название и оценка.
type Match struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// FindBestMatch ищет максимально похожее название среди кандидатов.
// Возвращает пустую строку и 0.0, если кандидатов нет или ни один
// не набрал оценку выше нуля. При равных оценках побеждает первый
// встреченный кандидат, поэтому порядок кандидатов фиксирует результат.
func (s *Scorer) FindBestMatch(query string, candidates []string) (string, float64) {
	bestName := ""
	bestScore := 0.0

	for _, cand := range candidates {
		score := s.Similarity(query, cand)
		if score > bestScore {
			bestName = cand
			bestScore = score
		}
	}

	return bestName, bestScore
}

// FindTopK оценивает всех кандидатов и возвращает до k лучших по
// убыванию оценки. Сортировка стабильная: при равных оценках
// сохраняется исходный порядок кандидатов.
func (s *Scorer) FindTopK(query string, candidates []string, k int) []Match {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(candidates))
	for _, cand := range candidates {
		matches = append(matches, Match{
			Name:  cand,
			Score: s.Similarity(query, cand),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
