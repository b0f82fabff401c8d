package matching

import (
	"strings"
	"unicode/utf8"
)

// Константы оценки. Подобраны эмпирически на реальных каталогах,
// вынесены из алгоритма, чтобы порог можно было крутить конфигом.
const (
	// SubstringContainsBase базовая оценка, когда запрос целиком
	// содержится в кандидате ("лайм" → "ЛАЙМ КУХНЯ").
	SubstringContainsBase = 0.92

	// SubstringContainedBase базовая оценка обратного вложения,
	// когда кандидат содержится в запросе.
	SubstringContainedBase = 0.88

	// SubstringLengthBonus бонус за долю совпавшей длины: чем ближе
	// длины строк, тем выше итоговая оценка вложения.
	SubstringLengthBonus = 0.05
)

// Weights веса сигналов комбинированной оценки схожести.
type Weights struct {
	Sequence     float64 `json:"sequence"`      // посимвольное сходство (LCS)
	TokenOverlap float64 `json:"token_overlap"` // пересечение слов
	Levenshtein  float64 `json:"levenshtein"`   // устойчивость к опечаткам
}

// DefaultWeights возвращает веса по умолчанию.
// Чистое расстояние Левенштейна слишком жёстко штрафует перестановку
// слов и лишние уточнения («СОУС ХОТ» против «СОУС ХОТ ОСТРЫЙ»),
// поэтому используется смесь трёх сигналов.
func DefaultWeights() Weights {
	return Weights{
		Sequence:     0.40,
		TokenOverlap: 0.25,
		Levenshtein:  0.35,
	}
}

// Scorer вычисляет схожесть двух строк в диапазоне [0, 1].
// Чистая функция от двух аргументов: без состояния и побочных эффектов,
// безопасна для конкурентных вызовов.
type Scorer struct {
	weights Weights
}

// NewScorer создает Scorer с заданными весами.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// NewDefaultScorer создает Scorer с весами по умолчанию.
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultWeights())
}

// Similarity возвращает оценку похожести запроса и кандидата.
// Учитывает точное совпадение, вложение подстроки и смесь метрик.
func (s *Scorer) Similarity(query, candidate string) float64 {
	q := NormalizeQuery(query)
	c := NormalizeQuery(candidate)

	if q == "" || c == "" {
		return 0.0
	}
	if q == c {
		return 1.0
	}

	qLen := utf8.RuneCountInString(q)
	cLen := utf8.RuneCountInString(c)

	// Вложение подстроки: почти полное совпадение ценим выше частичного.
	base := 0.0
	if strings.Contains(c, q) {
		base = SubstringContainsBase + float64(qLen)/float64(cLen)*SubstringLengthBonus
	} else if strings.Contains(q, c) {
		base = SubstringContainedBase + float64(cLen)/float64(qLen)*SubstringLengthBonus
	}

	seq := sequenceRatio(q, c)
	tokens := tokenOverlap(q, c)

	maxLen := qLen
	if cLen > maxLen {
		maxLen = cLen
	}
	lev := 1.0 - float64(levenshteinDistance(q, c))/float64(maxLen)

	blended := seq*s.weights.Sequence +
		tokens*s.weights.TokenOverlap +
		lev*s.weights.Levenshtein

	score := blended
	if base > score {
		score = base
	}
	if score < 0 {
		return 0.0
	}
	if score > 1 {
		return 1.0
	}
	return score
}
