package catalog

import (
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/vipfat/Sbis-Yen/matching"
)

// Пороговые значения по умолчанию. Подобраны на живых данных и не
// имеют теоретического обоснования, поэтому обязательно настраиваемые.
const (
	// DefaultMinScore минимальная оценка, при которой совпадение
	// считается найденным.
	DefaultMinScore = 0.55
	// DefaultConfidentScore нижняя граница «уверенного» совпадения.
	// Всё между MinScore и ConfidentScore принимается, но пишется
	// в лог для аудита дрейфа каталогов.
	DefaultConfidentScore = 0.75
	// DefaultSuggestionLimit максимум подсказок в NotFoundError.
	DefaultSuggestionLimit = 5
)

// Params параметры реестра справочников.
type Params struct {
	Scorer          *matching.Scorer
	Stemmer         *matching.RussianStemmer
	Overrides       Overrides
	MinScore        float64
	ConfidentScore  float64
	SuggestionLimit int
	Logger          *slog.Logger
}

// Registry реестр справочников с неизменяемым снапшотом.
// Снапшот заменяется целиком и атомарно (начальная загрузка, перечитка);
// позиции никогда не правятся на месте, поэтому читатели работают
// без блокировок.
type Registry struct {
	scorer          *matching.Scorer
	stemmer         *matching.RussianStemmer
	overrides       Overrides
	minScore        float64
	confidentScore  float64
	suggestionLimit int
	logger          *slog.Logger

	snapshot atomic.Pointer[snapshot]
}

type snapshot struct {
	catalogs []*Catalog
	bySource map[Source]*Catalog
	recipes  *RecipeBook
}

// NewRegistry создает пустой реестр. До первого Swap все запросы
// работают с пустым снапшотом.
func NewRegistry(params Params) *Registry {
	if params.Scorer == nil {
		params.Scorer = matching.NewDefaultScorer()
	}
	if params.Stemmer == nil {
		params.Stemmer = matching.NewRussianStemmer()
	}
	if params.MinScore <= 0 {
		params.MinScore = DefaultMinScore
	}
	if params.ConfidentScore <= 0 {
		params.ConfidentScore = DefaultConfidentScore
	}
	if params.SuggestionLimit <= 0 {
		params.SuggestionLimit = DefaultSuggestionLimit
	}
	if params.Logger == nil {
		params.Logger = slog.Default()
	}

	r := &Registry{
		scorer:          params.Scorer,
		stemmer:         params.Stemmer,
		overrides:       params.Overrides,
		minScore:        params.MinScore,
		confidentScore:  params.ConfidentScore,
		suggestionLimit: params.SuggestionLimit,
		logger:          params.Logger,
	}
	r.snapshot.Store(&snapshot{
		bySource: make(map[Source]*Catalog),
		recipes:  NewRecipeBook(nil),
	})
	return r
}

// Swap атомарно заменяет снапшот справочников и реестра составов.
func (r *Registry) Swap(catalogs []*Catalog, recipes *RecipeBook) {
	if recipes == nil {
		recipes = NewRecipeBook(nil)
	}
	snap := &snapshot{
		catalogs: catalogs,
		bySource: make(map[Source]*Catalog, len(catalogs)),
		recipes:  recipes,
	}
	for _, c := range catalogs {
		snap.bySource[c.Source()] = c
	}
	r.snapshot.Store(snap)
}

// Scorer возвращает используемый Scorer.
func (r *Registry) Scorer() *matching.Scorer {
	return r.scorer
}

// Stemmer возвращает используемый стеммер.
func (r *Registry) Stemmer() *matching.RussianStemmer {
	return r.stemmer
}

// MinScore проходной порог реестра.
func (r *Registry) MinScore() float64 {
	return r.minScore
}

// Catalog возвращает справочник по метке из текущего снапшота.
func (r *Registry) Catalog(source Source) (*Catalog, bool) {
	c, ok := r.snapshot.Load().bySource[source]
	return c, ok
}

// Catalogs возвращает справочники текущего снапшота в порядке регистрации.
func (r *Registry) Catalogs() []*Catalog {
	return r.snapshot.Load().catalogs
}

// Recipes возвращает реестр составов текущего снапшота.
func (r *Registry) Recipes() *RecipeBook {
	return r.snapshot.Load().recipes
}

// Lookup разрешает свободное название в каноническую позицию справочника.
// При оценке ниже minScore возвращает NotFoundError с ранжированными
// подсказками. minScore <= 0 означает порог реестра.
func (r *Registry) Lookup(source Source, name string, minScore float64) (Entry, float64, error) {
	if strings.TrimSpace(name) == "" {
		return Entry{}, 0.0, ErrEmptyQuery
	}
	if minScore <= 0 {
		minScore = r.minScore
	}

	c, ok := r.Catalog(source)
	if !ok || c.Len() == 0 {
		return Entry{}, 0.0, &NotFoundError{Query: name, Source: source}
	}

	// Принудительные подстановки идут до общего сопоставления.
	if forced, ok := r.overrides.Apply(name); ok {
		if entry, found := c.Entry(forced); found {
			r.logger.Info("принудительное сопоставление",
				"query", name, "canonical", forced, "source", string(source))
			return entry, 1.0, nil
		}
	}

	// Быстрый путь: морфологический вариант названия.
	if entry, found := c.entryByStemKey(r.stemmer.StemKey(name)); found {
		score := r.scorer.Similarity(name, entry.Name)
		if score >= minScore {
			r.auditLowConfidence(name, entry.Name, source, score)
			return entry, score, nil
		}
	}

	bestName, bestScore := r.scorer.FindBestMatch(name, c.Names())
	if bestName == "" || bestScore < minScore {
		return Entry{}, bestScore, &NotFoundError{
			Query:       name,
			Source:      source,
			Suggestions: r.scorer.FindTopK(name, c.Names(), r.suggestionLimit),
		}
	}

	entry, _ := c.Entry(bestName)
	r.auditLowConfidence(name, bestName, source, bestScore)
	return entry, bestScore, nil
}

// auditLowConfidence пишет в лог совпадения из полосы
// [minScore, confidentScore): они приняты, но операторам нужен след,
// чтобы замечать дрейф каталогов и систематические опечатки.
func (r *Registry) auditLowConfidence(query, canonical string, source Source, score float64) {
	if score < r.confidentScore {
		r.logger.Warn("совпадение с низкой уверенностью",
			"query", query,
			"canonical", canonical,
			"source", string(source),
			"score", score)
	}
}
