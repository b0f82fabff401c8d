package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/vipfat/Sbis-Yen/matching"
)

// Component составляющая рецепта с количеством на базовый выпуск.
type Component struct {
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	Unit     string  `json:"unit"`
	UnitCode string  `json:"unit_code"`
	BaseQty  float64 `json:"base_qty"`
}

// Recipe состав полуфабриката: родитель и его составляющие
// на базовый выпуск («Состав на»).
type Recipe struct {
	ParentName    string      `json:"parent_name"`
	ParentCode    string      `json:"parent_code"`
	CompositionNo int         `json:"composition_no"`
	BaseOutput    float64     `json:"base_output"`
	Components    []Component `json:"components"`
}

// ScaledComponent составляющая, пересчитанная под фактический выпуск.
type ScaledComponent struct {
	Component
	Qty float64 `json:"qty"`
}

// ScaledRecipe состав, пересчитанный под фактический выпуск,
// с метаданными готовой продукции.
type ScaledRecipe struct {
	ParentName     string            `json:"parent_name"`
	ParentCode     string            `json:"parent_code"`
	ParentUnit     string            `json:"parent_unit"`
	ParentUnitCode string            `json:"parent_unit_code"`
	OutputQty      float64           `json:"output_qty"`
	BaseOutput     float64           `json:"base_output"`
	Factor         float64           `json:"factor"`
	Components     []ScaledComponent `json:"components"`
}

// RecipeBook реестр составов. Как и Catalog, создается один раз
// на снапшот и дальше только читается.
type RecipeBook struct {
	recipes  []Recipe
	parents  []string
	byParent map[string]map[int]int
}

// NewRecipeBook собирает реестр составов. Порядок рецептов фиксирует
// порядок кандидатов при сопоставлении родителя.
func NewRecipeBook(recipes []Recipe) *RecipeBook {
	b := &RecipeBook{byParent: make(map[string]map[int]int)}

	seen := make(map[string]bool)
	for _, rec := range recipes {
		rec.ParentName = strings.TrimSpace(rec.ParentName)
		if rec.ParentName == "" {
			continue
		}
		if rec.CompositionNo == 0 {
			rec.CompositionNo = 1
		}

		idx := len(b.recipes)
		b.recipes = append(b.recipes, rec)

		if !seen[rec.ParentName] {
			seen[rec.ParentName] = true
			b.parents = append(b.parents, rec.ParentName)
		}
		byNo, ok := b.byParent[rec.ParentName]
		if !ok {
			byNo = make(map[int]int)
			b.byParent[rec.ParentName] = byNo
		}
		if _, dup := byNo[rec.CompositionNo]; !dup {
			byNo[rec.CompositionNo] = idx
		}
	}

	return b
}

// Parents канонические имена родителей в порядке загрузки.
func (b *RecipeBook) Parents() []string {
	return b.parents
}

// Len количество рецептов.
func (b *RecipeBook) Len() int {
	return len(b.recipes)
}

// Recipe возвращает состав по каноническому имени родителя и номеру состава.
func (b *RecipeBook) Recipe(parentName string, compositionNo int) (Recipe, bool) {
	byNo, ok := b.byParent[strings.TrimSpace(parentName)]
	if !ok {
		return Recipe{}, false
	}
	idx, ok := byNo[compositionNo]
	if !ok {
		return Recipe{}, false
	}
	return b.recipes[idx], true
}

// ResolveParent ищет родителя по свободному названию.
// При оценке ниже minScore возвращает NotFoundError с подсказками.
func (b *RecipeBook) ResolveParent(scorer *matching.Scorer, name string, minScore float64) (string, float64, error) {
	if strings.TrimSpace(name) == "" {
		return "", 0.0, ErrEmptyQuery
	}

	candidate, score := scorer.FindBestMatch(name, b.parents)
	if candidate == "" || score < minScore {
		return "", score, &NotFoundError{
			Query:       name,
			Source:      SourceCompositions,
			Suggestions: scorer.FindTopK(name, b.parents, DefaultSuggestionLimit),
		}
	}
	return candidate, score, nil
}

// ComponentsForOutput пересчитывает состав родителя под фактический
// выпуск. Метаданные готовой продукции (единица, ОКЕИ) берутся из
// справочника производства по коду родителя.
func (b *RecipeBook) ComponentsForOutput(scorer *matching.Scorer, production *Catalog,
	parentName string, outputQty float64, minScore float64) (*ScaledRecipe, error) {

	canonical, _, err := b.ResolveParent(scorer, parentName, minScore)
	if err != nil {
		return nil, err
	}

	recipe, ok := b.Recipe(canonical, 1)
	if !ok {
		return nil, fmt.Errorf("для %q нет состава с номером 1", canonical)
	}
	if recipe.BaseOutput == 0 {
		return nil, fmt.Errorf("у %q базовый выпуск равен нулю", canonical)
	}

	factor := outputQty / recipe.BaseOutput

	scaled := &ScaledRecipe{
		ParentName: recipe.ParentName,
		ParentCode: recipe.ParentCode,
		OutputQty:  outputQty,
		BaseOutput: recipe.BaseOutput,
		Factor:     factor,
	}

	if production != nil {
		if meta, found := production.EntryByCode(recipe.ParentCode); found {
			scaled.ParentUnit = meta.Unit
			scaled.ParentUnitCode = meta.UnitCode
		}
	}

	for _, comp := range recipe.Components {
		if comp.UnitCode == "" {
			comp.UnitCode = OKEIForUnit(comp.Unit)
		}
		scaled.Components = append(scaled.Components, ScaledComponent{
			Component: comp,
			Qty:       math.Round(comp.BaseQty*factor*1e6) / 1e6,
		})
	}

	return scaled, nil
}
