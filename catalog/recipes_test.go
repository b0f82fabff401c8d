package catalog

import (
	"errors"
	"math"
	"testing"

	"github.com/vipfat/Sbis-Yen/matching"
)

// TestComponentsForOutput_Scaling проверяет пересчёт состава
// под фактический выпуск
func TestComponentsForOutput_Scaling(t *testing.T) {
	book := NewRecipeBook(testRecipes())
	stemmer := matching.NewRussianStemmer()
	production := New(SourceProduction, testProductionEntries(), stemmer)
	scorer := matching.NewDefaultScorer()

	scaled, err := book.ComponentsForOutput(scorer, production, "тесто сдобное", 25, DefaultMinScore)
	if err != nil {
		t.Fatalf("ComponentsForOutput() error = %v", err)
	}

	if scaled.Factor != 2.5 {
		t.Errorf("Factor = %f, want 2.5", scaled.Factor)
	}
	if scaled.ParentCode != "Т-01" {
		t.Errorf("ParentCode = %q, want \"Т-01\"", scaled.ParentCode)
	}
	if scaled.ParentUnit != "кг" || scaled.ParentUnitCode != "166" {
		t.Errorf("единица родителя = (%q, %q), want (кг, 166)", scaled.ParentUnit, scaled.ParentUnitCode)
	}

	if len(scaled.Components) != 2 {
		t.Fatalf("len(Components) = %d, want 2", len(scaled.Components))
	}
	for i, want := range []struct {
		name     string
		qty      float64
		unitCode string
	}{
		{"Мука", 17.5, "166"},
		{"Вода", 7.5, "112"},
	} {
		got := scaled.Components[i]
		if got.Name != want.name || math.Abs(got.Qty-want.qty) > 1e-9 || got.UnitCode != want.unitCode {
			t.Errorf("Components[%d] = (%q, %f, %q), want (%q, %f, %q)",
				i, got.Name, got.Qty, got.UnitCode, want.name, want.qty, want.unitCode)
		}
	}
}

// TestComponentsForOutput_ZeroBase проверяет отказ при нулевом базовом выпуске
func TestComponentsForOutput_ZeroBase(t *testing.T) {
	book := NewRecipeBook([]Recipe{{
		ParentName: "Бульон базовый",
		BaseOutput: 0,
		Components: []Component{{Name: "Вода", Unit: "л", BaseQty: 5}},
	}})
	scorer := matching.NewDefaultScorer()

	_, err := book.ComponentsForOutput(scorer, nil, "бульон базовый", 3, DefaultMinScore)
	if err == nil {
		t.Fatal("ожидалась ошибка для нулевого базового выпуска")
	}
}

// TestResolveParent_Fuzzy проверяет нечёткий поиск родителя
func TestResolveParent_Fuzzy(t *testing.T) {
	book := NewRecipeBook(testRecipes())
	scorer := matching.NewDefaultScorer()

	name, score, err := book.ResolveParent(scorer, "тесто сдобн", DefaultMinScore)
	if err != nil {
		t.Fatalf("ResolveParent() error = %v", err)
	}
	if name != "Тесто сдобное" {
		t.Errorf("name = %q, want \"Тесто сдобное\"", name)
	}
	if score < DefaultMinScore {
		t.Errorf("score = %f, ниже порога %f", score, DefaultMinScore)
	}
}

// TestResolveParent_NotFound проверяет возврат NotFoundError с подсказками
func TestResolveParent_NotFound(t *testing.T) {
	book := NewRecipeBook(testRecipes())
	scorer := matching.NewDefaultScorer()

	_, _, err := book.ResolveParent(scorer, "фрикадельки куриные", DefaultMinScore)

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if notFound.Source != SourceCompositions {
		t.Errorf("Source = %q, want %q", notFound.Source, SourceCompositions)
	}
	if len(notFound.Suggestions) == 0 {
		t.Error("ожидались подсказки для ненайденного родителя")
	}
}

// TestResolveParent_Empty проверяет отказ для пустого имени
func TestResolveParent_Empty(t *testing.T) {
	book := NewRecipeBook(testRecipes())
	scorer := matching.NewDefaultScorer()

	if _, _, err := book.ResolveParent(scorer, "", DefaultMinScore); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("error = %v, want ErrEmptyQuery", err)
	}
}

// TestRecipeBook_DefaultCompositionNo проверяет подстановку номера состава 1
func TestRecipeBook_DefaultCompositionNo(t *testing.T) {
	book := NewRecipeBook([]Recipe{{ParentName: "Фарш домашний", BaseOutput: 5}})

	if _, ok := book.Recipe("Фарш домашний", 1); !ok {
		t.Error("рецепт без номера состава должен получить номер 1")
	}
}
