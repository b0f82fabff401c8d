package database

import (
	"testing"

	"github.com/vipfat/Sbis-Yen/catalog"
)

func newTestDB(t *testing.T) *CatalogsDB {
	t.Helper()

	db, err := NewCatalogsDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create CatalogsDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestReplaceCatalog_RoundTrip проверяет сохранение и чтение справочника
// с подстановкой кодов ОКЕИ
func TestReplaceCatalog_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	entries := []catalog.Entry{
		{Name: "Бекон", Code: "103", Unit: "кг", Price: 540.5},
		{Name: "СОУС ХОТ", Code: "106", Unit: "л", UnitCode: "112", Price: 310},
	}

	if err := db.ReplaceCatalog(catalog.SourceGoods, entries); err != nil {
		t.Fatalf("ReplaceCatalog() error = %v", err)
	}

	loaded, err := db.LoadCatalog(catalog.SourceGoods)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("len(loaded) = %d, want 2", len(loaded))
	}

	// Порядок загрузки сохраняется
	if loaded[0].Name != "Бекон" || loaded[1].Name != "СОУС ХОТ" {
		t.Errorf("порядок позиций нарушен: %q, %q", loaded[0].Name, loaded[1].Name)
	}

	// Код ОКЕИ подставлен из единицы измерения
	if loaded[0].UnitCode != "166" {
		t.Errorf("UnitCode = %q, want \"166\"", loaded[0].UnitCode)
	}
	if loaded[1].UnitCode != "112" {
		t.Errorf("UnitCode = %q, want \"112\"", loaded[1].UnitCode)
	}
	if loaded[0].Price != 540.5 {
		t.Errorf("Price = %f, want 540.5", loaded[0].Price)
	}
}

// TestReplaceCatalog_Overwrites проверяет полную замену справочника
func TestReplaceCatalog_Overwrites(t *testing.T) {
	db := newTestDB(t)

	first := []catalog.Entry{{Name: "Тесто", Code: "101", Unit: "кг"}}
	if err := db.ReplaceCatalog(catalog.SourceGoods, first); err != nil {
		t.Fatalf("ReplaceCatalog() error = %v", err)
	}

	second := []catalog.Entry{
		{Name: "Капуста", Code: "104", Unit: "кг"},
		{Name: "Песто", Code: "105", Unit: "кг"},
	}
	if err := db.ReplaceCatalog(catalog.SourceGoods, second); err != nil {
		t.Fatalf("ReplaceCatalog() error = %v", err)
	}

	loaded, err := db.LoadCatalog(catalog.SourceGoods)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Errorf("len(loaded) = %d, want 2 (старые позиции должны удалиться)", len(loaded))
	}
}

// TestReplaceCatalog_SourcesIsolated проверяет независимость справочников
func TestReplaceCatalog_SourcesIsolated(t *testing.T) {
	db := newTestDB(t)

	if err := db.ReplaceCatalog(catalog.SourceGoods, []catalog.Entry{{Name: "Тесто", Unit: "кг"}}); err != nil {
		t.Fatalf("ReplaceCatalog(goods) error = %v", err)
	}
	if err := db.ReplaceCatalog(catalog.SourceProduction, []catalog.Entry{{Name: "Тесто сдобное", Unit: "кг"}}); err != nil {
		t.Fatalf("ReplaceCatalog(production) error = %v", err)
	}

	// Перезапись одного справочника не трогает другой
	if err := db.ReplaceCatalog(catalog.SourceGoods, nil); err != nil {
		t.Fatalf("ReplaceCatalog(goods, nil) error = %v", err)
	}

	production, err := db.LoadCatalog(catalog.SourceProduction)
	if err != nil {
		t.Fatalf("LoadCatalog(production) error = %v", err)
	}
	if len(production) != 1 {
		t.Errorf("len(production) = %d, want 1", len(production))
	}
}

// TestReplaceRecipes_RoundTrip проверяет сохранение и чтение составов
// с порядком составляющих
func TestReplaceRecipes_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	recipes := []catalog.Recipe{
		{
			ParentName: "Тесто сдобное",
			ParentCode: "Т-01",
			BaseOutput: 10,
			Components: []catalog.Component{
				{Name: "Мука", Code: "201", Unit: "кг", BaseQty: 7},
				{Name: "Вода", Code: "202", Unit: "л", BaseQty: 3},
			},
		},
	}

	if err := db.ReplaceRecipes(recipes); err != nil {
		t.Fatalf("ReplaceRecipes() error = %v", err)
	}

	loaded, err := db.LoadRecipes()
	if err != nil {
		t.Fatalf("LoadRecipes() error = %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("len(loaded) = %d, want 1", len(loaded))
	}

	recipe := loaded[0]
	if recipe.ParentName != "Тесто сдобное" || recipe.ParentCode != "Т-01" {
		t.Errorf("родитель = (%q, %q), want (Тесто сдобное, Т-01)", recipe.ParentName, recipe.ParentCode)
	}
	if recipe.CompositionNo != 1 {
		t.Errorf("CompositionNo = %d, want 1 (номер по умолчанию)", recipe.CompositionNo)
	}
	if recipe.BaseOutput != 10 {
		t.Errorf("BaseOutput = %f, want 10", recipe.BaseOutput)
	}

	if len(recipe.Components) != 2 {
		t.Fatalf("len(Components) = %d, want 2", len(recipe.Components))
	}
	if recipe.Components[0].Name != "Мука" || recipe.Components[1].Name != "Вода" {
		t.Errorf("порядок составляющих нарушен: %q, %q", recipe.Components[0].Name, recipe.Components[1].Name)
	}
	if recipe.Components[0].UnitCode != "166" {
		t.Errorf("UnitCode = %q, want \"166\"", recipe.Components[0].UnitCode)
	}
}
