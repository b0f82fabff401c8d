package catalog

import (
	"errors"
	"testing"
)

// TestResolve_IncomePrefersGoods проверяет, что для прихода каталог
// закупаемых товаров авторитетен даже при сопоставимом совпадении
// в других справочниках
func TestResolve_IncomePrefersGoods(t *testing.T) {
	r := newTestRegistry(t)

	// «тесто» даёт точное совпадение в каталоге и сильное вхождение
	// в «Тесто сдобное» из составов.
	res, err := r.Resolve("тесто", DocIncome)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Overall.Source != SourceGoods {
		t.Errorf("Overall.Source = %q, want %q", res.Overall.Source, SourceGoods)
	}
	if res.Overall.Name != "Тесто" {
		t.Errorf("Overall.Name = %q, want \"Тесто\"", res.Overall.Name)
	}
	if _, ok := res.BySource[SourceCompositions]; !ok {
		t.Error("BySource не содержит результата по составам")
	}
}

// TestResolve_ProductionPrefersCompositions проверяет порядок
// предпочтения для производства: сначала составы
func TestResolve_ProductionPrefersCompositions(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Resolve("тесто сдобное", DocProduction)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Overall.Source != SourceCompositions {
		t.Errorf("Overall.Source = %q, want %q", res.Overall.Source, SourceCompositions)
	}
	if res.Overall.Name != "Тесто сдобное" {
		t.Errorf("Overall.Name = %q, want \"Тесто сдобное\"", res.Overall.Name)
	}
}

// TestResolve_ProductionFallsBackToGoods проверяет откат в каталог,
// когда составы не проходят порог
func TestResolve_ProductionFallsBackToGoods(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Resolve("крутоны", DocProduction)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Overall.Source != SourceGoods || res.Overall.Name != "Крутоны" {
		t.Errorf("Overall = %+v, want Крутоны из каталога", res.Overall)
	}
	if !res.Accepted(r.MinScore()) {
		t.Errorf("совпадение должно пройти порог, score = %f", res.Overall.Score)
	}
}

// TestResolve_IncomeNeverLeavesGoods проверяет, что приход не уходит
// в составы даже при отсутствии проходного совпадения в каталоге
func TestResolve_IncomeNeverLeavesGoods(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Resolve("неизвестный товар который точно не в каталоге", DocIncome)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Overall.Source != SourceGoods {
		t.Errorf("Overall.Source = %q, want %q", res.Overall.Source, SourceGoods)
	}
	if res.Accepted(r.MinScore()) {
		t.Errorf("мусорный запрос не должен проходить порог, score = %f", res.Overall.Score)
	}
}

// TestResolve_ForcedOverride проверяет принудительную подстановку в селекторе
func TestResolve_ForcedOverride(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Resolve("хот", DocWriteoff)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Overall.Name != "КОЛБАСКИ ОХОТНИЧЬИ" || res.Overall.Score != 1.0 {
		t.Errorf("Overall = %+v, want принудительные КОЛБАСКИ ОХОТНИЧЬИ/1.0", res.Overall)
	}
	if res.Overall.Source != SourceGoods {
		t.Errorf("Overall.Source = %q, want %q", res.Overall.Source, SourceGoods)
	}

	// Подстановка не очищает результаты остальных справочников
	for _, source := range []Source{SourceCompositions, SourceProduction} {
		if _, found := res.BySource[source]; !found {
			t.Errorf("BySource не содержит результата по %q", source)
		}
	}
	if match := res.BySource[SourceGoods]; match.Name != "КОЛБАСКИ ОХОТНИЧЬИ" || match.Score != 1.0 {
		t.Errorf("BySource[goods] = %+v, want КОЛБАСКИ ОХОТНИЧЬИ/1.0", match)
	}
}

// TestResolve_OverrideNeedsConfirmation проверяет, что триггер без
// подтверждающей подстроки не подменяет обычный поиск
func TestResolve_OverrideNeedsConfirmation(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Resolve("хот дог", DocWriteoff)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Overall.Name == "КОЛБАСКИ ОХОТНИЧЬИ" && res.Overall.Score == 1.0 {
		t.Error("«хот дог» не должен принудительно подменяться на колбаски")
	}
}

// TestResolve_EmptyName проверяет отказ для пустого имени
func TestResolve_EmptyName(t *testing.T) {
	r := newTestRegistry(t)

	if _, err := r.Resolve("  ", DocIncome); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Resolve(пусто) error = %v, want ErrEmptyQuery", err)
	}
}

// TestParseDocType проверяет разбор типа документа
func TestParseDocType(t *testing.T) {
	for raw, want := range map[string]DocType{
		"production": DocProduction,
		"WRITEOFF":   DocWriteoff,
		" income ":   DocIncome,
	} {
		got, err := ParseDocType(raw)
		if err != nil || got != want {
			t.Errorf("ParseDocType(%q) = (%q, %v), want %q", raw, got, err, want)
		}
	}

	if _, err := ParseDocType("shipment"); err == nil {
		t.Error("ParseDocType(\"shipment\") должен вернуть ошибку")
	}
}
