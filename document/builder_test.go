package document

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/vipfat/Sbis-Yen/catalog"
	"github.com/vipfat/Sbis-Yen/intake"
	"github.com/vipfat/Sbis-Yen/matching"
)

func testCompany() Company {
	return Company{
		INN:             "940200200247",
		Title:           "Плетнев Сергей Юрьевич, ИП, точка продаж",
		FirstName:       "Сергей",
		MiddleName:      "Юрьевич",
		LastName:        "Плетнев",
		WarehouseID:     "284",
		WarehouseName:   "ИП Плетнев",
		RecipientName:   "Фирлесс, ООО",
		Account:         "20-01",
		WriteoffPurpose: "Списание материально-производственных запасов на затраты",
	}
}

func testBuilder(t *testing.T) *Builder {
	t.Helper()

	stemmer := matching.NewRussianStemmer()
	registry := catalog.NewRegistry(catalog.Params{
		Stemmer: stemmer,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	goods := []catalog.Entry{
		{Name: "Тесто", Code: "101", Unit: "кг", Price: 80},
		{Name: "Бекон", Code: "103", Unit: "кг", Price: 540.5},
		{Name: "Капуста", Code: "104", Unit: "кг", Price: 45},
	}
	production := []catalog.Entry{
		{Name: "Тесто сдобное", Code: "Т-01", Unit: "кг", Price: 150},
	}
	recipes := catalog.NewRecipeBook([]catalog.Recipe{{
		ParentName: "Тесто сдобное",
		ParentCode: "Т-01",
		BaseOutput: 10,
		Components: []catalog.Component{
			{Name: "Мука", Code: "201", Unit: "кг", BaseQty: 7},
			{Name: "Вода", Code: "202", Unit: "л", BaseQty: 3},
		},
	}})

	registry.Swap([]*catalog.Catalog{
		catalog.New(catalog.SourceCompositions, []catalog.Entry{{Name: "Тесто сдобное", Code: "Т-01", Unit: "кг"}}, stemmer),
		catalog.New(catalog.SourceProduction, production, stemmer),
		catalog.New(catalog.SourceGoods, goods, stemmer),
	}, recipes)

	return NewBuilder(registry, testCompany(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// decodeXML перекодирует вложение из windows-1251 обратно в UTF-8
func decodeXML(t *testing.T, raw []byte) string {
	t.Helper()

	decoded, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), raw)
	if err != nil {
		t.Fatalf("не удалось декодировать windows-1251: %v", err)
	}
	return string(decoded)
}

// TestBuildAct_Income проверяет сборку акта прихода по каталогу
func TestBuildAct_Income(t *testing.T) {
	b := testBuilder(t)

	result, err := b.BuildAct(catalog.DocIncome, "15.11.2025", "42", []intake.Item{
		{Name: "бекон", Qty: 2.5},
	})
	if err != nil {
		t.Fatalf("BuildAct() error = %v", err)
	}
	if !result.Ok() {
		t.Fatalf("Unresolved = %v, want пусто", result.Unresolved)
	}

	xmlText := decodeXML(t, result.XML)
	for _, want := range []string{
		`<?xml version="1.0" encoding="windows-1251"?>`,
		`Формат="1115131"`,
		`ВерсияФормата="5.03"`,
		`Дата="15.11.2025"`,
		`Номер="42"`,
		`Название="Бекон"`,
		`Идентификатор="103"`,
		`Кол_во="2.5"`,
		`ОКЕИ="166"`,
	} {
		if !strings.Contains(xmlText, want) {
			t.Errorf("XML не содержит %s:\n%s", want, xmlText)
		}
	}

	// Приход не содержит причины списания
	if strings.Contains(xmlText, "ТаблСклад") {
		t.Error("акт прихода не должен содержать ТаблСклад")
	}
}

// TestBuildAct_ProductionRecipe проверяет разворачивание состава
// в строках производства
func TestBuildAct_ProductionRecipe(t *testing.T) {
	b := testBuilder(t)

	result, err := b.BuildAct(catalog.DocProduction, "15.11.2025", "7", []intake.Item{
		{Name: "тесто сдобное", Qty: 25},
	})
	if err != nil {
		t.Fatalf("BuildAct() error = %v", err)
	}
	if !result.Ok() {
		t.Fatalf("Unresolved = %v, want пусто", result.Unresolved)
	}

	xmlText := decodeXML(t, result.XML)
	for _, want := range []string{
		`Формат="АктВыпуска"`,
		`ВерсияФормата="3.01"`,
		`Название="Тесто сдобное"`,
		`Идентификатор="Т-01"`,
		`Кол_во="25"`,
		`<СоставСтрТабл`,
		`Название="Мука"`,
		`Кол_во="17.500000"`,
		`Кол_во_План="17.500000"`,
		`Название="Вода"`,
		`Кол_во="7.500000"`,
	} {
		if !strings.Contains(xmlText, want) {
			t.Errorf("XML не содержит %s:\n%s", want, xmlText)
		}
	}
}

// TestBuildAct_ProductionFallsBackToGoods проверяет откат в каталог,
// когда позиции нет в составах
func TestBuildAct_ProductionFallsBackToGoods(t *testing.T) {
	b := testBuilder(t)

	result, err := b.BuildAct(catalog.DocProduction, "15.11.2025", "8", []intake.Item{
		{Name: "капуста", Qty: 3},
	})
	if err != nil {
		t.Fatalf("BuildAct() error = %v", err)
	}
	if !result.Ok() {
		t.Fatalf("Unresolved = %v, want пусто", result.Unresolved)
	}

	xmlText := decodeXML(t, result.XML)
	if !strings.Contains(xmlText, `Название="Капуста"`) || !strings.Contains(xmlText, `Идентификатор="104"`) {
		t.Errorf("позиция не сопоставлена с каталогом:\n%s", xmlText)
	}
	if strings.Contains(xmlText, "СоставСтрТабл") {
		t.Error("строка каталога не должна содержать состав")
	}
}

// TestBuildAct_WriteoffReason проверяет причину списания
func TestBuildAct_WriteoffReason(t *testing.T) {
	b := testBuilder(t)

	result, err := b.BuildAct(catalog.DocWriteoff, "15.11.2025", "9", []intake.Item{
		{Name: "бекон", Qty: 1},
	})
	if err != nil {
		t.Fatalf("BuildAct() error = %v", err)
	}

	xmlText := decodeXML(t, result.XML)
	for _, want := range []string{
		`Формат="АктСписания"`,
		`<ТаблСклад>`,
		`Счет="20-01"`,
		`Получатель="Фирлесс, ООО"`,
	} {
		if !strings.Contains(xmlText, want) {
			t.Errorf("XML не содержит %s:\n%s", want, xmlText)
		}
	}
}

// TestBuildAct_Unresolved проверяет накопление нераспознанных позиций
// без прерывания сборки
func TestBuildAct_Unresolved(t *testing.T) {
	b := testBuilder(t)

	result, err := b.BuildAct(catalog.DocIncome, "15.11.2025", "10", []intake.Item{
		{Name: "бекон", Qty: 1},
		{Name: "жидкий азот технический", Qty: 2},
		{Name: "капуста", Qty: 3},
	})
	if err != nil {
		t.Fatalf("BuildAct() error = %v", err)
	}

	if len(result.Unresolved) != 1 {
		t.Fatalf("len(Unresolved) = %d, want 1", len(result.Unresolved))
	}
	notFound := result.Unresolved[0]
	if notFound.ItemIndex != 1 {
		t.Errorf("ItemIndex = %d, want 1", notFound.ItemIndex)
	}
	if result.UnresolvedError() == nil {
		t.Error("UnresolvedError() = nil, want ошибку")
	}

	// Распознанные позиции вошли в акт с последовательными номерами
	xmlText := decodeXML(t, result.XML)
	if !strings.Contains(xmlText, `Название="Бекон"`) || !strings.Contains(xmlText, `Название="Капуста"`) {
		t.Errorf("распознанные позиции должны войти в акт:\n%s", xmlText)
	}
	if !strings.Contains(xmlText, `ПорНомер="2"`) {
		t.Errorf("номера строк должны идти подряд:\n%s", xmlText)
	}
}

// TestBuildAct_ZeroQuantity проверяет пропуск позиций с нулевым количеством
func TestBuildAct_ZeroQuantity(t *testing.T) {
	b := testBuilder(t)

	result, err := b.BuildAct(catalog.DocIncome, "15.11.2025", "11", []intake.Item{
		{Name: "бекон", Qty: 0},
	})
	if err != nil {
		t.Fatalf("BuildAct() error = %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v, want одно предупреждение", result.Warnings)
	}
	if bytes.Contains(result.XML, []byte("103")) {
		t.Error("позиция с нулевым количеством не должна попасть в акт")
	}
}

// TestBuildAct_Payload проверяет JSON-RPC запрос с вложением
func TestBuildAct_Payload(t *testing.T) {
	b := testBuilder(t)

	result, err := b.BuildAct(catalog.DocWriteoff, "15.11.2025", "12", []intake.Item{
		{Name: "бекон", Qty: 1},
	})
	if err != nil {
		t.Fatalf("BuildAct() error = %v", err)
	}

	var request struct {
		JSONRPC string `json:"jsonrpc"`
		Method  string `json:"method"`
		Params  struct {
			Document struct {
				Type        string `json:"Тип"`
				Number      string `json:"Номер"`
				Attachments []struct {
					Type    string `json:"Тип"`
					Subtype string `json:"Подтип"`
					Version string `json:"ВерсияФормата"`
					File    struct {
						Name string `json:"Имя"`
						Data string `json:"ДвоичныеДанные"`
					} `json:"Файл"`
				} `json:"Вложение"`
			} `json:"Документ"`
		} `json:"params"`
	}
	if err := json.Unmarshal(result.Payload, &request); err != nil {
		t.Fatalf("payload не разбирается как JSON: %v", err)
	}

	if request.JSONRPC != "2.0" || request.Method != "СБИС.ЗаписатьДокумент" {
		t.Errorf("запрос = (%q, %q), want (2.0, СБИС.ЗаписатьДокумент)", request.JSONRPC, request.Method)
	}
	doc := request.Params.Document
	if doc.Type != "АктСписания" || doc.Number != "12" {
		t.Errorf("документ = (%q, %q), want (АктСписания, 12)", doc.Type, doc.Number)
	}
	if len(doc.Attachments) != 1 {
		t.Fatalf("len(Вложение) = %d, want 1", len(doc.Attachments))
	}
	att := doc.Attachments[0]
	if att.Type != "АктСписания" || att.Version != "3.01" {
		t.Errorf("вложение = (%q, %q), want (АктСписания, 3.01)", att.Type, att.Version)
	}
	if att.File.Name != "act_wr_12.xml" {
		t.Errorf("имя файла = %q, want \"act_wr_12.xml\"", att.File.Name)
	}

	decoded, err := base64.StdEncoding.DecodeString(att.File.Data)
	if err != nil {
		t.Fatalf("вложение не декодируется из base64: %v", err)
	}
	if !bytes.Equal(decoded, result.XML) {
		t.Error("вложение не совпадает с XML акта")
	}
}

// TestKindFor проверяет настройки типов документов
func TestKindFor(t *testing.T) {
	income, err := KindFor(catalog.DocIncome)
	if err != nil {
		t.Fatalf("KindFor(income) error = %v", err)
	}
	if income.AttachmentType != "УпдДоп" || income.AttachmentSubtype != "1115131" || income.Version != "5.03" {
		t.Errorf("income = %+v, want УпдДоп/1115131/5.03", income)
	}

	if _, err := KindFor(catalog.DocType("shipment")); err == nil {
		t.Error("KindFor(shipment) должен вернуть ошибку")
	}
}
