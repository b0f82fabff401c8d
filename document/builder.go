package document

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vipfat/Sbis-Yen/catalog"
	"github.com/vipfat/Sbis-Yen/intake"
)

// Builder собирает акты из распознанных позиций по текущему
// снапшоту справочников.
type Builder struct {
	registry *catalog.Registry
	company  Company
	logger   *slog.Logger
}

// NewBuilder создает сборщик документов.
func NewBuilder(registry *catalog.Registry, company Company, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{registry: registry, company: company, logger: logger}
}

// BuildResult результат сборки акта. Unresolved перечисляет позиции,
// которые не прошли порог сопоставления, в порядке исходного списка.
type BuildResult struct {
	DocType    catalog.DocType
	Date       string
	Number     string
	XML        []byte
	Payload    []byte
	Warnings   []string
	Unresolved []*catalog.NotFoundError
}

// Ok сообщает, все ли позиции были сопоставлены.
func (res *BuildResult) Ok() bool {
	return len(res.Unresolved) == 0
}

// UnresolvedError возвращает накопленные ошибки сопоставления одним
// значением или nil, если все позиции распознаны.
func (res *BuildResult) UnresolvedError() error {
	if len(res.Unresolved) == 0 {
		return nil
	}
	return &catalog.UnresolvedError{Errors: res.Unresolved}
}

// BuildAct собирает акт указанного типа: XML вложение и JSON-RPC
// запрос для отправки. Позиции с пустым названием и нулевым
// количеством пропускаются с предупреждением; позиции ниже порога
// сопоставления попадают в Unresolved, не прерывая сборку.
func (b *Builder) BuildAct(docType catalog.DocType, docDate, docNumber string, items []intake.Item) (*BuildResult, error) {
	kind, err := KindFor(docType)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{DocType: docType, Date: docDate, Number: docNumber}

	var rows []rowXML
	lineNo := 1
	for i, item := range items {
		if item.Name == "" {
			continue
		}
		if item.Qty == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("позиция %q пропущена: нулевое количество", item.Name))
			continue
		}

		var row *rowXML
		if docType == catalog.DocIncome {
			row, err = b.buildGoodsRow(item, lineNo, i)
		} else {
			row, err = b.buildProductionRow(docType, item, lineNo, i)
		}
		if err != nil {
			var notFound *catalog.NotFoundError
			if errors.As(err, &notFound) {
				result.Unresolved = append(result.Unresolved, notFound)
				continue
			}
			return nil, err
		}

		rows = append(rows, *row)
		lineNo++
	}

	file := &fileXML{
		Version: kind.Version,
		Format:  kind.FileFormat,
		Doc: documentXML{
			Date:   docDate,
			Number: docNumber,
			Table:  tableXML{Rows: rows},
			Sender: senderXML{
				Title:  b.company.Title,
				Person: b.company.person(),
				Warehouse: warehouseXML{
					ID:   b.company.WarehouseID,
					Name: b.company.WarehouseName,
				},
			},
			Receiver: receiverXML{
				Warehouse: warehouseXML{Name: b.company.WarehouseName},
			},
		},
	}

	// Для списания указывается причина
	if docType == catalog.DocWriteoff {
		file.Doc.Warehouse = &warehouseTblXML{Row: writeoffRowXML{
			Purpose:   b.company.WriteoffPurpose,
			Recipient: b.company.RecipientName,
			Warehouse: b.company.WarehouseName,
			Account:   b.company.Account,
		}}
	}

	result.XML, err = encodeWindows1251(file)
	if err != nil {
		return nil, err
	}

	result.Payload, err = buildPayload(kind, docDate, docNumber, result.XML, b.company)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// buildGoodsRow строит строку прихода: только каталог закупаемых
// товаров, без составов.
func (b *Builder) buildGoodsRow(item intake.Item, lineNo, itemIndex int) (*rowXML, error) {
	entry, score, err := b.registry.Lookup(catalog.SourceGoods, item.Name, b.registry.MinScore())
	if err != nil {
		return nil, markItem(err, itemIndex)
	}

	b.logger.Debug("позиция сопоставлена с каталогом",
		"query", item.Name, "name", entry.Name, "score", score)

	return &rowXML{
		Capacity:   "0",
		Unit:       entry.Unit,
		OrderCodes: "0",
		ID:         entry.Code,
		Qty:        intake.FormatQuantity(item.Qty),
		Name:       entry.Name,
		OKEI:       entry.UnitCode,
		LineNo:     strconv.Itoa(lineNo),
		Sum:        "0.00",
		Price:      "0.00",
	}, nil
}

// buildProductionRow строит строку производства или списания:
// сначала пробует состав полуфабриката, при неудаче идет в каталог.
func (b *Builder) buildProductionRow(docType catalog.DocType, item intake.Item, lineNo, itemIndex int) (*rowXML, error) {
	recipes := b.registry.Recipes()
	production, _ := b.registry.Catalog(catalog.SourceProduction)

	scaled, err := recipes.ComponentsForOutput(b.registry.Scorer(), production,
		item.Name, item.Qty, b.registry.MinScore())
	if err == nil {
		return b.recipeRow(scaled, lineNo), nil
	}

	b.logger.Warn("позиции нет в реестре составов, ищу в каталоге",
		"query", item.Name, "reason", err.Error())

	entry, score, err := b.registry.Lookup(catalog.SourceGoods, item.Name, b.registry.MinScore())
	if err != nil {
		return nil, markItem(err, itemIndex)
	}

	b.logger.Debug("позиция сопоставлена с каталогом",
		"query", item.Name, "name", entry.Name, "score", score)

	return &rowXML{
		Capacity:   "0",
		Unit:       entry.Unit,
		OrderCodes: "0",
		ID:         entry.Code,
		Qty:        intake.FormatQuantity(item.Qty),
		Name:       entry.Name,
		OKEI:       entry.UnitCode,
		LineNo:     strconv.Itoa(lineNo),
		Sum:        "0.00",
		Price:      "0.00",
	}, nil
}

// recipeRow строит строку родителя с пересчитанным составом.
func (b *Builder) recipeRow(scaled *catalog.ScaledRecipe, lineNo int) *rowXML {
	row := &rowXML{
		Capacity:   "0",
		Unit:       scaled.ParentUnit,
		OrderCodes: "0",
		ID:         scaled.ParentCode,
		Qty:        intake.FormatQuantity(scaled.OutputQty),
		Name:       scaled.ParentName,
		OKEI:       scaled.ParentUnitCode,
		LineNo:     strconv.Itoa(lineNo),
		Sum:        "0.00",
		Price:      "0.00",
	}

	for i, comp := range scaled.Components {
		row.Components = append(row.Components, componentXML{
			Capacity: "0",
			Unit:     comp.Unit,
			ID:       comp.Code,
			Qty:      strconv.FormatFloat(comp.Qty, 'f', 6, 64),
			QtyPlan:  strconv.FormatFloat(comp.Qty, 'f', 6, 64),
			Name:     comp.Name,
			OKEI:     comp.UnitCode,
			LineNo:   strconv.Itoa(i + 1),
			Sum:      "0.00",
			Price:    "0.00",
		})
	}

	return row
}

// markItem проставляет индекс исходной позиции в ошибке сопоставления.
func markItem(err error, itemIndex int) error {
	var notFound *catalog.NotFoundError
	if errors.As(err, &notFound) {
		notFound.ItemIndex = itemIndex
		return notFound
	}
	return err
}
