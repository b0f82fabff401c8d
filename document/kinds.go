// Package document собирает акты СБИС: формирует XML вложения
// в кодировке windows-1251 и JSON-RPC запрос «СБИС.ЗаписатьДокумент».
package document

import (
	"fmt"

	"github.com/vipfat/Sbis-Yen/catalog"
)

// Kind настройки типа документа СБИС. Тройка AttachmentType /
// AttachmentSubtype / Version складывается сервисом в строку формата
// вложения, например «УпдДоп/1115131/5.03».
type Kind struct {
	SbisDocType       string
	FileFormat        string
	AttachmentType    string
	AttachmentSubtype string
	Version           string
	TitlePrefix       string
	FilenamePrefix    string
}

// production / writeoff - внутренние акты (3.01),
// income - входящий отгрузочный с УПД (КНД 1115131, версия 5.03)
var kinds = map[catalog.DocType]Kind{
	catalog.DocProduction: {
		SbisDocType:       "АктВыпуска",
		FileFormat:        "АктВыпуска",
		AttachmentType:    "АктВыпуска",
		AttachmentSubtype: "АктВыпуска",
		Version:           "3.01",
		TitlePrefix:       "Акт выпуска",
		FilenamePrefix:    "act_prod_",
	},
	catalog.DocWriteoff: {
		SbisDocType:       "АктСписания",
		FileFormat:        "АктСписания",
		AttachmentType:    "АктСписания",
		AttachmentSubtype: "АктСписания",
		Version:           "3.01",
		TitlePrefix:       "Акт списания",
		FilenamePrefix:    "act_wr_",
	},
	catalog.DocIncome: {
		SbisDocType:       "ДокОтгрВх",
		FileFormat:        "1115131",
		AttachmentType:    "УпдДоп",
		AttachmentSubtype: "1115131",
		Version:           "5.03",
		TitlePrefix:       "Поступление",
		FilenamePrefix:    "income_",
	},
}

// KindFor возвращает настройки документа для типа docType.
func KindFor(docType catalog.DocType) (Kind, error) {
	kind, ok := kinds[docType]
	if !ok {
		return Kind{}, fmt.Errorf("неизвестный тип документа: %q", docType)
	}
	return kind, nil
}

// Company реквизиты организации, от имени которой собираются акты.
type Company struct {
	INN             string `json:"inn"`
	Title           string `json:"title"`
	FirstName       string `json:"first_name"`
	MiddleName      string `json:"middle_name"`
	LastName        string `json:"last_name"`
	WarehouseID     string `json:"warehouse_id"`
	WarehouseName   string `json:"warehouse_name"`
	RecipientName   string `json:"recipient_name"`
	Account         string `json:"account"`
	WriteoffPurpose string `json:"writeoff_purpose"`
}
