package document

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Структуры нативного XML акта СБИС. Имена узлов и атрибутов
// кириллические, как их ожидает формат «АктВыпуска»/«АктСписания».

type fileXML struct {
	XMLName xml.Name    `xml:"Файл"`
	Version string      `xml:"ВерсияФормата,attr"`
	Format  string      `xml:"Формат,attr"`
	Doc     documentXML `xml:"Документ"`
}

type documentXML struct {
	Date      string           `xml:"Дата,attr"`
	Number    string           `xml:"Номер,attr"`
	Table     tableXML         `xml:"ТаблДок"`
	Sender    senderXML        `xml:"Отправитель"`
	Receiver  receiverXML      `xml:"Получатель"`
	Warehouse *warehouseTblXML `xml:"ТаблСклад,omitempty"`
}

type tableXML struct {
	Rows []rowXML `xml:"СтрТабл"`
}

type rowXML struct {
	Capacity   string         `xml:"Вместимость,attr"`
	Unit       string         `xml:"ЕдИзм,attr"`
	OrderCodes string         `xml:"ЗаказатьКодов,attr"`
	ID         string         `xml:"Идентификатор,attr"`
	Qty        string         `xml:"Кол_во,attr"`
	Name       string         `xml:"Название,attr"`
	OKEI       string         `xml:"ОКЕИ,attr"`
	LineNo     string         `xml:"ПорНомер,attr"`
	Sum        string         `xml:"Сумма,attr"`
	Price      string         `xml:"Цена,attr"`
	Components []componentXML `xml:"СоставСтрТабл,omitempty"`
}

type componentXML struct {
	Capacity string `xml:"Вместимость,attr"`
	Unit     string `xml:"ЕдИзм,attr"`
	ID       string `xml:"Идентификатор,attr"`
	Qty      string `xml:"Кол_во,attr"`
	QtyPlan  string `xml:"Кол_во_План,attr"`
	Name     string `xml:"Название,attr"`
	OKEI     string `xml:"ОКЕИ,attr"`
	LineNo   string `xml:"ПорНомер,attr"`
	Sum      string `xml:"Сумма,attr"`
	Price    string `xml:"Цена,attr"`
}

type senderXML struct {
	Title     string       `xml:"Название,attr"`
	Person    personXML    `xml:"СвФЛ"`
	Warehouse warehouseXML `xml:"Склад"`
}

type personXML struct {
	INN        string `xml:"ИНН,attr"`
	FirstName  string `xml:"Имя,attr"`
	Title      string `xml:"Название,attr"`
	MiddleName string `xml:"Отчество,attr"`
	Gender     string `xml:"Пол,attr"`
	LastName   string `xml:"Фамилия,attr"`
}

type warehouseXML struct {
	ID   string `xml:"Идентификатор,attr,omitempty"`
	Name string `xml:"Название,attr"`
}

type receiverXML struct {
	Warehouse warehouseXML `xml:"Склад"`
}

type warehouseTblXML struct {
	Row writeoffRowXML `xml:"СтрТабл"`
}

type writeoffRowXML struct {
	Purpose   string `xml:"Назначение,attr"`
	Recipient string `xml:"Получатель,attr"`
	Warehouse string `xml:"Склад,attr"`
	Account   string `xml:"Счет,attr"`
}

func (c Company) person() personXML {
	return personXML{
		INN:        c.INN,
		FirstName:  c.FirstName,
		Title:      c.Title,
		MiddleName: c.MiddleName,
		Gender:     "0",
		LastName:   c.LastName,
	}
}

// encodeWindows1251 сериализует документ и перекодирует его
// в windows-1251, как того требует импорт актов СБИС.
func encodeWindows1251(file *fileXML) ([]byte, error) {
	body, err := xml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("не удалось сериализовать XML акта: %w", err)
	}

	var buf bytes.Buffer
	writer := transform.NewWriter(&buf, charmap.Windows1251.NewEncoder())
	if _, err := writer.Write([]byte(`<?xml version="1.0" encoding="windows-1251"?>` + "\n")); err != nil {
		return nil, fmt.Errorf("не удалось записать объявление XML: %w", err)
	}
	if _, err := writer.Write(body); err != nil {
		return nil, fmt.Errorf("не удалось перекодировать XML в windows-1251: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("не удалось завершить перекодирование: %w", err)
	}

	return buf.Bytes(), nil
}
