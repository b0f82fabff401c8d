package document

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Структуры JSON-RPC запроса «СБИС.ЗаписатьДокумент». Ключи
// кириллические, как их ожидает сервис.

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int       `json:"id"`
}

type rpcParams struct {
	Document rpcDocument `json:"Документ"`
}

type rpcDocument struct {
	Type         string          `json:"Тип"`
	Number       string          `json:"Номер"`
	Date         string          `json:"Дата"`
	Organization rpcOrganization `json:"НашаОрганизация"`
	Attachments  []rpcAttachment `json:"Вложение"`
}

type rpcOrganization struct {
	Person rpcPerson `json:"СвФЛ"`
}

type rpcPerson struct {
	INN        string `json:"ИНН"`
	FirstName  string `json:"Имя"`
	Title      string `json:"Название"`
	MiddleName string `json:"Отчество"`
	Gender     string `json:"Пол"`
	LastName   string `json:"Фамилия"`
}

type rpcAttachment struct {
	Type       string  `json:"Тип"`
	Subtype    string  `json:"Подтип"`
	Version    string  `json:"ВерсияФормата"`
	Subversion string  `json:"ПодверсияФормата"`
	Title      string  `json:"Название"`
	Encrypted  string  `json:"Зашифрован"`
	File       rpcFile `json:"Файл"`
}

type rpcFile struct {
	Name string `json:"Имя"`
	Data string `json:"ДвоичныеДанные"`
}

// buildPayload формирует JSON-RPC запрос с XML вложением в base64.
func buildPayload(kind Kind, docDate, docNumber string, xmlBytes []byte, company Company) ([]byte, error) {
	person := company.person()

	request := rpcRequest{
		JSONRPC: "2.0",
		Method:  "СБИС.ЗаписатьДокумент",
		Params: rpcParams{Document: rpcDocument{
			Type:   kind.SbisDocType,
			Number: docNumber,
			Date:   docDate,
			Organization: rpcOrganization{Person: rpcPerson{
				INN:        person.INN,
				FirstName:  person.FirstName,
				Title:      person.Title,
				MiddleName: person.MiddleName,
				Gender:     person.Gender,
				LastName:   person.LastName,
			}},
			Attachments: []rpcAttachment{{
				Type:       kind.AttachmentType,
				Subtype:    kind.AttachmentSubtype,
				Version:    kind.Version,
				Subversion: "",
				Title:      fmt.Sprintf("%s %s № %s", kind.TitlePrefix, docDate, docNumber),
				Encrypted:  "Нет",
				File: rpcFile{
					Name: fmt.Sprintf("%s%s.xml", kind.FilenamePrefix, docNumber),
					Data: base64.StdEncoding.EncodeToString(xmlBytes),
				},
			}},
		}},
		ID: 1,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("не удалось сериализовать JSON-RPC запрос: %w", err)
	}
	return payload, nil
}
