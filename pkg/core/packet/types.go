// Package packet читает и пишет таблицы в формате TDTP:
// XML с описанием схемы и строками данных через разделитель "|".
package packet

import (
	"time"

	"github.com/google/uuid"
)

// MessageType тип TDTP сообщения
type MessageType string

const (
	TypeReference MessageType = "reference"
	TypeResponse  MessageType = "response"
)

// Протокол и версия, которые пишет генератор
const (
	Protocol = "TDTP"
	Version  = "1.0"
)

// DataPacket корневой элемент TDTP сообщения
type DataPacket struct {
	Protocol string `xml:"protocol,attr"`
	Version  string `xml:"version,attr"`
	Header   Header `xml:"Header"`
	Schema   Schema `xml:"Schema"`
	Data     Data   `xml:"Data"`
}

// Header метаданные сообщения
type Header struct {
	Type          MessageType `xml:"Type"`
	TableName     string      `xml:"TableName"`
	MessageID     string      `xml:"MessageID"`
	InReplyTo     string      `xml:"InReplyTo,omitempty"`
	PartNumber    int         `xml:"PartNumber,omitempty"`
	TotalParts    int         `xml:"TotalParts,omitempty"`
	RecordsInPart int         `xml:"RecordsInPart"`
	Timestamp     time.Time   `xml:"Timestamp"`
	Sender        string      `xml:"Sender,omitempty"`
}

// Schema описывает колонки таблицы
type Schema struct {
	Fields []Field `xml:"Field"`
}

// Field описание одной колонки
type Field struct {
	Name      string `xml:"name,attr"`
	Type      string `xml:"type,attr"`
	Length    int    `xml:"length,attr,omitempty"`
	Precision int    `xml:"precision,attr,omitempty"`
	Scale     int    `xml:"scale,attr,omitempty"`
}

// Data строки таблицы.
// При сжатии Rows содержит одну строку: base64(zstd(строки через "\n")).
type Data struct {
	Compression string `xml:"compression,attr,omitempty"`
	Checksum    string `xml:"checksum,attr,omitempty"`
	Rows        []Row  `xml:"R"`
}

// Row одна строка данных, значения через "|"
type Row struct {
	Value string `xml:",chardata"`
}

// NewDataPacket создает пакет с заполненным заголовком
func NewDataPacket(msgType MessageType, tableName string) *DataPacket {
	return &DataPacket{
		Protocol: Protocol,
		Version:  Version,
		Header: Header{
			Type:      msgType,
			TableName: tableName,
			MessageID: uuid.NewString(),
			Timestamp: time.Now().UTC(),
		},
	}
}
