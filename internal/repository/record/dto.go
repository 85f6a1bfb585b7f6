package record

import (
	"encoding/json"
	"strconv"
	"time"

	domrec "github.com/naga-cloud/mediadex/internal/domain/record"
)

// docJSON is the stored JSON shape of a record. Timestamps are unix seconds;
// channel_id is a string so the TAG field matches it exactly.
type docJSON struct {
	FileID       string `json:"file_id"`
	UniqueID     string `json:"file_unique_id"`
	FileName     string `json:"file_name"`
	FileSize     int64  `json:"file_size"`
	FileType     string `json:"file_type"`
	MIMEType     string `json:"mime_type,omitempty"`
	Caption      string `json:"caption,omitempty"`
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title,omitempty"`
	MessageID    int64  `json:"message_id"`
	Date         int64  `json:"date"`
	IndexedAt    int64  `json:"indexed_at"`
	Seq          int64  `json:"seq"`
	Duration     int    `json:"duration,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Performer    string `json:"performer,omitempty"`
	Title        string `json:"title,omitempty"`
}

func marshalRecord(rec *domrec.Record) ([]byte, error) {
	doc := docJSON{
		FileID:       rec.FileID,
		UniqueID:     rec.UniqueID,
		FileName:     rec.FileName,
		FileSize:     rec.FileSize,
		FileType:     string(rec.Kind),
		MIMEType:     rec.MIMEType,
		Caption:      rec.Caption,
		ChannelID:    strconv.FormatInt(rec.ChannelID, 10),
		ChannelTitle: rec.ChannelTitle,
		MessageID:    rec.MessageID,
		Date:         rec.Date.Unix(),
		IndexedAt:    rec.IndexedAt.Unix(),
		Seq:          rec.Seq,
		Duration:     rec.Duration,
		Width:        rec.Width,
		Height:       rec.Height,
		Performer:    rec.Performer,
		Title:        rec.Title,
	}
	return json.Marshal(doc)
}

func unmarshalRecord(data []byte) (domrec.Record, error) {
	var doc docJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return domrec.Record{}, err
	}

	channelID, _ := strconv.ParseInt(doc.ChannelID, 10, 64)

	return domrec.Record{
		FileID:       doc.FileID,
		UniqueID:     doc.UniqueID,
		FileName:     doc.FileName,
		FileSize:     doc.FileSize,
		Kind:         domrec.Kind(doc.FileType),
		MIMEType:     doc.MIMEType,
		Caption:      doc.Caption,
		ChannelID:    channelID,
		ChannelTitle: doc.ChannelTitle,
		MessageID:    doc.MessageID,
		Date:         time.Unix(doc.Date, 0).UTC(),
		IndexedAt:    time.Unix(doc.IndexedAt, 0).UTC(),
		Seq:          doc.Seq,
		Duration:     doc.Duration,
		Width:        doc.Width,
		Height:       doc.Height,
		Performer:    doc.Performer,
		Title:        doc.Title,
	}, nil
}
