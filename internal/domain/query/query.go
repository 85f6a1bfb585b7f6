// Package query parses raw search queries into search terms plus an
// optional canonical kind filter.
//
// Grammar: empty, "<text>", or "<text> | <type-token>". The type token maps
// through a fixed alias table; an unrecognized token is not an error, the
// query degrades to plain-text search on the terms alone.
package query

import (
	"strings"

	"github.com/naga-cloud/mediadex/internal/domain/record"
)

// Query is a parsed search query.
type Query struct {
	Terms   string
	Kind    record.Kind
	HasKind bool
}

// typeDelimiter separates search terms from the type token. The spaces are
// part of the literal: "cat | video" filters, "cat|video" does not.
const typeDelimiter = " | "

var kindAliases = map[string]record.Kind{
	"video":      record.KindVideo,
	"vid":        record.KindVideo,
	"movie":      record.KindVideo,
	"film":       record.KindVideo,
	"document":   record.KindDocument,
	"doc":        record.KindDocument,
	"pdf":        record.KindDocument,
	"book":       record.KindDocument,
	"audio":      record.KindAudio,
	"music":      record.KindAudio,
	"song":       record.KindAudio,
	"mp3":        record.KindAudio,
	"photo":      record.KindPhoto,
	"image":      record.KindPhoto,
	"pic":        record.KindPhoto,
	"picture":    record.KindPhoto,
	"animation":  record.KindAnimation,
	"gif":        record.KindAnimation,
	"voice":      record.KindVoice,
	"sticker":    record.KindSticker,
	"video_note": record.KindVideoNote,
	"videonote":  record.KindVideoNote,
	"round":      record.KindVideoNote,
}

// Parse splits a raw query into terms and an optional kind filter.
func Parse(raw string) Query {
	trimmed := strings.TrimSpace(raw)

	terms, token, found := strings.Cut(trimmed, typeDelimiter)
	if !found {
		return Query{Terms: trimmed}
	}

	// Unrecognized type tokens drop the filter but keep the terms. That is a
	// defined fallback, not an error.
	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(token))]
	return Query{Terms: strings.TrimSpace(terms), Kind: kind, HasKind: ok}
}
