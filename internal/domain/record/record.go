package record

import "time"

// Record is the canonical representation of one indexed media object.
// A Record is created on first ingestion of its UniqueID and never updated;
// later ingestions of the same key are discarded by the store.
type Record struct {
	FileID       string // transport locator
	UniqueID     string // dedup key
	FileName     string
	FileSize     int64
	Kind         Kind
	MIMEType     string
	Caption      string
	ChannelID    int64
	ChannelTitle string
	MessageID    int64
	Date         time.Time
	IndexedAt    time.Time

	// Seq is the internal insertion id, assigned by the store on first
	// insert. Text search results are ordered by it.
	Seq int64

	// Kind-specific attributes; zero when not applicable.
	Duration  int // seconds
	Width     int
	Height    int
	Performer string
	Title     string
}
