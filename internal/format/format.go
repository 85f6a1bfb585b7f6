// Package format renders search results for presentation: human-readable
// sizes and durations, capped entry lists and message deep links.
package format

import (
	"fmt"
	"strings"

	domrec "github.com/naga-cloud/mediadex/internal/domain/record"
)

// MaxEntries caps a rendered result list regardless of how many records the
// search returned.
const MaxEntries = 50

// maxNameLen bounds a rendered display name.
const maxNameLen = 64

// maxCaptionLen bounds a rendered caption.
const maxCaptionLen = 200

// Entry is one rendered search result.
type Entry struct {
	Name     string
	Caption  string
	Size     string
	Kind     domrec.Kind
	Link     string
	Duration string
}

// Entries renders records into display entries, capped at MaxEntries.
func Entries(records []domrec.Record) []Entry {
	if len(records) > MaxEntries {
		records = records[:MaxEntries]
	}

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, Entry{
			Name:     Truncate(rec.FileName, maxNameLen),
			Caption:  Truncate(rec.Caption, maxCaptionLen),
			Size:     Size(rec.FileSize),
			Kind:     rec.Kind,
			Link:     FileLink(rec.ChannelID, rec.MessageID),
			Duration: Duration(rec.Duration),
		})
	}
	return entries
}

// Size renders a byte count with binary units and one decimal place.
// Zero or negative sizes render as "Unknown".
func Size(bytes int64) string {
	if bytes <= 0 {
		return "Unknown"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	for _, unit := range units {
		if size < 1024 {
			if unit == "B" {
				return fmt.Sprintf("%d B", bytes)
			}
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f PB", size)
}

// Duration renders seconds as "XhYmZs", omitting leading zero components.
// Zero or negative durations render empty.
func Duration(seconds int) string {
	if seconds <= 0 {
		return ""
	}

	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60

	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m > 0 || h > 0 {
		fmt.Fprintf(&b, "%dm", m)
	}
	fmt.Fprintf(&b, "%ds", s)
	return b.String()
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// FileLink builds a deep link to the message carrying the file. Private
// channel ids carry a -100 prefix on the wire; their link form drops the
// prefix and routes through /c/. Public channel ids link directly.
func FileLink(channelID, messageID int64) string {
	if messageID <= 0 {
		return ""
	}

	if channelID < 0 {
		id := fmt.Sprintf("%d", -channelID)
		id = strings.TrimPrefix(id, "100")
		return fmt.Sprintf("https://t.me/c/%s/%d", id, messageID)
	}
	return fmt.Sprintf("https://t.me/%d/%d", channelID, messageID)
}
