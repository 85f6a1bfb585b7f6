package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/naga-cloud/mediadex/internal/domain"
)

// FromEvent builds the canonical Record for a raw media event. It is a pure
// transform: malformed input yields domain.ErrNoMedia, never a panic, and
// the caller decides whether to log and drop.
func FromEvent(ev Event, now time.Time) (Record, error) {
	if ev.Attachment == nil {
		return Record{}, domain.ErrNoMedia
	}

	rec := Record{
		Caption:      ev.Caption,
		ChannelID:    ev.ChannelID,
		ChannelTitle: ev.ChannelTitle,
		MessageID:    ev.MessageID,
		Date:         ev.Date,
		IndexedAt:    now,
	}

	switch a := ev.Attachment.(type) {
	case DocumentFile:
		rec.Kind = KindDocument
		rec.FileID, rec.UniqueID, rec.FileSize = a.FileID, a.UniqueID, a.Size
		rec.FileName = a.FileName
		rec.MIMEType = a.MIMEType

	case VideoFile:
		rec.Kind = KindVideo
		rec.FileID, rec.UniqueID, rec.FileSize = a.FileID, a.UniqueID, a.Size
		rec.FileName = a.FileName
		rec.MIMEType = a.MIMEType
		rec.Duration, rec.Width, rec.Height = a.Duration, a.Width, a.Height

	case AudioFile:
		rec.Kind = KindAudio
		rec.FileID, rec.UniqueID, rec.FileSize = a.FileID, a.UniqueID, a.Size
		rec.FileName = a.FileName
		rec.MIMEType = a.MIMEType
		rec.Duration = a.Duration
		rec.Performer, rec.Title = a.Performer, a.Title

	case PhotoSizes:
		largest, ok := largestVariant(a)
		if !ok {
			return Record{}, domain.ErrNoMedia
		}
		rec.Kind = KindPhoto
		rec.FileID, rec.UniqueID, rec.FileSize = largest.FileID, largest.UniqueID, largest.Size
		rec.Width, rec.Height = largest.Width, largest.Height

	case AnimationFile:
		rec.Kind = KindAnimation
		rec.FileID, rec.UniqueID, rec.FileSize = a.FileID, a.UniqueID, a.Size
		rec.FileName = a.FileName
		rec.MIMEType = a.MIMEType
		rec.Duration, rec.Width, rec.Height = a.Duration, a.Width, a.Height

	case VoiceFile:
		rec.Kind = KindVoice
		rec.FileID, rec.UniqueID, rec.FileSize = a.FileID, a.UniqueID, a.Size
		rec.MIMEType = a.MIMEType
		rec.Duration = a.Duration

	case VideoNoteFile:
		rec.Kind = KindVideoNote
		rec.FileID, rec.UniqueID, rec.FileSize = a.FileID, a.UniqueID, a.Size
		rec.Duration = a.Duration

	case StickerFile:
		rec.Kind = KindSticker
		rec.FileID, rec.UniqueID, rec.FileSize = a.FileID, a.UniqueID, a.Size
		rec.FileName = a.FileName
		rec.Width, rec.Height = a.Width, a.Height

	default:
		return Record{}, domain.ErrNoMedia
	}

	if rec.FileID == "" || rec.UniqueID == "" {
		return Record{}, fmt.Errorf("%w: attachment missing file reference", domain.ErrInvalidEvent)
	}

	if rec.FileName == "" {
		rec.FileName = synthesizeName(rec.Kind, ev.MessageID)
	}
	rec.FileName = sanitizeFileName(rec.FileName)

	return rec, nil
}

// largestVariant picks the photo variant with the greatest byte size.
func largestVariant(sizes PhotoSizes) (PhotoVariant, bool) {
	if len(sizes) == 0 {
		return PhotoVariant{}, false
	}
	best := sizes[0]
	for _, v := range sizes[1:] {
		if v.Size > best.Size {
			best = v
		}
	}
	return best, true
}

// synthesizeName produces a display name for attachments that carry none,
// using a kind-appropriate extension.
func synthesizeName(kind Kind, messageID int64) string {
	switch kind {
	case KindPhoto:
		return fmt.Sprintf("photo_%d.jpg", messageID)
	case KindVideo:
		return fmt.Sprintf("video_%d.mp4", messageID)
	case KindAudio:
		return fmt.Sprintf("audio_%d.mp3", messageID)
	case KindVoice:
		return fmt.Sprintf("voice_%d.ogg", messageID)
	case KindVideoNote:
		return fmt.Sprintf("video_note_%d.mp4", messageID)
	case KindAnimation:
		return fmt.Sprintf("animation_%d.gif", messageID)
	default:
		return fmt.Sprintf("file_%d", messageID)
	}
}

const maxFileNameLen = 200

var invalidNameChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", "\"", "_",
	"/", "_", "\\", "_", "|", "_", "?", "_", "*", "_",
)

// sanitizeFileName strips characters unsafe for display/storage and bounds
// the name length, preserving the extension where possible.
func sanitizeFileName(name string) string {
	name = invalidNameChars.Replace(name)
	if len(name) <= maxFileNameLen {
		return name
	}

	if dot := strings.LastIndex(name, "."); dot > 0 && len(name)-dot <= 10 {
		ext := name[dot:]
		return name[:maxFileNameLen-len(ext)] + ext
	}
	return name[:maxFileNameLen]
}
