package record

import "time"

// Attachment is the sum type over the mutually exclusive media shapes an
// event can carry. Each implementation holds only the attributes that apply
// to its kind; defaults are fixed at construction, so the builder never
// probes for optional fields at runtime.
type Attachment interface {
	attachmentKind() Kind
}

// FileRef identifies the underlying bytes of an attachment: the transport
// locator used to retrieve them and the content-derived unique id used for
// deduplication.
type FileRef struct {
	FileID   string // opaque transport locator
	UniqueID string // dedup key, stable across re-ingestion
	Size     int64
}

// DocumentFile is a generic file attachment.
type DocumentFile struct {
	FileRef
	FileName string
	MIMEType string
}

// VideoFile is a video attachment.
type VideoFile struct {
	FileRef
	FileName string
	MIMEType string
	Duration int // seconds
	Width    int
	Height   int
}

// AudioFile is a music/audio attachment.
type AudioFile struct {
	FileRef
	FileName  string
	MIMEType  string
	Duration  int // seconds
	Performer string
	Title     string
}

// PhotoVariant is one resolution variant of a photo.
type PhotoVariant struct {
	FileRef
	Width  int
	Height int
}

// PhotoSizes carries the resolution variants of a single photo. The builder
// selects the largest variant by byte size as canonical.
type PhotoSizes []PhotoVariant

// AnimationFile is a GIF-style looping clip.
type AnimationFile struct {
	FileRef
	FileName string
	MIMEType string
	Duration int
	Width    int
	Height   int
}

// VoiceFile is a recorded voice note.
type VoiceFile struct {
	FileRef
	MIMEType string
	Duration int
}

// VideoNoteFile is a round video note.
type VideoNoteFile struct {
	FileRef
	Duration int
}

// StickerFile is a sticker attachment.
type StickerFile struct {
	FileRef
	FileName string
	Width    int
	Height   int
}

func (DocumentFile) attachmentKind() Kind  { return KindDocument }
func (VideoFile) attachmentKind() Kind     { return KindVideo }
func (AudioFile) attachmentKind() Kind     { return KindAudio }
func (PhotoSizes) attachmentKind() Kind    { return KindPhoto }
func (AnimationFile) attachmentKind() Kind { return KindAnimation }
func (VoiceFile) attachmentKind() Kind     { return KindVoice }
func (VideoNoteFile) attachmentKind() Kind { return KindVideoNote }
func (StickerFile) attachmentKind() Kind   { return KindSticker }

// Event is one raw media event delivered by the upstream transport client:
// exactly one attachment plus its message context.
type Event struct {
	ChannelID    int64
	ChannelTitle string
	MessageID    int64
	Date         time.Time
	Caption      string
	Attachment   Attachment
}
