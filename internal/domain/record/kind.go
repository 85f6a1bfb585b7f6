package record

// Kind is the canonical media category of a stored record.
type Kind string

const (
	// KindDocument is a generic file attachment.
	KindDocument Kind = "document"
	// KindVideo is a video file.
	KindVideo Kind = "video"
	// KindAudio is a music/audio file.
	KindAudio Kind = "audio"
	// KindPhoto is a still image.
	KindPhoto Kind = "photo"
	// KindAnimation is a short looping clip (GIF-style).
	KindAnimation Kind = "animation"
	// KindVoice is a recorded voice note.
	KindVoice Kind = "voice"
	// KindVideoNote is a round video note.
	KindVideoNote Kind = "video_note"
	// KindSticker is a sticker.
	KindSticker Kind = "sticker"
)

// Kinds lists every canonical kind, in stable order.
func Kinds() []Kind {
	return []Kind{
		KindDocument, KindVideo, KindAudio, KindPhoto,
		KindAnimation, KindVoice, KindVideoNote, KindSticker,
	}
}

// Valid reports whether k is one of the canonical kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDocument, KindVideo, KindAudio, KindPhoto,
		KindAnimation, KindVoice, KindVideoNote, KindSticker:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }
