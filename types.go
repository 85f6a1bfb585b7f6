package mediadex

import (
	"github.com/naga-cloud/mediadex/internal/domain/record"
	"github.com/naga-cloud/mediadex/internal/format"
	"github.com/naga-cloud/mediadex/internal/usecase/admin"
	"github.com/naga-cloud/mediadex/internal/usecase/ingest"
	"github.com/naga-cloud/mediadex/internal/usecase/search"
)

// Event is one raw media event delivered by the embedding application.
type Event = record.Event

// Attachment is the sum type over the media shapes an event can carry.
type Attachment = record.Attachment

// FileRef identifies the underlying bytes of an attachment.
type FileRef = record.FileRef

// Attachment shapes.
type (
	DocumentFile  = record.DocumentFile
	VideoFile     = record.VideoFile
	AudioFile     = record.AudioFile
	PhotoVariant  = record.PhotoVariant
	PhotoSizes    = record.PhotoSizes
	AnimationFile = record.AnimationFile
	VoiceFile     = record.VoiceFile
	VideoNoteFile = record.VideoNoteFile
	StickerFile   = record.StickerFile
)

// Kind classifies a stored record by media shape.
type Kind = record.Kind

// Record kinds.
const (
	KindDocument  = record.KindDocument
	KindVideo     = record.KindVideo
	KindAudio     = record.KindAudio
	KindPhoto     = record.KindPhoto
	KindAnimation = record.KindAnimation
	KindVoice     = record.KindVoice
	KindVideoNote = record.KindVideoNote
	KindSticker   = record.KindSticker
)

// IngestOutcome classifies what happened to an ingested event.
type IngestOutcome = ingest.Outcome

// Ingestion outcomes.
const (
	IngestInserted  = ingest.OutcomeInserted
	IngestDuplicate = ingest.OutcomeDuplicate
	IngestSkipped   = ingest.OutcomeSkipped
)

// SearchResponse is the outcome of a search request.
type SearchResponse = search.Response

// SearchStatus classifies the outcome of a search request.
type SearchStatus = search.Status

// Search outcomes.
const (
	SearchServed       = search.StatusServed
	SearchBanned       = search.StatusBanned
	SearchUnauthorized = search.StatusUnauthorized
	SearchNotMember    = search.StatusNotMember
	SearchRateLimited  = search.StatusRateLimited
)

// Entry is one rendered search result.
type Entry = format.Entry

// Totals is an aggregate view of the index and its usage.
type Totals = admin.Totals
