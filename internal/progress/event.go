package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes which pipeline step an Event describes.
type Stage string

// Supported pipeline stages.
const (
	StageRunStart      Stage = "RUN_START"
	StageRunDone       Stage = "RUN_DONE"
	StageFetch         Stage = "FETCH"
	StageExtract       Stage = "EXTRACT"
	StageSummarize     Stage = "SUMMARIZE"
	StageGenerateImage Stage = "GENERATE_IMAGE"
	StageDownloadImage Stage = "DOWNLOAD_IMAGE"
	StageUploadMedia   Stage = "UPLOAD_MEDIA"
	StageCreateEntry   Stage = "CREATE_ENTRY"
	StageAttachImage   Stage = "ATTACH_IMAGE"
	StageSetField      Stage = "SET_FIELD"
	StageURLDone       Stage = "URL_DONE"
)

// Outcome records how a stage ended.
type Outcome string

// Supported outcomes.
const (
	OutcomeOK       Outcome = "ok"
	OutcomeDegraded Outcome = "degraded"
	OutcomeFailed   Outcome = "failed"
	OutcomeSkipped  Outcome = "skipped"
)

// StatusClass is a coarse HTTP response grouping.
type StatusClass string

// Supported HTTP status classes tracked for fetch completions.
const (
	Status2xx   StatusClass = "2xx"
	Status3xx   StatusClass = "3xx"
	Status4xx   StatusClass = "4xx"
	Status5xx   StatusClass = "5xx"
	StatusOther StatusClass = "other"
)

// Event captures one stage outcome for one URL.
type Event struct {
	// RunID identifies the run using the 16-byte UUID form.
	RunID [16]byte
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which pipeline step occurred.
	Stage Stage
	// Outcome tells whether the step succeeded, degraded, or failed.
	Outcome Outcome
	// URL is the source URL being processed; empty for run events.
	URL string
	// Site is the derived entry title, used as a low-cardinality label.
	Site string
	// Bytes carries payload sizes (page body, image bytes).
	Bytes int64
	// StatusClass groups HTTP response codes for fetch events.
	StatusClass StatusClass
	// Dur captures stage latency.
	Dur time.Duration
	// Note carries low-volume context such as an error message or field key.
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone:
	case StageFetch, StageExtract, StageSummarize, StageGenerateImage, StageDownloadImage,
		StageUploadMedia, StageCreateEntry, StageAttachImage, StageSetField, StageURLDone:
		if e.URL == "" {
			return fmt.Errorf("stage %s requires url", e.Stage)
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	switch e.Outcome {
	case OutcomeOK, OutcomeDegraded, OutcomeFailed, OutcomeSkipped:
	default:
		return fmt.Errorf("unknown outcome %q", e.Outcome)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run ID to uuid.UUID.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}

// ClassifyStatus groups HTTP status codes for fetch events.
func ClassifyStatus(code int) StatusClass {
	switch {
	case code >= 200 && code < 300:
		return Status2xx
	case code >= 300 && code < 400:
		return Status3xx
	case code >= 400 && code < 500:
		return Status4xx
	case code >= 500 && code < 600:
		return Status5xx
	default:
		return StatusOther
	}
}
