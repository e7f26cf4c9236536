package showcase

import (
	"context"
	"time"
)

// Fetcher retrieves the raw markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
}

// Extractor reduces markup to a bounded excerpt.
type Extractor interface {
	Excerpt(markup string) ExcerptText
}

// Summarizer asks a text model for the summary segments of a page. The
// returned lines are non-empty but not padded.
type Summarizer interface {
	Summarize(ctx context.Context, url string, excerpt ExcerptText) ([]string, error)
}

// ImageGenerator asks an image model for an illustration and returns a
// short-lived URL to it.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Downloader fetches generated image bytes.
type Downloader interface {
	Download(ctx context.Context, url string) (*ImageAsset, error)
}

// Publisher writes project entries to the CMS.
type Publisher interface {
	UploadMedia(ctx context.Context, asset ImageAsset) (string, error)
	CreateEntry(ctx context.Context, title string) (string, error)
	AttachFeaturedImage(ctx context.Context, entryID, mediaID string) error
	SetCustomField(ctx context.Context, entryID string, field Field) error
}

// Clock returns the current time and measures stage latency.
type Clock interface {
	Now() time.Time
	Since(start time.Time) time.Duration
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewID() (string, error)
}
