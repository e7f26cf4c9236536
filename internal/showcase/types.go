package showcase

import (
	"net/http"
	"time"
)

// MaxExcerptRunes caps the plain-text excerpt handed to the summarizer.
const MaxExcerptRunes = 1000

// ExcerptText is whitespace-collapsed visible page text, at most
// MaxExcerptRunes characters long.
type ExcerptText string

// FetchResult is the raw page returned by a Fetcher.
type FetchResult struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// ImageAsset is a downloaded illustration ready for upload.
type ImageAsset struct {
	Data      []byte
	Filename  string
	MIMEType  string
	SourceURL string
}

// Empty reports whether the asset carries no bytes.
func (a *ImageAsset) Empty() bool {
	return a == nil || len(a.Data) == 0
}

// Custom field keys written on every project entry.
const (
	FieldShort        = "description_short"
	FieldPresentation = "description_presentation"
	FieldTechno       = "description_techno"
)

// Field is a single custom field write.
type Field struct {
	Key   string
	Value string
}

// Fields holds the three formatted custom field values for an entry.
type Fields struct {
	Short        string
	Presentation string
	Techno       string
}

// List returns the fields in write order.
func (f Fields) List() []Field {
	return []Field{
		{Key: FieldShort, Value: f.Short},
		{Key: FieldPresentation, Value: f.Presentation},
		{Key: FieldTechno, Value: f.Techno},
	}
}

// URLStatus summarizes how far a URL got through the pipeline.
type URLStatus string

// URL outcomes recorded in reports.
const (
	URLPublished URLStatus = "published"
	URLPartial   URLStatus = "partial"
	URLSkipped   URLStatus = "skipped"
	URLAborted   URLStatus = "aborted"
)

// URLReport records the outcome of processing one source URL.
type URLReport struct {
	URL         string
	Title       string
	Status      URLStatus
	EntryID     string
	MediaID     string
	Summary     SummaryTriple
	Degraded    []ErrorKind
	FieldErrors map[string]error
	Err         error
	Duration    time.Duration
}
