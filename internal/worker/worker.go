// Package worker implements the per-URL publishing loop: fetch, extract,
// summarize, illustrate, and publish, one URL at a time.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JakeFAU/showcase-publisher/internal/logging"
	"github.com/JakeFAU/showcase-publisher/internal/progress"
	"github.com/JakeFAU/showcase-publisher/internal/showcase"
)

// Deps wires the stage adapters into the Worker. Emitter and Logger are
// optional.
type Deps struct {
	Fetcher    showcase.Fetcher
	Extractor  showcase.Extractor
	Summarizer showcase.Summarizer
	Images     showcase.ImageGenerator
	Downloader showcase.Downloader
	Publisher  showcase.Publisher
	Clock      showcase.Clock
	IDs        showcase.IDGenerator
	Emitter    progress.Emitter
	Logger     *zap.Logger
}

// Worker runs the publishing pipeline over a list of URLs.
type Worker struct {
	fetcher    showcase.Fetcher
	extractor  showcase.Extractor
	summarizer showcase.Summarizer
	images     showcase.ImageGenerator
	downloader showcase.Downloader
	publisher  showcase.Publisher
	clock      showcase.Clock
	ids        showcase.IDGenerator
	emitter    progress.Emitter
	logger     *zap.Logger
}

// New constructs a Worker. Every stage adapter is required.
func New(deps Deps) (*Worker, error) {
	for _, dep := range []struct {
		name    string
		missing bool
	}{
		{"fetcher", deps.Fetcher == nil},
		{"extractor", deps.Extractor == nil},
		{"summarizer", deps.Summarizer == nil},
		{"images", deps.Images == nil},
		{"downloader", deps.Downloader == nil},
		{"publisher", deps.Publisher == nil},
		{"clock", deps.Clock == nil},
		{"ids", deps.IDs == nil},
	} {
		if dep.missing {
			return nil, fmt.Errorf("worker: %s is required", dep.name)
		}
	}
	if deps.Emitter == nil {
		deps.Emitter = progress.Discard{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Worker{
		fetcher:    deps.Fetcher,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		images:     deps.Images,
		downloader: deps.Downloader,
		publisher:  deps.Publisher,
		clock:      deps.Clock,
		ids:        deps.IDs,
		emitter:    deps.Emitter,
		logger:     deps.Logger,
	}, nil
}

// run carries per-run identity into every stage.
type run struct {
	id     string
	raw    [16]byte
	logger *zap.Logger
}

// Run processes urls strictly in order. Failures are confined to the URL
// they happen on; only a canceled ctx stops the loop early, in which case
// the remaining URLs are left out of the report.
func (w *Worker) Run(ctx context.Context, urls []string) (Report, error) {
	id, err := w.ids.NewID()
	if err != nil {
		return Report{}, fmt.Errorf("new run id: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Report{}, fmt.Errorf("parse run id: %w", err)
	}
	r := &run{id: id, raw: progress.UUIDToBytes(parsed), logger: w.logger.With(zap.String("run_id", id))}

	start := w.clock.Now()
	report := Report{RunID: id, StartedAt: start}
	w.emit(ctx, r, progress.Event{Stage: progress.StageRunStart, Outcome: progress.OutcomeOK})
	r.logger.Info("Run started", zap.Int("urls", len(urls)))

	for _, url := range urls {
		if ctx.Err() != nil {
			report.Canceled = true
			r.logger.Warn("Run canceled", zap.Error(ctx.Err()))
			break
		}
		report.URLs = append(report.URLs, w.processURL(ctx, r, url))
	}

	report.Duration = w.clock.Since(start)
	w.emit(ctx, r, progress.Event{Stage: progress.StageRunDone, Outcome: progress.OutcomeOK, Dur: report.Duration})
	r.logger.Info("Run finished",
		zap.Int("published", report.Count(showcase.URLPublished)),
		zap.Int("partial", report.Count(showcase.URLPartial)),
		zap.Int("skipped", report.Count(showcase.URLSkipped)),
		zap.Int("aborted", report.Count(showcase.URLAborted)),
		zap.Duration("dur", report.Duration),
	)
	return report, nil
}

// processURL drives one URL through every stage and reports how far it got.
func (w *Worker) processURL(ctx context.Context, r *run, url string) (report showcase.URLReport) {
	start := w.clock.Now()
	report = showcase.URLReport{URL: url, Title: showcase.DeriveTitle(url)}
	logger := logging.ForURL(w.logger, r.id, url)
	logger.Info("Analyzing site", zap.String("title", report.Title))

	defer func() {
		report.Duration = w.clock.Since(start)
		outcome := progress.OutcomeOK
		switch report.Status {
		case showcase.URLSkipped, showcase.URLAborted:
			outcome = progress.OutcomeFailed
		case showcase.URLPartial:
			outcome = progress.OutcomeDegraded
		}
		w.emit(ctx, r, progress.Event{
			Stage:   progress.StageURLDone,
			Outcome: outcome,
			URL:     url,
			Site:    report.Title,
			Dur:     report.Duration,
			Note:    string(report.Status),
		})
	}()

	page, err := w.fetch(ctx, r, &report)
	if err != nil {
		report.Status = showcase.URLSkipped
		report.Err = err
		logger.Warn("Cannot fetch page, skipping", zap.Error(err))
		return report
	}

	excerpt := w.extract(ctx, r, &report, page)
	report.Summary = w.summarize(ctx, r, &report, excerpt, logger)
	fields := showcase.FormatFields(report.Title, url, report.Summary)

	asset := w.illustrate(ctx, r, &report, logger)
	if !asset.Empty() {
		report.MediaID = w.uploadMedia(ctx, r, &report, *asset, logger)
	}

	entryID, err := w.createEntry(ctx, r, &report)
	if err != nil {
		report.Status = showcase.URLAborted
		report.Err = err
		logger.Error("Cannot create entry, abandoning URL", zap.Error(err))
		return report
	}
	report.EntryID = entryID
	logger.Info("Entry created", zap.String("entry_id", entryID))

	if report.MediaID != "" {
		w.attachImage(ctx, r, &report, logger)
	}

	w.setFields(ctx, r, &report, fields, logger)
	if len(report.FieldErrors) > 0 {
		report.Status = showcase.URLPartial
		logger.Warn("Entry published with missing fields", zap.Int("failed_fields", len(report.FieldErrors)))
		return report
	}
	report.Status = showcase.URLPublished
	logger.Info("Entry published", zap.String("entry_id", entryID), zap.String("media_id", report.MediaID))
	return report
}

func (w *Worker) fetch(ctx context.Context, r *run, report *showcase.URLReport) (showcase.FetchResult, error) {
	start := w.clock.Now()
	page, err := w.fetcher.Fetch(ctx, report.URL)
	evt := progress.Event{
		Stage: progress.StageFetch,
		URL:   report.URL,
		Site:  report.Title,
		Dur:   w.clock.Since(start),
	}
	if err != nil {
		evt.Outcome = progress.OutcomeFailed
		evt.Note = err.Error()
		w.emit(ctx, r, evt)
		return showcase.FetchResult{}, err
	}
	evt.Outcome = progress.OutcomeOK
	evt.Bytes = int64(len(page.Body))
	evt.StatusClass = progress.ClassifyStatus(page.StatusCode)
	w.emit(ctx, r, evt)
	return page, nil
}

func (w *Worker) extract(ctx context.Context, r *run, report *showcase.URLReport, page showcase.FetchResult) showcase.ExcerptText {
	excerpt := w.extractor.Excerpt(string(page.Body))
	outcome := progress.OutcomeOK
	if excerpt == "" {
		outcome = progress.OutcomeDegraded
	}
	w.emit(ctx, r, progress.Event{
		Stage:   progress.StageExtract,
		Outcome: outcome,
		URL:     report.URL,
		Bytes:   int64(len(excerpt)),
	})
	return excerpt
}

// summarize never fails: endpoint errors become the placeholder summary and
// short answers are padded to three segments.
func (w *Worker) summarize(
	ctx context.Context,
	r *run,
	report *showcase.URLReport,
	excerpt showcase.ExcerptText,
	logger *zap.Logger,
) showcase.SummaryTriple {
	start := w.clock.Now()
	lines, err := w.summarizer.Summarize(ctx, report.URL, excerpt)
	evt := progress.Event{Stage: progress.StageSummarize, URL: report.URL, Dur: w.clock.Since(start)}
	if err != nil {
		evt.Outcome = progress.OutcomeDegraded
		evt.Note = err.Error()
		w.emit(ctx, r, evt)
		report.Degraded = append(report.Degraded, showcase.KindGeneration)
		logger.Warn("Summary unavailable, using placeholders", zap.Error(err))
		return showcase.PlaceholderSummary()
	}
	evt.Outcome = progress.OutcomeOK
	if len(lines) < 3 {
		evt.Outcome = progress.OutcomeDegraded
		evt.Note = fmt.Sprintf("padded %d of 3 segments", 3-len(lines))
	}
	w.emit(ctx, r, evt)
	return showcase.PadSummary(lines)
}

// illustrate returns nil when either the generation or the download fails.
func (w *Worker) illustrate(ctx context.Context, r *run, report *showcase.URLReport, logger *zap.Logger) *showcase.ImageAsset {
	prompt := showcase.ImagePrompt(report.Title)
	start := w.clock.Now()
	imageURL, err := w.images.GenerateImage(ctx, prompt)
	evt := progress.Event{Stage: progress.StageGenerateImage, URL: report.URL, Dur: w.clock.Since(start)}
	if err != nil {
		evt.Outcome = progress.OutcomeDegraded
		evt.Note = err.Error()
		w.emit(ctx, r, evt)
		report.Degraded = append(report.Degraded, showcase.KindGeneration)
		logger.Warn("Image generation failed, publishing without image", zap.Error(err))
		return nil
	}
	evt.Outcome = progress.OutcomeOK
	w.emit(ctx, r, evt)

	start = w.clock.Now()
	asset, err := w.downloader.Download(ctx, imageURL)
	evt = progress.Event{Stage: progress.StageDownloadImage, URL: report.URL, Dur: w.clock.Since(start)}
	if err == nil && asset.Empty() {
		err = showcase.NewError(showcase.KindImageDownload, "get", imageURL, errors.New("no image data"))
	}
	if err != nil {
		evt.Outcome = progress.OutcomeDegraded
		evt.Note = err.Error()
		w.emit(ctx, r, evt)
		report.Degraded = append(report.Degraded, showcase.KindImageDownload)
		logger.Warn("Image download failed, publishing without image", zap.Error(err))
		return nil
	}
	evt.Outcome = progress.OutcomeOK
	evt.Bytes = int64(len(asset.Data))
	w.emit(ctx, r, evt)
	return asset
}

func (w *Worker) uploadMedia(
	ctx context.Context,
	r *run,
	report *showcase.URLReport,
	asset showcase.ImageAsset,
	logger *zap.Logger,
) string {
	start := w.clock.Now()
	mediaID, err := w.publisher.UploadMedia(ctx, asset)
	evt := progress.Event{
		Stage: progress.StageUploadMedia,
		URL:   report.URL,
		Bytes: int64(len(asset.Data)),
		Dur:   w.clock.Since(start),
	}
	if err == nil && mediaID == "" {
		err = showcase.NewError(showcase.KindPublish, "upload media", "", showcase.ErrNoMediaID)
	}
	if err != nil {
		evt.Outcome = progress.OutcomeDegraded
		evt.Note = err.Error()
		w.emit(ctx, r, evt)
		report.Degraded = append(report.Degraded, showcase.KindPublish)
		logger.Warn("Media upload failed, publishing without image", zap.Error(err))
		return ""
	}
	evt.Outcome = progress.OutcomeOK
	evt.Note = mediaID
	w.emit(ctx, r, evt)
	return mediaID
}

func (w *Worker) createEntry(ctx context.Context, r *run, report *showcase.URLReport) (string, error) {
	start := w.clock.Now()
	entryID, err := w.publisher.CreateEntry(ctx, report.Title)
	evt := progress.Event{Stage: progress.StageCreateEntry, URL: report.URL, Site: report.Title, Dur: w.clock.Since(start)}
	if err != nil {
		evt.Outcome = progress.OutcomeFailed
		evt.Note = err.Error()
		w.emit(ctx, r, evt)
		return "", err
	}
	evt.Outcome = progress.OutcomeOK
	evt.Note = entryID
	w.emit(ctx, r, evt)
	return entryID, nil
}

func (w *Worker) attachImage(ctx context.Context, r *run, report *showcase.URLReport, logger *zap.Logger) {
	start := w.clock.Now()
	err := w.publisher.AttachFeaturedImage(ctx, report.EntryID, report.MediaID)
	evt := progress.Event{Stage: progress.StageAttachImage, URL: report.URL, Dur: w.clock.Since(start)}
	if err != nil {
		evt.Outcome = progress.OutcomeDegraded
		evt.Note = err.Error()
		w.emit(ctx, r, evt)
		report.Degraded = append(report.Degraded, showcase.KindPublish)
		logger.Warn("Cannot attach featured image", zap.String("media_id", report.MediaID), zap.Error(err))
		return
	}
	evt.Outcome = progress.OutcomeOK
	w.emit(ctx, r, evt)
}

// setFields writes each field independently. A failed write leaves the
// entry without that field; nothing already written is rolled back.
func (w *Worker) setFields(
	ctx context.Context,
	r *run,
	report *showcase.URLReport,
	fields showcase.Fields,
	logger *zap.Logger,
) {
	for _, field := range fields.List() {
		start := w.clock.Now()
		err := w.publisher.SetCustomField(ctx, report.EntryID, field)
		evt := progress.Event{
			Stage:   progress.StageSetField,
			Outcome: progress.OutcomeOK,
			URL:     report.URL,
			Dur:     w.clock.Since(start),
			Note:    field.Key,
		}
		if err != nil {
			if report.FieldErrors == nil {
				report.FieldErrors = make(map[string]error)
			}
			report.FieldErrors[field.Key] = err
			evt.Outcome = progress.OutcomeFailed
			evt.Note = field.Key + ": " + err.Error()
			logger.Warn("Cannot set custom field", zap.String("field", field.Key), zap.Error(err))
		}
		w.emit(ctx, r, evt)
	}
}

func (w *Worker) emit(ctx context.Context, r *run, evt progress.Event) {
	evt.RunID = r.raw
	if evt.TS.IsZero() {
		evt.TS = w.clock.Now()
	}
	w.emitter.Emit(ctx, evt)
}

// Report aggregates the outcome of one run.
type Report struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	URLs      []showcase.URLReport
	Canceled  bool
}

// Count returns how many URLs ended with status.
func (r Report) Count(status showcase.URLStatus) int {
	n := 0
	for _, u := range r.URLs {
		if u.Status == status {
			n++
		}
	}
	return n
}
