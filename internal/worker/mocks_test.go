package worker

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/JakeFAU/showcase-publisher/internal/showcase"
)

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) Fetch(ctx context.Context, url string) (showcase.FetchResult, error) {
	args := m.Called(ctx, url)
	res, _ := args.Get(0).(showcase.FetchResult)
	return res, args.Error(1)
}

type mockSummarizer struct{ mock.Mock }

func (m *mockSummarizer) Summarize(ctx context.Context, url string, excerpt showcase.ExcerptText) ([]string, error) {
	args := m.Called(ctx, url, excerpt)
	lines, _ := args.Get(0).([]string)
	return lines, args.Error(1)
}

type mockImages struct{ mock.Mock }

func (m *mockImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type mockDownloader struct{ mock.Mock }

func (m *mockDownloader) Download(ctx context.Context, url string) (*showcase.ImageAsset, error) {
	args := m.Called(ctx, url)
	asset, _ := args.Get(0).(*showcase.ImageAsset)
	return asset, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) UploadMedia(ctx context.Context, asset showcase.ImageAsset) (string, error) {
	args := m.Called(ctx, asset)
	return args.String(0), args.Error(1)
}

func (m *mockPublisher) CreateEntry(ctx context.Context, title string) (string, error) {
	args := m.Called(ctx, title)
	return args.String(0), args.Error(1)
}

func (m *mockPublisher) AttachFeaturedImage(ctx context.Context, entryID, mediaID string) error {
	return m.Called(ctx, entryID, mediaID).Error(0)
}

func (m *mockPublisher) SetCustomField(ctx context.Context, entryID string, field showcase.Field) error {
	return m.Called(ctx, entryID, field).Error(0)
}

// methods lists the publisher calls in the order they happened.
func (m *mockPublisher) methods() []string {
	out := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		out = append(out, c.Method)
	}
	return out
}

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time                { return c.now }
func (c fakeClock) Since(time.Time) time.Duration { return 10 * time.Millisecond }

type fakeIDs struct {
	id  string
	err error
}

func (f fakeIDs) NewID() (string, error) { return f.id, f.err }
