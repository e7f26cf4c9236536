// Package memory contains an in-memory CMS publisher used for dry runs and
// tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/JakeFAU/showcase-publisher/internal/showcase"
)

// Entry is the recorded state of one created entry.
type Entry struct {
	ID            string
	Title         string
	FeaturedMedia string
	Fields        map[string]string
}

// Media is one recorded upload.
type Media struct {
	ID       string
	Filename string
	MIMEType string
	Size     int
}

// Publisher stores entries and uploads for inspection.
type Publisher struct {
	mu      sync.RWMutex
	entries []Entry
	media   []Media
}

var _ showcase.Publisher = (*Publisher)(nil)

// New returns a memory Publisher.
func New() *Publisher {
	return &Publisher{}
}

// UploadMedia records the upload and returns a pseudo ID.
func (p *Publisher) UploadMedia(_ context.Context, asset showcase.ImageAsset) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := fmt.Sprintf("media-%d", len(p.media)+1)
	p.media = append(p.media, Media{
		ID:       id,
		Filename: asset.Filename,
		MIMEType: asset.MIMEType,
		Size:     len(asset.Data),
	})
	return id, nil
}

// CreateEntry records a new entry and returns a pseudo ID.
func (p *Publisher) CreateEntry(_ context.Context, title string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := fmt.Sprintf("entry-%d", len(p.entries)+1)
	p.entries = append(p.entries, Entry{ID: id, Title: title, Fields: map[string]string{}})
	return id, nil
}

// AttachFeaturedImage sets the featured media on a recorded entry.
func (p *Publisher) AttachFeaturedImage(_ context.Context, entryID, mediaID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, err := p.find(entryID)
	if err != nil {
		return err
	}
	entry.FeaturedMedia = mediaID
	return nil
}

// SetCustomField stores a field value on a recorded entry.
func (p *Publisher) SetCustomField(_ context.Context, entryID string, field showcase.Field) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, err := p.find(entryID)
	if err != nil {
		return err
	}
	entry.Fields[field.Key] = field.Value
	return nil
}

func (p *Publisher) find(entryID string) (*Entry, error) {
	for i := range p.entries {
		if p.entries[i].ID == entryID {
			return &p.entries[i], nil
		}
	}
	return nil, fmt.Errorf("entry %q not found", entryID)
}

// Entries returns a copy of the recorded entries.
func (p *Publisher) Entries() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Entry, len(p.entries))
	for i, e := range p.entries {
		fields := make(map[string]string, len(e.Fields))
		for k, v := range e.Fields {
			fields[k] = v
		}
		e.Fields = fields
		out[i] = e
	}
	return out
}

// Media returns the recorded uploads.
func (p *Publisher) Media() []Media {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Media, len(p.media))
	copy(out, p.media)
	return out
}
