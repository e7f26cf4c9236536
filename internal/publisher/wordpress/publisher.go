// Package wordpress publishes project entries through the WordPress XML-RPC
// API (wp.uploadFile, wp.newPost, wp.editPost).
package wordpress

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kolo/xmlrpc"
	"go.uber.org/zap"

	"github.com/JakeFAU/showcase-publisher/internal/showcase"
)

// XML-RPC method names.
const (
	methodUploadFile = "wp.uploadFile"
	methodNewPost    = "wp.newPost"
	methodEditPost   = "wp.editPost"
)

// Config holds the endpoint, credentials, and entry defaults.
type Config struct {
	URL        string
	Username   string
	Password   string
	BlogID     int
	PostType   string
	PostStatus string
	// Transport overrides the HTTP transport; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// Publisher implements showcase.Publisher over XML-RPC. Calls carry no
// deadline of their own; cancel ctx to stop waiting on one.
type Publisher struct {
	rpc    *xmlrpc.Client
	cfg    Config
	logger *zap.Logger
}

var _ showcase.Publisher = (*Publisher)(nil)

// New dials nothing; it only prepares the XML-RPC client.
func New(cfg Config, logger *zap.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("wordpress url is required")
	}
	if cfg.PostType == "" {
		cfg.PostType = "projet"
	}
	if cfg.PostStatus == "" {
		cfg.PostStatus = "publish"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := xmlrpc.NewClient(cfg.URL, cfg.Transport)
	if err != nil {
		return nil, fmt.Errorf("init xmlrpc client: %w", err)
	}
	return &Publisher{rpc: client, cfg: cfg, logger: logger}, nil
}

// Close releases the underlying client.
func (p *Publisher) Close() error {
	return p.rpc.Close()
}

// UploadMedia stores the asset in the media library and returns its ID.
func (p *Publisher) UploadMedia(ctx context.Context, asset showcase.ImageAsset) (string, error) {
	data := map[string]any{
		"name": asset.Filename,
		"type": asset.MIMEType,
		"bits": xmlrpc.Base64(base64.StdEncoding.EncodeToString(asset.Data)),
	}
	var reply map[string]any
	if err := p.call(ctx, methodUploadFile, p.args(data), &reply); err != nil {
		return "", showcase.NewError(showcase.KindPublish, "upload media", "", err)
	}
	id := idString(reply["id"])
	if id == "" {
		return "", showcase.NewError(showcase.KindPublish, "upload media", "", showcase.ErrNoMediaID)
	}
	p.logger.Debug("Media uploaded", zap.String("media_id", id), zap.String("file", asset.Filename))
	return id, nil
}

// CreateEntry creates a published project entry and returns its ID.
func (p *Publisher) CreateEntry(ctx context.Context, title string) (string, error) {
	content := map[string]any{
		"post_title":  title,
		"post_status": p.cfg.PostStatus,
		"post_type":   p.cfg.PostType,
	}
	var id string
	if err := p.call(ctx, methodNewPost, p.args(content), &id); err != nil {
		return "", showcase.NewError(showcase.KindPublish, "create entry", "", err)
	}
	if id == "" {
		return "", showcase.NewError(showcase.KindPublish, "create entry", "", errors.New("no entry id returned"))
	}
	return id, nil
}

// AttachFeaturedImage sets the entry's post thumbnail.
func (p *Publisher) AttachFeaturedImage(ctx context.Context, entryID, mediaID string) error {
	return p.edit(ctx, "attach featured image", entryID, map[string]any{"post_thumbnail": mediaID})
}

// SetCustomField writes one custom field on the entry.
func (p *Publisher) SetCustomField(ctx context.Context, entryID string, field showcase.Field) error {
	return p.edit(ctx, "set custom field "+field.Key, entryID, map[string]any{
		"custom_fields": []any{
			map[string]any{"key": field.Key, "value": field.Value},
		},
	})
}

func (p *Publisher) edit(ctx context.Context, op, entryID string, content map[string]any) error {
	var ok bool
	if err := p.call(ctx, methodEditPost, p.args(entryID, content), &ok); err != nil {
		return showcase.NewError(showcase.KindPublish, op, "", err)
	}
	if !ok {
		return showcase.NewError(showcase.KindPublish, op, "", fmt.Errorf("entry %s not updated", entryID))
	}
	return nil
}

// args prefixes method arguments with the blog ID and credentials.
func (p *Publisher) args(rest ...any) []any {
	return append([]any{p.cfg.BlogID, p.cfg.Username, p.cfg.Password}, rest...)
}

// call runs one XML-RPC request and gives up waiting when ctx ends.
func (p *Publisher) call(ctx context.Context, method string, args []any, reply any) error {
	done := make(chan error, 1)
	go func() {
		done <- p.rpc.Call(method, args, reply)
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s canceled: %w", method, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
		return nil
	}
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case int64:
		return strconv.FormatInt(id, 10)
	case int:
		return strconv.Itoa(id)
	default:
		return ""
	}
}
