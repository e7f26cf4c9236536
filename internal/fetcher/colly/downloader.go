package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/showcase-publisher/internal/showcase"
)

const imageBaseName = "dalle_generated_image"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Downloader implements showcase.Downloader for generated images.
type Downloader struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

var _ showcase.Downloader = (*Downloader)(nil)

// NewDownloader builds an image Downloader. A zero timeout leaves requests
// unbounded; the body size is never capped.
func NewDownloader(timeout time.Duration, logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := newCollector("", timeout)
	c.MaxBodySize = 0
	return &Downloader{baseCollector: c, logger: logger}
}

// Download retrieves the image bytes behind url.
func (d *Downloader) Download(ctx context.Context, url string) (*showcase.ImageAsset, error) {
	if url == "" {
		return nil, showcase.NewError(showcase.KindImageDownload, "get", url, errors.New("empty image url"))
	}
	resp, err := visit(ctx, d.baseCollector, url)
	if err != nil {
		return nil, showcase.NewError(showcase.KindImageDownload, "get", url, err)
	}
	if len(resp.Body) == 0 {
		return nil, showcase.NewError(showcase.KindImageDownload, "get", url, errors.New("empty image body"))
	}

	mimeType := sniffImageType(headersOf(resp).Get("Content-Type"), resp.Body)
	ext, ok := imageExtensions[mimeType]
	if !ok {
		return nil, showcase.NewError(showcase.KindImageDownload, "get", url,
			fmt.Errorf("unsupported content type %q", mimeType))
	}

	d.logger.Debug("Downloaded image",
		zap.String("mime", mimeType),
		zap.Int("bytes", len(resp.Body)),
	)
	return &showcase.ImageAsset{
		Data:      append([]byte(nil), resp.Body...),
		Filename:  imageBaseName + ext,
		MIMEType:  mimeType,
		SourceURL: url,
	}, nil
}

// sniffImageType trusts an image/* Content-Type header and otherwise falls
// back to content sniffing.
func sniffImageType(header string, body []byte) string {
	if mediaType, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mediaType, "image/") {
		return mediaType
	}
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(body))
	return mediaType
}
