// Package collyfetcher retrieves pages and generated images using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/showcase-publisher/internal/showcase"
)

// DefaultTimeout bounds page fetches when Config.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher implements showcase.Fetcher using the Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
}

var _ showcase.Fetcher = (*Fetcher)(nil)

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a page Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		cfg:           cfg,
		baseCollector: newCollector(cfg.UserAgent, cfg.Timeout),
		logger:        logger,
	}
}

// Fetch executes a single HTTP GET. Transport failures and statuses of 400
// and above come back as fetch errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (showcase.FetchResult, error) {
	start := time.Now()
	resp, err := visit(ctx, f.baseCollector, url)
	if err != nil {
		return showcase.FetchResult{}, showcase.NewError(showcase.KindFetch, "get", url, err)
	}
	result := showcase.FetchResult{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Headers:    headersOf(resp),
		Body:       append([]byte(nil), resp.Body...),
		Duration:   time.Since(start),
	}
	f.logger.Debug("Fetched page",
		zap.String("url", url),
		zap.Int("status", result.StatusCode),
		zap.Int("bytes", len(result.Body)),
		zap.Duration("dur", result.Duration),
	)
	return result, nil
}

func newCollector(userAgent string, timeout time.Duration) *colly.Collector {
	c := colly.NewCollector(colly.Async(false))
	c.AllowURLRevisit = true
	// Statuses are judged in the OnResponse hook, not by colly's <203 rule.
	c.ParseHTTPErrorResponse = true
	if userAgent != "" {
		c.UserAgent = userAgent
	}
	c.WithTransport(newHTTPTransport())
	// A zero timeout leaves the client unbounded.
	c.SetRequestTimeout(timeout)
	return c
}

func configureCollectorHooks(hooks collectorHooks, resp **colly.Response, fetchErr *error) {
	hooks.OnResponse(func(r *colly.Response) {
		if r.StatusCode >= http.StatusBadRequest {
			*fetchErr = fmt.Errorf("status %d: %s", r.StatusCode, http.StatusText(r.StatusCode))
			return
		}
		*resp = r
	})
	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			err = fmt.Errorf("status %d: %w", r.StatusCode, err)
		}
		*fetchErr = err
	})
}

// visit runs one synchronous request on a clone of base and honors ctx
// while waiting for it.
func visit(ctx context.Context, base *colly.Collector, url string) (*colly.Response, error) {
	collector := base.Clone()
	var (
		resp     *colly.Response
		fetchErr error
	)
	configureCollectorHooks(collector, &resp, &fetchErr)

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if fetchErr != nil {
			return nil, fmt.Errorf("colly response failed: %w", fetchErr)
		}
		if err != nil {
			return nil, fmt.Errorf("colly visit failed: %w", err)
		}
		if resp == nil {
			return nil, fmt.Errorf("colly visit returned no response")
		}
		return resp, nil
	}
}

func headersOf(r *colly.Response) http.Header {
	if r.Headers == nil {
		return http.Header{}
	}
	return r.Headers.Clone()
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
