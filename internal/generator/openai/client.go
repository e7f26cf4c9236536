// Package openai drives the text and image models behind the summarizer and
// illustrator stages.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/JakeFAU/showcase-publisher/internal/ratelimit"
	"github.com/JakeFAU/showcase-publisher/internal/showcase"
)

const systemPrompt = "Génère un résumé structuré et concis selon le format donné."

const userPromptTemplate = `
Tu dois fournir trois paragraphes distincts sans ajouter de titres :
1️⃣ Un résumé du site (500 caractères max) en une seule phrase.
2️⃣ Une description détaillée du site (1000 caractères max) en un paragraphe.
3️⃣ Une liste des technologies utilisées pour créer ce site (1000 caractères max).

Ne mets aucun label ou titre dans ton texte.

📌 Voici le texte extrait du site %s :
%s
`

// Config selects the endpoint and models.
type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	ImageSize  string

	// RequestsPerMinute throttles each endpoint separately; zero disables.
	RequestsPerMinute float64
}

// Client implements showcase.Summarizer and showcase.ImageGenerator.
type Client struct {
	api     *goopenai.Client
	cfg     Config
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

var (
	_ showcase.Summarizer     = (*Client)(nil)
	_ showcase.ImageGenerator = (*Client)(nil)
)

// New builds a Client. Empty models and size fall back to gpt-3.5-turbo,
// dall-e-3 and 1024x1024.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.TextModel == "" {
		cfg.TextModel = goopenai.GPT3Dot5Turbo
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = goopenai.CreateImageModelDallE3
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = goopenai.CreateImageSize1024x1024
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	return &Client{
		api:     goopenai.NewClientWithConfig(clientCfg),
		cfg:     cfg,
		limiter: ratelimit.New(ratelimit.Config{PerMinute: cfg.RequestsPerMinute}),
		logger:  logger,
	}
}

// BuildPrompt renders the user prompt for a page.
func BuildPrompt(url string, excerpt showcase.ExcerptText) string {
	return fmt.Sprintf(userPromptTemplate, url, excerpt)
}

// Summarize requests the three summary segments in a single chat turn and
// returns the non-blank lines of the answer.
func (c *Client) Summarize(ctx context.Context, url string, excerpt showcase.ExcerptText) ([]string, error) {
	if err := c.limiter.Wait(ctx, "chat"); err != nil {
		return nil, showcase.NewError(showcase.KindGeneration, "chat completion", url, err)
	}
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.cfg.TextModel,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: BuildPrompt(url, excerpt)},
		},
	})
	if err != nil {
		return nil, showcase.NewError(showcase.KindGeneration, "chat completion", url, err)
	}
	if len(resp.Choices) == 0 {
		return nil, showcase.NewError(showcase.KindGeneration, "chat completion", url, errors.New("no choices returned"))
	}
	lines := SplitLines(resp.Choices[0].Message.Content)
	c.logger.Debug("Summary generated", zap.String("url", url), zap.Strings("lines", lines))
	return lines, nil
}

// SplitLines splits generated text on line boundaries and drops blank lines.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// GenerateImage requests one square image and returns its temporary URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx, "images"); err != nil {
		return "", showcase.NewError(showcase.KindGeneration, "image generation", "", err)
	}
	resp, err := c.api.CreateImage(ctx, goopenai.ImageRequest{
		Prompt:         prompt,
		Model:          c.cfg.ImageModel,
		N:              1,
		Size:           c.cfg.ImageSize,
		ResponseFormat: goopenai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", showcase.NewError(showcase.KindGeneration, "image generation", "", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", showcase.NewError(showcase.KindGeneration, "image generation", "", errors.New("no image url returned"))
	}
	c.logger.Debug("Image generated", zap.String("prompt", prompt), zap.String("image_url", resp.Data[0].URL))
	return resp.Data[0].URL, nil
}
