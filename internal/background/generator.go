// Package background produces generated base images for AI-driven modes. It
// chains the prompt rewrite, the image generation call, the locator fetch and
// the decode into one pipeline whose failures all surface as a single
// domain.ErrGenerationFailed; the distinguishing sub-cause is only logged.
package background

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"avatarbot/internal/domain"
	"avatarbot/internal/infra"
	imggen "avatarbot/internal/providers/image"
	"avatarbot/internal/providers/prompt"
	"avatarbot/internal/render"
)

// maxFetchBytes caps how much the locator fetch will read.
const maxFetchBytes = 32 << 20

// Options configures the generator pipeline.
type Options struct {
	Enhancer        prompt.Enhancer
	Generator       imggen.Generator
	HTTPClient      *http.Client
	Logger          *infra.Logger
	EnhanceTimeout  time.Duration
	GenerateTimeout time.Duration
	FetchTimeout    time.Duration
	PerMinute       int
}

// Generator runs the background generation pipeline.
type Generator struct {
	enhancer        prompt.Enhancer
	generator       imggen.Generator
	httpClient      *http.Client
	logger          infra.Logger
	limiter         *rate.Limiter
	enhanceTimeout  time.Duration
	generateTimeout time.Duration
	fetchTimeout    time.Duration
}

// New wires the pipeline. Enhancer may be nil, in which case the raw location
// seeds the image model directly.
func New(opts Options) *Generator {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	perMinute := opts.PerMinute
	if perMinute <= 0 {
		perMinute = 6
	}
	g := &Generator{
		enhancer:        opts.Enhancer,
		generator:       opts.Generator,
		httpClient:      httpClient,
		limiter:         rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 2),
		enhanceTimeout:  orDefault(opts.EnhanceTimeout, 15*time.Second),
		generateTimeout: orDefault(opts.GenerateTimeout, 60*time.Second),
		fetchTimeout:    orDefault(opts.FetchTimeout, 30*time.Second),
	}
	if opts.Logger != nil {
		g.logger = *opts.Logger
	}
	return g
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// Generate turns a validated location into a canonical square base image.
// Every stage failure is wrapped into domain.ErrGenerationFailed; the caller
// does not distinguish sub-causes.
func (g *Generator) Generate(ctx context.Context, userID int64, requestID, location string) (*image.NRGBA, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, g.failed(userID, requestID, "rate_wait", err)
	}

	seed := location
	if g.enhancer != nil {
		enhanceCtx, cancel := context.WithTimeout(ctx, g.enhanceTimeout)
		rewritten, err := g.enhancer.Enhance(enhanceCtx, location)
		cancel()
		if err != nil {
			return nil, g.failed(userID, requestID, "rewrite", err)
		}
		seed = rewritten
	}

	generateCtx, cancel := context.WithTimeout(ctx, g.generateTimeout)
	asset, err := g.generator.Generate(generateCtx, imggen.GenerateRequest{
		Prompt:    seed,
		RequestID: requestID,
	})
	cancel()
	if err != nil {
		return nil, g.failed(userID, requestID, "generate", err)
	}

	data := asset.Data
	if len(data) == 0 {
		if asset.URL == "" {
			return nil, g.failed(userID, requestID, "generate", fmt.Errorf("provider returned neither bytes nor locator"))
		}
		data, err = g.fetch(ctx, asset.URL)
		if err != nil {
			return nil, g.failed(userID, requestID, "fetch", err)
		}
	}

	base, err := render.Normalize(data)
	if err != nil {
		return nil, g.failed(userID, requestID, "decode", err)
	}

	g.logger.Debug().
		Int64("user_id", userID).
		Str("request_id", requestID).
		Msg("background: generated base image")

	return base, nil
}

// fetch dereferences the locator returned by the provider.
func (g *Generator) fetch(ctx context.Context, url string) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, g.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch asset: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read asset body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetch asset: empty body")
	}
	return data, nil
}

func (g *Generator) failed(userID int64, requestID, stage string, cause error) error {
	g.logger.Error().
		Err(cause).
		Int64("user_id", userID).
		Str("request_id", requestID).
		Str("stage", stage).
		Msg("background: generation failed")
	return fmt.Errorf("%w: %s", domain.ErrGenerationFailed, stage)
}
