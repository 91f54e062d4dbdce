// Package flow implements the conversation controller: given the user's
// current session and an incoming event it advances the state machine,
// triggers composition when all inputs are present, and tears the session
// down on every terminal outcome.
package flow

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/google/uuid"

	"avatarbot/internal/analytics"
	"avatarbot/internal/domain"
	"avatarbot/internal/infra"
	"avatarbot/internal/overlay"
	"avatarbot/internal/render"
	"avatarbot/internal/session"

	"golang.org/x/image/font"
)

// User-facing messages, kept in one place so the bot speaks consistently.
const (
	msgChooseMode     = "Choose avatar type:"
	msgChooseTimezone = "Choose a time zone:"
	msgAskDate        = "Until what date? (e.g., 15.06)"
	msgAskLocation    = "Where should the background take you? (e.g., Tokyo, Japan)"
	msgBadDate        = "That is not a date I can use. Send DD.MM, e.g., 15.06."
	msgPastDate       = "That date is already past. Send DD.MM, e.g., 15.06."
	msgBadLocation    = "Please send a destination as 'city, country', e.g., Tokyo, Japan."
	msgEmptyLocation  = "Please send a destination, e.g., Tokyo, Japan."
	msgSendPhoto      = "Now send me your photo."
	msgThanksPhoto    = "Thanks! Now send me your photo."
	msgChooseFirst    = "Please choose avatar type first: /start"
	msgNotAnImage     = "Please send an image file or photo."
	msgGenericFailure = "An error occurred while processing your image. Please try again later."
	msgTryAgain       = "Avatar created! Want to try again?"
)

// Generator produces a canonical square base image for AI-driven modes.
type Generator interface {
	Generate(ctx context.Context, userID int64, requestID, location string) (*image.NRGBA, error)
}

// Archiver keeps a copy of delivered artifacts. Optional.
type Archiver interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Options wires the engine's collaborators.
type Options struct {
	Store     session.Store
	Locks     *session.Locks
	Registry  *domain.Registry
	Catalog   *overlay.Catalog
	Face      font.Face
	Generator Generator
	Outbound  domain.Outbound
	Metrics   *infra.Metrics
	Recorder  analytics.Recorder
	Archive   Archiver
	Logger    *infra.Logger
	Now       func() time.Time
}

// Engine is the session state machine. All three Handle methods run under the
// per-user lock, so events for one user never interleave.
type Engine struct {
	store     session.Store
	locks     *session.Locks
	registry  *domain.Registry
	catalog   *overlay.Catalog
	face      font.Face
	generator Generator
	out       domain.Outbound
	metrics   *infra.Metrics
	recorder  analytics.Recorder
	archive   Archiver
	logger    infra.Logger
	now       func() time.Time
}

// New constructs the engine. Store, Locks, Registry, Catalog, Face and
// Outbound are required; the rest default to no-ops.
func New(opts Options) *Engine {
	e := &Engine{
		store:     opts.Store,
		locks:     opts.Locks,
		registry:  opts.Registry,
		catalog:   opts.Catalog,
		face:      opts.Face,
		generator: opts.Generator,
		out:       opts.Outbound,
		metrics:   opts.Metrics,
		recorder:  opts.Recorder,
		archive:   opts.Archive,
		now:       opts.Now,
	}
	if e.recorder == nil {
		e.recorder = analytics.Noop{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	if opts.Logger != nil {
		e.logger = *opts.Logger
	}
	return e
}

// Menu lists the top-level choices for the /start prompt.
func (e *Engine) Menu() (string, []domain.Choice) {
	return msgChooseMode, e.registry.MenuChoices()
}

// HandleSelection consumes a menu pick. The business trip entry opens the
// timezone submenu without creating a session; any known mode starts (or
// restarts) the user's session at its first stage.
func (e *Engine) HandleSelection(ctx context.Context, userID int64, choiceID string) error {
	return e.locks.WithLock(ctx, userID, func(ctx context.Context) error {
		if choiceID == domain.ChoiceBusinessTrip {
			return e.out.Prompt(ctx, userID, msgChooseTimezone, e.registry.TimezoneChoices()...)
		}

		spec, ok := e.registry.Resolve(domain.Mode(choiceID))
		if !ok {
			e.logger.Warn().Int64("user_id", userID).Str("choice", choiceID).Msg("flow: unknown selection")
			return e.out.Prompt(ctx, userID, msgChooseMode, e.registry.MenuChoices()...)
		}

		_, err := e.store.Get(ctx, userID)
		hadSession := err == nil

		s := domain.NewSession(userID, spec, e.now())
		if err := e.store.Put(ctx, s); err != nil {
			return fmt.Errorf("store session: %w", err)
		}
		if !hadSession && e.metrics != nil {
			e.metrics.ActiveSessions.Inc()
		}

		switch s.Stage {
		case domain.StageAwaitingDate:
			return e.out.Prompt(ctx, userID, msgAskDate)
		case domain.StageAwaitingLocation:
			return e.out.Prompt(ctx, userID, msgAskLocation)
		default:
			return e.out.Prompt(ctx, userID, msgSendPhoto)
		}
	})
}

// HandleText consumes free-form text. It only advances the session during an
// aux-waiting stage; everywhere else it re-prompts without mutating state.
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) error {
	return e.locks.WithLock(ctx, userID, func(ctx context.Context) error {
		s, err := e.store.Get(ctx, userID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return e.out.Prompt(ctx, userID, msgChooseFirst)
		}
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		spec, ok := e.registry.Resolve(s.Mode)
		if !ok {
			// Session references a mode no longer registered. Reset.
			e.teardown(ctx, userID)
			return e.out.Prompt(ctx, userID, msgChooseFirst)
		}

		switch s.Stage {
		case domain.StageAwaitingDate:
			date, err := ParseDayMonth(text, e.now())
			if err != nil {
				msg := msgBadDate
				if errors.Is(err, ErrPastDate) {
					msg = msgPastDate
				}
				return e.out.Prompt(ctx, userID, msg)
			}
			s.UntilDate = date
			s.Stage = domain.StageAwaitingPhoto
			if err := e.store.Put(ctx, s); err != nil {
				return fmt.Errorf("store session: %w", err)
			}
			return e.out.Prompt(ctx, userID, msgThanksPhoto)

		case domain.StageAwaitingLocation:
			location, err := ValidateLocation(text, spec.LocationRule)
			if err != nil {
				msg := msgEmptyLocation
				if spec.LocationRule == domain.LocationStrict {
					msg = msgBadLocation
				}
				return e.out.Prompt(ctx, userID, msg)
			}
			s.Location = location
			if spec.Generated {
				// No photo step for generated modes.
				return e.composeGenerated(ctx, s, spec)
			}
			s.Stage = domain.StageAwaitingPhoto
			if err := e.store.Put(ctx, s); err != nil {
				return fmt.Errorf("store session: %w", err)
			}
			return e.out.Prompt(ctx, userID, msgThanksPhoto)

		default:
			return e.out.Prompt(ctx, userID, msgSendPhoto)
		}
	})
}

// HandleImage consumes an uploaded image. Non-image payloads and images
// arriving outside the photo stage re-prompt without mutating state.
func (e *Engine) HandleImage(ctx context.Context, userID int64, data []byte, mimeType string) error {
	return e.locks.WithLock(ctx, userID, func(ctx context.Context) error {
		s, err := e.store.Get(ctx, userID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return e.out.Prompt(ctx, userID, msgChooseFirst)
		}
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		if !strings.HasPrefix(mimeType, "image/") {
			return e.out.Prompt(ctx, userID, msgNotAnImage)
		}
		if s.Stage != domain.StageAwaitingPhoto {
			if s.Stage == domain.StageAwaitingDate {
				return e.out.Prompt(ctx, userID, msgAskDate)
			}
			return e.out.Prompt(ctx, userID, msgAskLocation)
		}

		spec, ok := e.registry.Resolve(s.Mode)
		if !ok {
			e.teardown(ctx, userID)
			return e.out.Prompt(ctx, userID, msgChooseFirst)
		}
		return e.composePhoto(ctx, s, spec, data)
	})
}

// composePhoto runs the photo-based pipeline: normalize, overlay, optional
// caption, encode. Terminal either way.
func (e *Engine) composePhoto(ctx context.Context, s *domain.Session, spec domain.ModeSpec, data []byte) error {
	base, err := render.Normalize(data)
	if err != nil {
		return e.fail(ctx, s, msgGenericFailure, err)
	}
	return e.finish(ctx, s, spec, base)
}

// composeGenerated runs the generation-based pipeline for modes without a
// photo step. Terminal either way.
func (e *Engine) composeGenerated(ctx context.Context, s *domain.Session, spec domain.ModeSpec) error {
	requestID := uuid.NewString()
	started := e.now()
	base, err := e.generator.Generate(ctx, s.UserID, requestID, s.Location)
	if e.metrics != nil {
		e.metrics.GenerationSeconds.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		return e.fail(ctx, s, msgGenericFailure, err)
	}
	return e.finish(ctx, s, spec, base)
}

// finish layers the overlay, burns the caption, encodes and delivers. It
// always tears the session down before returning.
func (e *Engine) finish(ctx context.Context, s *domain.Session, spec domain.ModeSpec, base *image.NRGBA) error {
	layer, err := e.catalog.Load(spec)
	if err != nil {
		msg := msgGenericFailure
		if errors.Is(err, domain.ErrAssetMissing) {
			msg = fmt.Sprintf("Overlay '%s' not found.", s.Mode)
		}
		return e.fail(ctx, s, msg, err)
	}

	combined := render.Composite(base, layer)
	if spec.CaptionTmpl != "" && !s.UntilDate.IsZero() {
		caption := fmt.Sprintf(spec.CaptionTmpl, FormatDayMonth(s.UntilDate))
		render.DrawCenteredText(combined, caption, e.face)
	}

	encoded, err := render.Encode(combined)
	if err != nil {
		return e.fail(ctx, s, msgGenericFailure, err)
	}

	e.teardown(ctx, s.UserID)
	if e.metrics != nil {
		e.metrics.Compositions.WithLabelValues(string(s.Mode), "ok").Inc()
	}
	e.recorder.RecordComposition(ctx, s.Mode, true)

	if err := e.out.Artifact(ctx, s.UserID, encoded, domain.ArtifactFilename); err != nil {
		return fmt.Errorf("deliver artifact: %w", err)
	}
	if e.archive != nil {
		key := fmt.Sprintf("%d/%s-%s", s.UserID, e.now().UTC().Format("20060102T150405"), domain.ArtifactFilename)
		if _, err := e.archive.Write(ctx, key, encoded); err != nil {
			e.logger.Warn().Err(err).Int64("user_id", s.UserID).Msg("flow: artifact archive failed")
		}
	}

	e.logger.Info().Int64("user_id", s.UserID).Str("mode", string(s.Mode)).Msg("flow: avatar delivered")
	return e.out.Prompt(ctx, s.UserID, msgTryAgain, e.registry.MenuChoices()...)
}

// fail reports a terminal error and tears the session down, mirroring the
// success path.
func (e *Engine) fail(ctx context.Context, s *domain.Session, userMsg string, cause error) error {
	e.logger.Error().Err(cause).
		Int64("user_id", s.UserID).
		Str("mode", string(s.Mode)).
		Str("stage", string(s.Stage)).
		Msg("flow: composition failed")

	e.teardown(ctx, s.UserID)
	if e.metrics != nil {
		e.metrics.Compositions.WithLabelValues(string(s.Mode), "error").Inc()
	}
	e.recorder.RecordComposition(ctx, s.Mode, false)

	return e.out.Failure(ctx, s.UserID, userMsg)
}

// teardown removes the session record. Safe to call when none exists.
func (e *Engine) teardown(ctx context.Context, userID int64) {
	if err := e.store.Delete(ctx, userID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		e.logger.Warn().Err(err).Int64("user_id", userID).Msg("flow: session delete failed")
		return
	}
	if e.metrics != nil {
		e.metrics.ActiveSessions.Dec()
	}
}
