// Package telegram adapts the Telegram update stream to the flow engine's
// inbound events and delivers its outbound effects.
package telegram

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"avatarbot/internal/flow"
	"avatarbot/internal/infra"
)

// maxDownloadBytes bounds uploaded photo size. Telegram caps bot downloads at
// 20 MB anyway.
const maxDownloadBytes = 20 << 20

// Bot polls Telegram and routes updates into the flow engine.
type Bot struct {
	bot     *tele.Bot
	engine  *flow.Engine
	sender  *Sender
	logger  infra.Logger
	timeout time.Duration
}

// Options configures the adapter.
type Options struct {
	HandleTimeout time.Duration
	Engine        *flow.Engine
	Logger        *infra.Logger
}

// Connect dials the Telegram API. The returned client is handed to NewSender
// for the outbound half and to New for the inbound half.
func Connect(token string, pollTimeout time.Duration) (*tele.Bot, error) {
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}
	tb, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	return tb, nil
}

// New registers the update handlers on a connected client.
func New(tb *tele.Bot, opts Options) *Bot {
	b := &Bot{
		bot:     tb,
		engine:  opts.Engine,
		sender:  NewSender(tb),
		timeout: opts.HandleTimeout,
	}
	if b.timeout <= 0 {
		b.timeout = 2 * time.Minute
	}
	if opts.Logger != nil {
		b.logger = *opts.Logger
	}

	tb.Handle("/start", b.onStart)
	tb.Handle(tele.OnCallback, b.onCallback)
	tb.Handle(tele.OnText, b.onText)
	tb.Handle(tele.OnPhoto, b.onPhoto)
	tb.Handle(tele.OnDocument, b.onDocument)

	return b
}

// Start blocks polling for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()
	b.bot.Start()
}

func (b *Bot) handleCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.timeout)
}

func (b *Bot) onStart(c tele.Context) error {
	ctx, cancel := b.handleCtx()
	defer cancel()

	text, choices := b.engine.Menu()
	return b.sender.Prompt(ctx, c.Sender().ID, text, choices...)
}

func (b *Bot) onCallback(c tele.Context) error {
	ctx, cancel := b.handleCtx()
	defer cancel()

	// Acknowledge so the client stops showing a spinner.
	if err := c.Respond(); err != nil {
		b.logger.Warn().Err(err).Msg("telegram: callback ack failed")
	}
	choiceID := callbackChoice(c.Callback().Data)
	return b.engine.HandleSelection(ctx, c.Sender().ID, choiceID)
}

func (b *Bot) onText(c tele.Context) error {
	ctx, cancel := b.handleCtx()
	defer cancel()

	return b.engine.HandleText(ctx, c.Sender().ID, c.Text())
}

func (b *Bot) onPhoto(c tele.Context) error {
	ctx, cancel := b.handleCtx()
	defer cancel()

	photo := c.Message().Photo
	data, err := b.download(&photo.File)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", c.Sender().ID).Msg("telegram: photo download failed")
		return err
	}
	// Telegram re-encodes photos as JPEG.
	return b.engine.HandleImage(ctx, c.Sender().ID, data, "image/jpeg")
}

func (b *Bot) onDocument(c tele.Context) error {
	ctx, cancel := b.handleCtx()
	defer cancel()

	doc := c.Message().Document
	mime := doc.MIME
	if !strings.HasPrefix(mime, "image/") {
		// The engine owns the re-prompt wording.
		return b.engine.HandleImage(ctx, c.Sender().ID, nil, mime)
	}
	data, err := b.download(&doc.File)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", c.Sender().ID).Msg("telegram: document download failed")
		return err
	}
	return b.engine.HandleImage(ctx, c.Sender().ID, data, mime)
}

func (b *Bot) download(file *tele.File) ([]byte, error) {
	rc, err := b.bot.File(file)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// callbackChoice strips the protocol prefix telebot attaches to callback
// payloads and any trailing arguments.
func callbackChoice(data string) string {
	data = strings.TrimPrefix(data, "\f")
	if i := strings.Index(data, "|"); i >= 0 {
		data = data[:i]
	}
	return strings.TrimSpace(data)
}
