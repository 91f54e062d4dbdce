package telegram

import (
	"bytes"
	"context"

	tele "gopkg.in/telebot.v4"

	"avatarbot/internal/domain"
)

// Sender delivers outbound messages through the Telegram API. It implements
// domain.Outbound for the flow engine.
type Sender struct {
	bot *tele.Bot
}

// NewSender wraps a connected bot.
func NewSender(bot *tele.Bot) *Sender {
	return &Sender{bot: bot}
}

// Prompt sends a text message, attaching an inline keyboard when choices are
// given.
func (s *Sender) Prompt(ctx context.Context, userID int64, text string, choices ...domain.Choice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(choices) == 0 {
		_, err := s.bot.Send(tele.ChatID(userID), text)
		return err
	}
	_, err := s.bot.Send(tele.ChatID(userID), text, buildMarkup(choices))
	return err
}

// Artifact delivers the composed avatar as a document so Telegram does not
// recompress it.
func (s *Sender) Artifact(ctx context.Context, userID int64, data []byte, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(data)),
		FileName: filename,
	}
	_, err := s.bot.Send(tele.ChatID(userID), doc)
	return err
}

// Failure sends a user-visible error notice.
func (s *Sender) Failure(ctx context.Context, userID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.bot.Send(tele.ChatID(userID), text)
	return err
}

// buildMarkup lays choices out as one inline button per row, the way the
// original menu was presented.
func buildMarkup(choices []domain.Choice) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(choices))
	for _, choice := range choices {
		rows = append(rows, markup.Row(markup.Data(choice.Label, choice.ID)))
	}
	markup.Inline(rows...)
	return markup
}

var _ domain.Outbound = (*Sender)(nil)
