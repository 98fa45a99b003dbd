// Package notify sends aggregation summaries via the Telegram Bot API.
package notify

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rotisserie/eris"

	"github.com/i474232898/forecast-history/internal/forecast"
)

// sender is the part of *tgbotapi.BotAPI the client uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications
type Client struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken string, chatID int64) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create Telegram bot")
	}
	return newClient(bot, chatID), nil
}

func newClient(bot sender, chatID int64) *Client {
	return &Client{
		bot:            bot,
		chatID:         chatID,
		maxRetries:     3,
		retryDelayBase: time.Second,
	}
}

// SendSummary sends the run summary and, if attachment is not empty, the
// file as a document.
func (c *Client) SendSummary(subject string, res *forecast.Result, today time.Time, attachment string) error {
	msg := tgbotapi.NewMessage(c.chatID, FormatSummary(subject, res, today))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if err := c.send(msg); err != nil {
		return err
	}
	if attachment == "" {
		return nil
	}
	return c.send(tgbotapi.NewDocument(c.chatID, tgbotapi.FilePath(attachment)))
}

func (c *Client) send(msg tgbotapi.Chattable) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return eris.Wrapf(lastErr, "failed to send message after %d retries", c.maxRetries)
}

// FormatSummary formats a result as a MarkdownV2 message.
func FormatSummary(subject string, res *forecast.Result, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Forecast history: %s*\n\n", escapeMarkdownV2(subject))
	fmt.Fprintf(&b, "Snapshots: %d\n", res.Stats.Curves)

	if v, ok := res.ReferenceOn(today); ok {
		fmt.Fprintf(&b, "Today: %s\n", escapeMarkdownV2(fmt.Sprintf("%.1f", v)))
	} else {
		b.WriteString("Today: no reference value\n")
	}

	for _, lead := range []int{1, 7} {
		lo, okLo := leadValue(res, 20, lead)
		hi, okHi := leadValue(res, 80, lead)
		if !okLo || !okHi {
			fmt.Fprintf(&b, "Lead %dd: not enough history\n", lead)
			continue
		}
		spread := escapeMarkdownV2(fmt.Sprintf("%+.1f .. %+.1f", lo, hi))
		fmt.Fprintf(&b, "Lead %dd error 20%%/80%%: %s\n", lead, spread)
	}
	return b.String()
}

func leadValue(res *forecast.Result, level, days int) (float64, bool) {
	for _, p := range res.LeadBand(level) {
		if p.Days() == days {
			return p.Value, true
		}
	}
	return 0, false
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
