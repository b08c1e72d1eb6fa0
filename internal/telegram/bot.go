package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-multisite-scraper/internal/models"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api    sender
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//api.Debug = true

	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) sendHTML(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

// SendReport posts the run summary.
func (b *Bot) SendReport(r models.Report) error {
	return b.sendHTML(FormatReport(r))
}

func (b *Bot) SendError(err error) error {
	return b.sendHTML(fmt.Sprintf("⚠️ <b>Scraper error</b>:\n%s", html.EscapeString(err.Error())))
}

// FormatReport renders the summary as Telegram HTML.
func FormatReport(r models.Report) string {
	var sb strings.Builder

	status := "✅"
	if !r.Productive() {
		status = "❌"
	}
	fmt.Fprintf(&sb, "%s <b>Job scrape finished</b> (%s)\n\n", status, r.FinishedAt.Sub(r.StartedAt).Round(time.Second))

	for _, s := range r.Sites {
		if s.Error != "" {
			fmt.Fprintf(&sb, "• %s: %d ⚠️ <i>%s</i>\n", html.EscapeString(s.Site), s.Records, html.EscapeString(s.Error))
			continue
		}
		fmt.Fprintf(&sb, "• %s: %d\n", html.EscapeString(s.Site), s.Records)
	}

	fmt.Fprintf(&sb, "\n📦 Merged: %d (added %d, updated %d, kept %d)\n", r.Merged, r.Added, r.Updated, r.Kept)

	if r.SpreadsheetError != "" {
		fmt.Fprintf(&sb, "📁 Spreadsheet: ❌ %s\n", html.EscapeString(r.SpreadsheetError))
	} else {
		fmt.Fprintf(&sb, "📁 Spreadsheet: %d rows\n", r.SpreadsheetRows)
	}

	if r.DBEnabled {
		fmt.Fprintf(&sb, "🗄️ Database: %d/%d rows", r.DBSucceeded, r.DBAttempted)
		if r.DBFailedBatches > 0 {
			fmt.Fprintf(&sb, " (%d failed batches)", r.DBFailedBatches)
		}
		sb.WriteString("\n")
	}

	for _, job := range r.Preview {
		title := job.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(&sb, "\n🔥 <a href=\"%s\">%s</a> · %s", html.EscapeString(job.Link), html.EscapeString(title), html.EscapeString(job.Source))
	}
	return sb.String()
}
