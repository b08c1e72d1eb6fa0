package telegram

import (
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-multisite-scraper/internal/models"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func sampleReport() models.Report {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return models.Report{
		StartedAt:  start,
		FinishedAt: start.Add(95 * time.Second),
		Sites: []models.SiteResult{
			{Site: "Amazon Jobs", Records: 12},
			{Site: "P&G Careers", Records: 0, Error: "no job listings found"},
		},
		Merged: 40, Added: 10, Updated: 2, Kept: 28,
		SpreadsheetRows: 40,
		DBEnabled:       true, DBAttempted: 40, DBSucceeded: 30, DBFailedBatches: 1,
		Preview: []models.Job{{Title: "SDE <II>", Link: "https://www.amazon.jobs/en/jobs/1", Source: "Amazon"}},
	}
}

func TestFormatReport(t *testing.T) {
	text := FormatReport(sampleReport())

	assert.Contains(t, text, "✅ <b>Job scrape finished</b> (1m35s)")
	assert.Contains(t, text, "• Amazon Jobs: 12\n")
	assert.Contains(t, text, "• P&amp;G Careers: 0 ⚠️ <i>no job listings found</i>")
	assert.Contains(t, text, "Merged: 40 (added 10, updated 2, kept 28)")
	assert.Contains(t, text, "Database: 30/40 rows (1 failed batches)")
	assert.Contains(t, text, `<a href="https://www.amazon.jobs/en/jobs/1">SDE &lt;II&gt;</a>`)
}

func TestFormatReport_NothingScraped(t *testing.T) {
	r := models.Report{
		Sites:            []models.SiteResult{{Site: "LinkedIn", Error: "browser session unavailable"}},
		SpreadsheetError: "existing file unreadable",
	}

	text := FormatReport(r)
	assert.Contains(t, text, "❌ <b>Job scrape finished</b>")
	assert.Contains(t, text, "Spreadsheet: ❌ existing file unreadable")
	assert.NotContains(t, text, "Database")
}

func TestBot_SendReport(t *testing.T) {
	fake := &fakeSender{}
	bot := &Bot{api: fake, chatID: 42}

	require.NoError(t, bot.SendReport(sampleReport()))
	require.Len(t, fake.sent, 1)
	assert.Equal(t, int64(42), fake.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, fake.sent[0].ParseMode)

	fake.err = errors.New("429 Too Many Requests")
	assert.Error(t, bot.SendError(errors.New("boom")))
	assert.Contains(t, fake.sent[1].Text, "boom")
}
