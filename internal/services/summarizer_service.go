package services

import (
	"time"

	"github.com/bilaalmunir/email-to-summary-automation/internal/database/models"
)

// SummaryFallback is stored verbatim whenever summarization fails. Callers can
// only tell a failed summary apart from a real one by matching this string.
const SummaryFallback = "Failed to generate summary"

// SummaryClient is the chat-completion surface the summarizer depends on.
// It is an interface so tests can substitute a double for the remote API.
type SummaryClient interface {
	SummarizeEmail(subject, from string, date time.Time, text string) (string, error)
}

// SummarizerService wraps the AI client with the never-fail summary policy
type SummarizerService struct {
	client     SummaryClient
	logService *LogService
}

// NewSummarizerService creates a new SummarizerService instance
func NewSummarizerService(client SummaryClient, logService *LogService) *SummarizerService {
	return &SummarizerService{
		client:     client,
		logService: logService,
	}
}

// Summarize returns a summary for the record, or the fallback string when the
// API call fails for any reason. It never returns an error.
func (s *SummarizerService) Summarize(record *models.Email) string {
	summary, err := s.client.SummarizeEmail(record.Subject, record.FromAddress, record.Date, record.Text)
	if err != nil {
		s.logService.LogError(models.LogModuleSummarize, "summarize", "Failed to generate summary for email", map[string]interface{}{
			"subject": record.Subject,
			"error":   err.Error(),
		})
		return SummaryFallback
	}
	return summary
}
