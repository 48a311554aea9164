package services

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	id "github.com/emersion/go-imap-id"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"

	"github.com/bilaalmunir/email-to-summary-automation/internal/database/models"
)

// recencyWindow is the extraction cutoff: messages older than this are skipped.
const recencyWindow = 24 * time.Hour

var (
	// ErrIMAPConnectionFailed indicates IMAP connection failed
	ErrIMAPConnectionFailed = errors.New("IMAP connection failed")
	// ErrNoEnvelope indicates a fetched message carried no envelope
	ErrNoEnvelope = errors.New("message has no envelope")
)

// MailboxError reports a failure to open or iterate the mailbox. It aborts the
// whole extraction request.
type MailboxError struct {
	Message string
	Email   string
	Err     error
}

func (e *MailboxError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Message, e.Email, e.Err)
}

func (e *MailboxError) Unwrap() error {
	return e.Err
}

// ExtractionResult is the fold of per-message outcomes for one request.
// Failed counts messages that could not be processed; they never abort the
// remaining messages or senders.
type ExtractionResult struct {
	Records    []*models.Email
	SkippedOld int
	Failed     int
}

// ExtractorService fetches recent messages from an IMAP mailbox
type ExtractorService struct {
	imapHost   string
	imapPort   int
	summarizer *SummarizerService
	logService *LogService
}

// NewExtractorService creates a new ExtractorService instance
func NewExtractorService(imapHost string, imapPort int, summarizer *SummarizerService, logService *LogService) *ExtractorService {
	return &ExtractorService{
		imapHost:   imapHost,
		imapPort:   imapPort,
		summarizer: summarizer,
		logService: logService,
	}
}

// connectIMAP establishes an SSL IMAP session and authenticates
func (s *ExtractorService) connectIMAP(address, password string) (*client.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.imapHost, s.imapPort)
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	tlsConfig := &tls.Config{ServerName: s.imapHost}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIMAPConnectionFailed, err)
	}
	c, err := client.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrIMAPConnectionFailed, err)
	}
	c.Timeout = 5 * time.Minute

	// Some servers require client identification before login
	if ok, _ := c.Support("ID"); ok {
		idClient := id.NewClient(c)
		_, _ = idClient.ID(id.ID{
			id.FieldName:    "Mailbrief",
			id.FieldVersion: "1.0.0",
		})
	}

	if err := c.Login(address, password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("%w: login failed: %v", ErrIMAPConnectionFailed, err)
	}

	return c, nil
}

// Extract opens one IMAP session and collects messages from the given senders
// dated within the recency window. Each record is summarized inline. The
// session is closed on every exit path.
func (s *ExtractorService) Extract(address, password string, senders []string) (*ExtractionResult, error) {
	cutoff := time.Now().UTC().Add(-recencyWindow)

	s.logService.LogInfo(models.LogModuleExtract, "connect", "Connecting to IMAP server", map[string]interface{}{
		"email": address,
		"host":  s.imapHost,
	})

	c, err := s.connectIMAP(address, password)
	if err != nil {
		s.logService.LogError(models.LogModuleExtract, "connect", "IMAP connection failed", map[string]interface{}{
			"email": address,
			"error": err.Error(),
		})
		return nil, &MailboxError{Message: "Failed to fetch emails", Email: address, Err: err}
	}
	defer c.Logout()

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, &MailboxError{Message: "Failed to fetch emails", Email: address, Err: err}
	}

	result := &ExtractionResult{}
	for _, sender := range senders {
		fetched, err := s.fetchFromSender(c, sender, cutoff)
		if err != nil {
			return nil, &MailboxError{Message: "Failed to fetch emails", Email: address, Err: err}
		}

		for _, m := range fetched {
			record, err := s.buildRecord(m, cutoff)
			if err != nil {
				result.Failed++
				s.logService.LogError(models.LogModuleExtract, "parse", "Error processing individual email", map[string]interface{}{
					"sender": sender,
					"error":  err.Error(),
				})
				continue
			}
			if record == nil {
				result.SkippedOld++
				continue
			}

			record.Summary = s.summarizer.Summarize(record)
			result.Records = append(result.Records, record)
		}
	}

	s.logService.LogInfo(models.LogModuleExtract, "extract", "Extraction completed", map[string]interface{}{
		"found":       len(result.Records),
		"skipped_old": result.SkippedOld,
		"failed":      result.Failed,
	})

	return result, nil
}

// fetchedMessage pairs a message envelope with its raw RFC 822 content
type fetchedMessage struct {
	envelope *imap.Envelope
	raw      []byte
}

// fetchFromSender searches the selected mailbox for messages from one sender
// dated on or after the cutoff's calendar date. The SINCE criterion is
// date-only; callers must re-filter against the precise cutoff.
func (s *ExtractorService) fetchFromSender(c *client.Client, sender string, cutoff time.Time) ([]fetchedMessage, error) {
	criteria := imap.NewSearchCriteria()
	criteria.Header.Add("From", sender)
	criteria.Since = time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)

	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("search failed for sender %s: %v", sender, err)
	}
	if len(seqNums) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(seqNums...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, len(seqNums))
	done := make(chan error, 1)

	go func() {
		done <- c.Fetch(seqSet, items, messages)
	}()

	var fetched []fetchedMessage
	for msg := range messages {
		if msg == nil {
			continue
		}
		fm := fetchedMessage{envelope: msg.Envelope}
		for _, literal := range msg.Body {
			content, err := io.ReadAll(literal)
			if err == nil && len(content) > 0 {
				fm.raw = content
			}
		}
		fetched = append(fetched, fm)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch failed for sender %s: %v", sender, err)
	}

	return fetched, nil
}

// buildRecord normalizes one fetched message into an Email record. It returns
// (nil, nil) when the message is older than the cutoff.
func (s *ExtractorService) buildRecord(m fetchedMessage, cutoff time.Time) (*models.Email, error) {
	if m.envelope == nil {
		return nil, ErrNoEnvelope
	}

	date := m.envelope.Date.UTC()
	if date.Before(cutoff) {
		return nil, nil
	}

	body, htmlBody, err := parseBody(m.raw)
	if err != nil {
		return nil, err
	}

	// Plain text body, HTML fallback when plain text is absent or empty
	text := body
	if text == "" {
		text = htmlBody
	}

	var from string
	if len(m.envelope.From) > 0 {
		from = formatAddress(m.envelope.From[0])
	}

	var to []string
	for _, addr := range m.envelope.To {
		to = append(to, formatAddress(addr))
	}

	return &models.Email{
		Subject:     m.envelope.Subject,
		FromAddress: from,
		ToAddress:   strings.Join(to, ", "),
		Date:        date,
		Text:        text,
		ExtractedAt: time.Now().UTC(),
	}, nil
}

// parseBody extracts the plain-text and HTML bodies from raw message content
func parseBody(raw []byte) (body, htmlBody string, err error) {
	if len(raw) == 0 {
		return "", "", nil
	}

	r := bytes.NewReader(raw)
	entity, err := message.Read(r)
	if err != nil {
		// Fall back to a plain RFC 822 read
		r.Seek(0, io.SeekStart)
		m, mailErr := mail.ReadMessage(r)
		if mailErr != nil {
			return "", "", fmt.Errorf("failed to parse message body: %v", err)
		}
		b, _ := io.ReadAll(m.Body)
		return string(b), "", nil
	}

	parseEntity(entity, &body, &htmlBody)
	return body, htmlBody, nil
}

// parseEntity recursively walks a message entity collecting text parts
func parseEntity(entity *message.Entity, body, htmlBody *string) {
	mediaType, _, _ := entity.Header.ContentType()

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		mr := entity.MultipartReader()
		if mr == nil {
			return
		}
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			parseEntity(part, body, htmlBody)
		}
	case mediaType == "text/plain" && *body == "":
		b, _ := io.ReadAll(entity.Body)
		*body = string(b)
	case mediaType == "text/html" && *htmlBody == "":
		b, _ := io.ReadAll(entity.Body)
		*htmlBody = string(b)
	}
}

// formatAddress formats an IMAP address to a string
func formatAddress(addr *imap.Address) string {
	if addr.PersonalName != "" {
		return fmt.Sprintf("%s <%s@%s>", addr.PersonalName, addr.MailboxName, addr.HostName)
	}
	return fmt.Sprintf("%s@%s", addr.MailboxName, addr.HostName)
}
