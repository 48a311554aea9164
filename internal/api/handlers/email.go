package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bilaalmunir/email-to-summary-automation/internal/database/models"
	"github.com/bilaalmunir/email-to-summary-automation/internal/services"
)

// Extractor is the extraction surface the handler depends on
type Extractor interface {
	Extract(address, password string, senders []string) (*services.ExtractionResult, error)
}

// EmailStore is the persistence surface the handler depends on
type EmailStore interface {
	Insert(record *models.Email) error
	ListAll() ([]models.Email, error)
}

// EmailHandler handles extraction and listing requests
type EmailHandler struct {
	extractor  Extractor
	store      EmailStore
	logService *services.LogService
}

// NewEmailHandler creates a new EmailHandler instance
func NewEmailHandler(extractor Extractor, store EmailStore, logService *services.LogService) *EmailHandler {
	return &EmailHandler{
		extractor:  extractor,
		store:      store,
		logService: logService,
	}
}

// ExtractRequest represents the request to extract emails from a mailbox.
// The password is held for the duration of the call and never logged.
type ExtractRequest struct {
	EmailAddress string `json:"email_address" binding:"required"`
	Password     string `json:"password" binding:"required"`
	// An empty sender list is valid and yields the "no emails found" response
	SenderAddresses []string `json:"sender_addresses"`
}

// Extract fetches recent emails from the requested senders, summarizes them
// and stores the results.
// POST /extract
func (h *EmailHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return
	}

	h.logService.LogInfo(models.LogModuleAPI, "extract", "Starting email extraction", map[string]interface{}{
		"email":   req.EmailAddress,
		"senders": len(req.SenderAddresses),
	})

	result, err := h.extractor.Extract(req.EmailAddress, req.Password, req.SenderAddresses)
	if err != nil {
		var mailboxErr *services.MailboxError
		if errors.As(err, &mailboxErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": mailboxErr.Message,
				"error":   mailboxErr.Err.Error(),
				"email":   mailboxErr.Email,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to fetch emails",
			"error":   err.Error(),
			"email":   req.EmailAddress,
		})
		return
	}

	if len(result.Records) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":           "No emails found in the last 24 hours from specified senders",
			"senders_processed": req.SenderAddresses,
		})
		return
	}

	// Fold per-record insert outcomes: a failed insert is logged and skipped
	stored := 0
	for _, record := range result.Records {
		if err := h.store.Insert(record); err != nil {
			h.logService.LogError(models.LogModuleStore, "insert", "Failed to store email", map[string]interface{}{
				"subject": record.Subject,
				"error":   err.Error(),
			})
			continue
		}
		stored++
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Emails extracted and stored successfully",
		"emails_found":      len(result.Records),
		"emails_stored":     stored,
		"senders_processed": req.SenderAddresses,
	})
}

// ListEmails returns all stored emails with their summaries, newest first.
// GET /emails
func (h *EmailHandler) ListEmails(c *gin.Context) {
	emails, err := h.store.ListAll()
	if err != nil {
		h.logService.LogError(models.LogModuleStore, "list", "Failed to query emails", map[string]interface{}{
			"error": err.Error(),
		})
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	if len(emails) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "No emails found in database",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"emails":      emails,
		"total_count": len(emails),
	})
}
