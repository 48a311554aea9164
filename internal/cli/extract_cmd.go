package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bilaalmunir/email-to-summary-automation/internal/functions/ai"
	"github.com/bilaalmunir/email-to-summary-automation/internal/services"
)

var (
	extractEmail    string
	extractPassword string
	extractSenders  []string
)

// extractCmd runs one extraction pipeline pass from the terminal
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract, summarize and store recent emails from the given senders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractPassword == "" {
			extractPassword = os.Getenv("MAILBRIEF_MAILBOX_PASSWORD")
		}
		if extractPassword == "" {
			return fmt.Errorf("mailbox password required (--password or MAILBRIEF_MAILBOX_PASSWORD)")
		}
		if len(extractSenders) == 0 {
			return fmt.Errorf("at least one sender address required (--sender)")
		}

		logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)

		aiClient := ai.NewClient()
		aiClient.ConfigureWithBaseURL(cfg.AIProvider, cfg.AIAPIKey, cfg.AIModel, cfg.AIBaseURL)

		summarizer := services.NewSummarizerService(aiClient, logService)
		extractor := services.NewExtractorService(cfg.IMAPHost, cfg.IMAPPort, summarizer, logService)
		store := services.NewStoreService(db, logService)

		result, err := extractor.Extract(extractEmail, extractPassword, extractSenders)
		if err != nil {
			return err
		}

		if len(result.Records) == 0 {
			fmt.Println("No emails found in the last 24 hours from specified senders")
			return nil
		}

		stored := 0
		for _, record := range result.Records {
			if err := store.Insert(record); err != nil {
				fmt.Fprintf(os.Stderr, "failed to store %q: %v\n", record.Subject, err)
				continue
			}
			stored++
		}

		fmt.Printf("Extracted %d emails, stored %d\n", len(result.Records), stored)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractEmail, "email", "e", "", "mailbox address")
	extractCmd.Flags().StringVarP(&extractPassword, "password", "p", "", "mailbox password (or MAILBRIEF_MAILBOX_PASSWORD)")
	extractCmd.Flags().StringSliceVarP(&extractSenders, "sender", "s", nil, "sender address to filter by (repeatable)")
	extractCmd.MarkFlagRequired("email")
}
