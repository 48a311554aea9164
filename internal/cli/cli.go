package cli

import (
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/bilaalmunir/email-to-summary-automation/internal/config"
)

var (
	db  *gorm.DB
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mailbrief",
	Short: "Email extraction and summarization service",
	Long: `Mailbrief polls a mailbox over IMAP, summarizes recent messages with a
language model and stores the structured results.

Examples:
  mailbrief                                      # start the HTTP API
  mailbrief extract -e you@gmail.com -s a@x.com  # one-shot extraction`,
}

// Execute runs the CLI with the provided database and config
func Execute(database *gorm.DB, config *config.Config) {
	db = database
	cfg = config

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
