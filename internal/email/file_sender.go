package email

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileEmailSender implements Sender by appending email content to a log
// file. Enabled with LOG_EMAILS=<path>, usually alongside another sender via
// the composite.
type FileEmailSender struct {
	filePath string
}

// NewFileEmailSender creates a new FileEmailSender, ensuring the directory
// for the log file exists.
func NewFileEmailSender(filePath string) (Sender, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, fmt.Errorf("email log file path cannot be empty")
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for email log file '%s': %w", dir, err)
	}

	return &FileEmailSender{filePath: filePath}, nil
}

// Send appends the email to the log file.
func (s *FileEmailSender) Send(ctx context.Context, to []string, subject, body string) error {
	f, err := os.OpenFile(s.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open email log file '%s': %w", s.filePath, err)
	}
	defer f.Close()

	entry := fmt.Sprintf("==== %s ====\nTo: %s\nSubject: %s\n\n%s\n\n",
		time.Now().UTC().Format(time.RFC3339), strings.Join(to, ", "), subject, body)

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to write email to log file '%s': %w", s.filePath, err)
	}
	return nil
}
