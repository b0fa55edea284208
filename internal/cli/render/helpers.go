package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	msg := strings.TrimSpace(message)

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatStatus colors a transaction status, e.g. "Accepted" in green
func FormatStatus(status models.TransactionStatus) string {
	label := cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(string(status)), "_", " "))
	switch status {
	case models.TransactionStatusAccepted:
		return acceptedStyle.Sprint(label)
	case models.TransactionStatusRejected:
		return rejectedStyle.Sprint(label)
	default:
		return pendingStyle.Sprint(label)
	}
}
