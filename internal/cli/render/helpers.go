package render

import (
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
)

var (
	successStyle = color.New(color.FgGreen)
	warningStyle = color.New(color.FgYellow)
	errorStyle   = color.New(color.FgRed)
	headerStyle  = color.New(color.FgCyan, color.Bold)
	faintStyle   = color.New(color.Faint)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warningStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Capitalize first letter
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return errorStyle.Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// FormatVerification renders a verification status as a colored label
func FormatVerification(status domain.VerificationStatus) string {
	if status == "" {
		status = domain.VerificationStatusUnverified
	}
	label := cases.Title(language.English).String(strings.ToLower(string(status)))
	switch status {
	case domain.VerificationStatusVerified:
		return successStyle.Sprint("✔︎ " + label)
	case domain.VerificationStatusFailed:
		return errorStyle.Sprint("✗ " + label)
	case domain.VerificationStatusSkipped:
		return faintStyle.Sprint("- " + label)
	default:
		return warningStyle.Sprint("? " + label)
	}
}
