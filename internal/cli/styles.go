// Package cli provides styled terminal output and interactive prompting.
package cli

import (
	"errors"

	"github.com/charmbracelet/lipgloss"

	"quid/internal/common"
	"quid/internal/model"
)

var (
	// PrimaryColor is the main theme color (ledger gold).
	PrimaryColor = lipgloss.Color("#FFD75F")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4") // Teal
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3") // Light teal
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SubtitleStyle is used for secondary headings.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	CoinIcon    = "💰"
	ChartIcon   = "📊"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the coin icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(CoinIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// FormatUserError renders err as a styled message, adding a recovery
// hint for the failure kinds the user can act on. Errors outside the
// known kinds are logged before being shown.
func FormatUserError(err error) string {
	var hint string
	switch {
	case errors.Is(err, common.ErrDuplicateName):
		hint = "Pick a different name or rename the existing category."
	case errors.Is(err, common.ErrDuplicateBudget):
		hint = "Use 'budgets update' to change the existing budget."
	case errors.Is(err, common.ErrReferentialConstraint):
		hint = "Reassign or delete the expenses in this category first."
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrNotFound):
		// Message already says what is wrong
	default:
		common.LogError(err, "unexpected error", nil)
	}

	msg := FormatError(err.Error())
	if hint != "" {
		msg += "\n" + SubtleStyle.Render("  "+hint)
	}
	return msg
}

// StatusStyle returns the display style for a budget status.
func StatusStyle(status model.BudgetStatus) lipgloss.Style {
	switch status {
	case model.StatusOver:
		return ErrorStyle
	case model.StatusAt:
		return WarningStyle
	case model.StatusUnder:
		return SuccessStyle
	default:
		return SubtleStyle
	}
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return BoxStyle.Render(boxContent)
}
