package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// FormatError returns a styled multi-line error message.
func FormatError(title, detail, suggestion string) string {
	out := errorStyle.Render("Error: "+title) + "\n"
	if detail != "" {
		out += "  " + detail + "\n"
	}
	if suggestion != "" {
		out += "  " + hintStyle.Render("Hint: "+suggestion) + "\n"
	}
	return out
}

// Success prints a green success message.
func Success(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// Warn prints a yellow warning on stderr, keeping stdout clean for
// informational output.
func Warn(msg string) {
	fmt.Fprintln(os.Stderr, warnStyle.Render("Warning: "+msg))
}

// Bold renders text in bold.
func Bold(s string) string {
	return boldStyle.Render(s)
}

// Hint renders text in dim italic.
func Hint(s string) string {
	return hintStyle.Render(s)
}

// ValidationErr prints one validation failure on stderr.
func ValidationErr(msg string) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", errorStyle.Render("ERR"), msg)
}

// ValidationOK prints a green summary line for a valid model.
func ValidationOK(msg string) {
	fmt.Printf("  %s %s\n", successStyle.Render("OK "), msg)
}

// FileWritten prints one generated artifact path.
func FileWritten(path string) {
	fmt.Printf("  %s %s\n", successStyle.Render("+"), path)
}

// DryRunNote marks output as computed-only.
func DryRunNote() {
	fmt.Println(dimStyle.Render("dry-run: no files were written"))
}

// OrphanLine prints one orphan with its protection status.
func OrphanLine(path string, protected bool) {
	if protected {
		fmt.Printf("  %s %s %s\n", warnStyle.Render("!"), path, dimStyle.Render("(protected)"))
		return
	}
	fmt.Printf("  %s %s\n", dimStyle.Render("-"), path)
}
