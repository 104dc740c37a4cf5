package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Achievement label constants.
const (
	CompleteValue = "Complete" // Complete value
	OnTrackValue  = "On Track" // On track value
	BehindValue   = "Behind"   // Behind value
	IdleValue     = "Idle"     // Idle value
)

// Color variables for console output.
var (
	CompleteColor = color.New(color.FgGreen, color.Bold) // CompleteColor marks a fully met target.
	OnTrackColor  = color.New(color.FgCyan)              // OnTrackColor marks steady progress.
	BehindColor   = color.New(color.FgYellow)            // BehindColor is standard caution, not bold.
	IdleColor     = color.New(color.FgRed)               // IdleColor marks little or no activity.
)

// GetPlainLabel returns a plain text achievement label for a percentage
// (usually a rolling mean). This is the core logic used for CSV, JSON and
// table printing.
func GetPlainLabel(percent float64) string {
	switch {
	case percent >= 100:
		return CompleteValue
	case percent >= 70:
		return OnTrackValue
	case percent >= 30:
		return BehindValue
	default:
		return IdleValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(percent float64) string {
	text := GetPlainLabel(percent)

	switch text {
	case CompleteValue:
		return CompleteColor.Sprint(text)
	case OnTrackValue:
		return OnTrackColor.Sprint(text)
	case BehindValue:
		return BehindColor.Sprint(text)
	default: // "Idle"
		return IdleColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the fetch cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".learnstat_cache.db"
	}
	return filepath.Join(homeDir, ".learnstat_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run history.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".learnstat_runs.db"
	}
	return filepath.Join(homeDir, ".learnstat_runs.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseColorSetting parses the color flag. Besides the ParseBoolString values it
// accepts "auto" (or empty), which enables colors only when stdout is a terminal.
func ParseColorSetting(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return IsTerminal(os.Stdout), nil
	default:
		return ParseBoolString(s)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TruncateCell shortens a table cell to maxWidth runes with a trailing ellipsis.
// Requires maxWidth > 3 so there is room for the ellipsis and some content.
func TruncateCell(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}
