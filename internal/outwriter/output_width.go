package outwriter

import (
	"os"

	"github.com/huangsam/learnstat/internal/contract"
	"golang.org/x/term"
)

// Width thresholds for the day series table.
const (
	defaultTermWidth = 80 // Conservative default for narrow terminals and CI
	minScoreWidth    = 60 // Below this the quiz score column is dropped
	maxSessionWidth  = 24 // Session IDs longer than this are truncated in headers
)

// getTermWidth returns the width override from flag/env, or the detected terminal width.
func getTermWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return defaultTermWidth
	}
	return detectedWidth
}

// showQuizScore reports whether the series table has room for the quiz score column.
func showQuizScore(cfg *contract.Config) bool {
	return getTermWidth(cfg) >= minScoreWidth
}
