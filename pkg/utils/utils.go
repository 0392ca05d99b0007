package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"
)

// Fallback viewport when no terminal is attached.
const (
	FallbackCols = 80
	FallbackRows = 24
)

// GetHomeDir returns the user's home directory
func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return home, nil
}

// ExpandPath expands paths with ~ and resolves relative paths
func ExpandPath(path string) (string, error) {
	if path == "" {
		return ".", nil
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		homeDir, err := GetHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return homeDir, nil
		}
		return filepath.Join(homeDir, path[2:]), nil
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", err
		}
		return absPath, nil
	}

	return path, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Viewport resolves a requested grid size. Zero dimensions are taken from
// the terminal attached to f, or from the fallback when there is none.
func Viewport(cols, rows int, f *os.File) (int, int) {
	if cols > 0 && rows > 0 {
		return cols, rows
	}
	tc, tr := FallbackCols, FallbackRows
	if f != nil {
		if w, h, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && h > 0 {
			tc, tr = w, h
		}
	}
	if cols <= 0 {
		cols = tc
	}
	if rows <= 0 {
		rows = tr
	}
	return cols, rows
}

// FormatBytes renders a size with a binary unit, e.g. "1.5 KiB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatDuration renders d rounded to centiseconds, e.g. "3.25s".
func FormatDuration(d time.Duration) string {
	return d.Round(10 * time.Millisecond).String()
}
