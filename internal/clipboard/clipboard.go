package clipboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// Writer copies text to the system clipboard
type Writer struct {
	command string
	logger  *slog.Logger
	// primary is the library writer; swapped out in tests
	primary func(string) error
}

// New creates a clipboard writer. A non-empty command is used exclusively;
// otherwise the system clipboard is tried first, then well-known tools.
func New(command string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		command: strings.TrimSpace(command),
		logger:  logger,
		primary: clipboard.WriteAll,
	}
}

// Write copies text to the clipboard
func (w *Writer) Write(ctx context.Context, text string) error {
	if w.command != "" {
		return w.run(ctx, parseCommand(w.command), text)
	}

	err := w.primary(text)
	if err == nil {
		w.logger.Debug("copied to clipboard", "length", len(text))
		return nil
	}
	w.logger.Debug("system clipboard unavailable, trying tools", "error", err)

	parts := defaultCommand()
	if parts == nil {
		return fmt.Errorf("clipboard not supported on %s: %w", runtime.GOOS, err)
	}
	return w.run(ctx, parts, text)
}

func (w *Writer) run(ctx context.Context, parts []string, text string) error {
	if len(parts) == 0 {
		return errors.New("empty clipboard command")
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("clipboard command %q failed: %w: %s", parts[0], err, strings.TrimSpace(string(out)))
	}

	w.logger.Debug("copied to clipboard", "command", parts[0], "length", len(text))
	return nil
}

// defaultCommand picks a clipboard tool for the current platform, or nil
func defaultCommand() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"clip.exe"}
	case "darwin":
		return []string{"pbcopy"}
	case "linux":
		if isWSL() {
			return []string{"clip.exe"}
		}
		for _, candidate := range [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		} {
			if _, err := exec.LookPath(candidate[0]); err == nil {
				return candidate
			}
		}
		return nil
	default:
		return nil
	}
}

// parseCommand splits a command string on spaces, respecting quotes
func parseCommand(command string) []string {
	var parts []string
	var current strings.Builder
	var quote rune

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, r := range command {
		switch {
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && r == ' ':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return parts
}

// isWSL reports whether we run under Windows Subsystem for Linux
func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}
