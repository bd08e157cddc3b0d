package subtitles

import (
	"errors"
	"fmt"
)

var (
	// ErrNoExternalID means the title has no IMDB identifier
	ErrNoExternalID = errors.New("no external id")
	// ErrNoSubtitles means the search came back empty
	ErrNoSubtitles = errors.New("no subtitles found")
	// ErrNoDownloadLink means the chosen candidate cannot be fetched
	ErrNoDownloadLink = errors.New("no download link")
)

// DownloadError wraps a failed fetch or decode of a subtitle payload
type DownloadError struct {
	Link string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download subtitle: %v", e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text for a lookup failure
func Message(err error) string {
	var derr *DownloadError
	switch {
	case errors.Is(err, ErrNoExternalID):
		return "Could not find IMDB ID for this title"
	case errors.Is(err, ErrNoSubtitles):
		return "No subtitles found for this title"
	case errors.Is(err, ErrNoDownloadLink):
		return "No download link available for this subtitle"
	case errors.As(err, &derr):
		return derr.Error()
	case err != nil:
		return err.Error()
	default:
		return ""
	}
}

// reason is the metrics label for a failure
func reason(err error) string {
	var derr *DownloadError
	switch {
	case errors.Is(err, ErrNoExternalID):
		return "no_external_id"
	case errors.Is(err, ErrNoSubtitles):
		return "no_subtitles"
	case errors.Is(err, ErrNoDownloadLink):
		return "no_download_link"
	case errors.As(err, &derr):
		return "download"
	default:
		return "internal"
	}
}
