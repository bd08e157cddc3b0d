package subtitles

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxPayloadSize bounds the decompressed subtitle size
const maxPayloadSize = 16 << 20

var (
	errNotGzip      = errors.New("payload is neither gzip compressed nor UTF-8 text")
	errEmptyPayload = errors.New("subtitle payload is empty")
	errTooLarge     = errors.New("subtitle payload exceeds size limit")
)

// Decode gunzips a subtitle payload and returns it as UTF-8 text with any
// byte-order mark removed. A payload without the gzip magic is accepted as
// already decompressed (transport-level Content-Encoding) when it is valid
// UTF-8.
func Decode(data []byte) (string, error) {
	raw, err := inflate(data)
	if err != nil {
		return "", err
	}
	if len(raw) > maxPayloadSize {
		return "", errTooLarge
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}

	if len(bytes.TrimSpace(text)) == 0 {
		return "", errEmptyPayload
	}
	return string(text), nil
}

func inflate(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		if len(data) > 0 && utf8.Valid(data) {
			return data, nil
		}
		return nil, errNotGzip
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, maxPayloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress payload: %w", err)
	}
	return raw, nil
}
