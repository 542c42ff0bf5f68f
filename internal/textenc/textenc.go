// Package textenc reads and writes source files in the byte encoding
// implied by a translation direction.
//
// Japanese text is Shift_JIS; everything else is passed through as UTF-8
// without validation, so bytes outside the translated comments survive a
// round trip unchanged.
package textenc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaguanLabs/srctl"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// OutputMarker is inserted between the base name and the extension of the output file.
const OutputMarker = ".TRANSLATED"

// ForSource returns the encoding of files written in the direction's source language.
func ForSource(d srctl.Direction) encoding.Encoding {
	return forLanguage(d.Source())
}

// ForTarget returns the encoding of files written in the direction's target language.
func ForTarget(d srctl.Direction) encoding.Encoding {
	return forLanguage(d.Target())
}

func forLanguage(code string) encoding.Encoding {
	if srctl.IsJapanese(code) {
		return japanese.ShiftJIS
	}
	return encoding.Nop
}

// Name returns a display name for enc.
func Name(enc encoding.Encoding) string {
	if enc == japanese.ShiftJIS {
		return "Shift_JIS"
	}
	return "UTF-8"
}

// Decode converts data to a Go string. Invalid Shift_JIS sequences become U+FFFD.
func Decode(data []byte, enc encoding.Encoding) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Encode converts text to enc. A character enc cannot represent is an
// error: the output would no longer hold the input's literals and code.
func Encode(text string, enc encoding.Encoding) ([]byte, error) {
	return enc.NewEncoder().Bytes([]byte(text))
}

// ReadFile reads path and decodes it with the source encoding of d.
func ReadFile(path string, d srctl.Direction) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return "", err
	}

	text, err := Decode(data, ForSource(d))
	if err != nil {
		return "", fmt.Errorf("decoding %s as %s: %w", path, Name(ForSource(d)), err)
	}
	return text, nil
}

// WriteFile encodes text with the target encoding of d and writes it to path,
// replacing any existing file. No byte order mark is written. Nothing is
// written when the text does not fit the target encoding.
func WriteFile(path, text string, d srctl.Direction) error {
	data, err := Encode(text, ForTarget(d))
	if err != nil {
		return fmt.Errorf("encoding %s as %s: %w", path, Name(ForTarget(d)), err)
	}
	return os.WriteFile(path, data, 0o644)
}

// OutputPath returns the sibling path of the translated file:
// dir/name.ext becomes dir/name.TRANSLATED.ext.
func OutputPath(path string) string {
	dir, file := filepath.Split(path)
	ext := filepath.Ext(file)
	return filepath.Join(dir, strings.TrimSuffix(file, ext)+OutputMarker+ext)
}
