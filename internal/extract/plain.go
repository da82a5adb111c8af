package extract

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// Plain reads a UTF-8 text file as is.
type Plain struct{}

// Decode implements Decoder.
func (Plain) Decode(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not valid UTF-8", path)
	}
	return string(data), nil
}
