package extract

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var (
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	markdownMark = regexp.MustCompile("[*_#`>]+")
)

// HTML converts an HTML résumé to markdown and strips the markup characters,
// leaving words separated by whitespace.
type HTML struct{}

// Decode implements Decoder.
func (HTML) Decode(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	md, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", path, err)
	}
	md = markdownMark.ReplaceAllString(md, " ")
	md = blankRuns.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md), nil
}
