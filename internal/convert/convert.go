// Package convert turns uploaded documents into note title and content.
package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrConversionFailed = errors.New("conversion failed")

// Converted is the result handed to note creation.
type Converted struct {
	Title   string
	Content string
}

type Converter interface {
	Convert(ctx context.Context, data []byte, ext string) (Converted, error)
}

// TextConverter handles plain text files.
type TextConverter struct{}

func (TextConverter) Convert(ctx context.Context, data []byte, ext string) (Converted, error) {
	if err := ctx.Err(); err != nil {
		return Converted{}, err
	}
	kind := normalizeExt(ext)
	switch kind {
	case "txt", "text", "md":
	default:
		return Converted{}, fmt.Errorf("%w: unsupported extension %q", ErrConversionFailed, ext)
	}
	if !utf8.Valid(data) {
		return Converted{}, fmt.Errorf("%w: file is not valid UTF-8", ErrConversionFailed)
	}
	title, content := SplitTitle(string(data))
	if kind == "md" {
		title = headingText(title)
	}
	return Converted{Title: title, Content: content}, nil
}

// headingText strips the markers of an ATX heading ("## Title"). Lines that
// are not headings, or headings without text, come back unchanged.
func headingText(line string) string {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(line) || (line[level] != ' ' && line[level] != '\t') {
		return line
	}
	text := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line[level:]), "#"))
	if text == "" {
		return line
	}
	return text
}

// SplitTitle uses the first non-empty line as the title and the trimmed
// remainder as the content. An empty text yields an empty title, which note
// creation replaces with the default.
func SplitTitle(text string) (string, string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		title := strings.TrimSpace(line)
		if title == "" {
			continue
		}
		if len(title) > 255 {
			title = truncate(title, 255)
		}
		return title, strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
	}
	return "", ""
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
