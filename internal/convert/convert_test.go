package convert

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name, in, title, content string
	}{
		{"simple", "Cell biology\nMitochondria make ATP.", "Cell biology", "Mitochondria make ATP."},
		{"leading blank lines", "\n\n  Heading  \n\nbody\n", "Heading", "body"},
		{"windows newlines", "Title\r\nline one\r\nline two", "Title", "line one\nline two"},
		{"hash kept", "#1 Priority\ntext", "#1 Priority", "text"},
		{"heading markers kept", "# Notes\ntext", "# Notes", "text"},
		{"title only", "Just a title", "Just a title", ""},
		{"empty", "   \n\n", "", ""},
		{"bom", "\ufeffTitle\nbody", "Title", "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, content := SplitTitle(tt.in)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.content, content)
		})
	}
}

func TestSplitTitle_LongTitle(t *testing.T) {
	title, _ := SplitTitle(strings.Repeat("é", 200))
	assert.LessOrEqual(t, len(title), 255)
	assert.True(t, strings.HasPrefix(strings.Repeat("é", 200), title))
}

func TestTextConverter(t *testing.T) {
	ctx := context.Background()
	c := TextConverter{}

	out, err := c.Convert(ctx, []byte("Physics\nF = ma"), ".TXT")
	require.NoError(t, err)
	assert.Equal(t, Converted{Title: "Physics", Content: "F = ma"}, out)

	_, err = c.Convert(ctx, []byte("%PDF-1.7"), "pdf")
	assert.ErrorIs(t, err, ErrConversionFailed)

	_, err = c.Convert(ctx, []byte{0xff, 0xfe, 0xfd}, "txt")
	assert.ErrorIs(t, err, ErrConversionFailed)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.Convert(cancelled, []byte("x"), "txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTextConverter_MarkdownHeadings(t *testing.T) {
	ctx := context.Background()
	c := TextConverter{}
	tests := []struct {
		name, in, ext, title string
	}{
		{"atx heading", "# Optics\nLight bends.", "md", "Optics"},
		{"closed heading", "## Waves ##\nbody", "md", "Waves"},
		{"not a heading", "#1 Priority\nbody", "md", "#1 Priority"},
		{"markers only", "###\nbody", "md", "###"},
		{"seven hashes", "####### Deep\nbody", "md", "####### Deep"},
		{"plain text keeps hashes", "# Optics\nbody", "txt", "# Optics"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.Convert(ctx, []byte(tt.in), tt.ext)
			require.NoError(t, err)
			assert.Equal(t, tt.title, out.Title)
			assert.NotEmpty(t, out.Title)
		})
	}
}
