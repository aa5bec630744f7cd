package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOneLineStripsOscAndNewlines(t *testing.T) {
	input := "\x1b]8;;https://evil\x07click\x1b]8;;\x07\nline\tmore"
	out := SanitizeOneLine(input)

	assert.False(t, strings.Contains(out, "\x1b"))
	assert.False(t, strings.Contains(out, "\n"))
	assert.False(t, strings.Contains(out, "\t"))
	assert.Equal(t, "click line more", out)
}

func TestSanitizeTextKeepsNewlines(t *testing.T) {
	assert.Equal(t, "a\nb", SanitizeText("a\n\x1b[31mb"))
	assert.Equal(t, "", SanitizeText(""))
}

func TestSanitizeTextRemovesBidiControls(t *testing.T) {
	out := SanitizeText("safe\u202Eexe.txt")
	assert.NotContains(t, out, "\u202E")
	assert.Equal(t, "safeexe.txt", out)
}
