package entities

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"nil", nil, ""},
		{"unsupported", &UnsupportedFileTypeError{Name: "a.pptx", Ext: ".pptx"}, ErrorKindUnsupportedFileType},
		{"read", &FileReadError{Name: "a.md", Err: errors.New("io")}, ErrorKindFileRead},
		{"render", &RenderError{Err: errors.New("bad")}, ErrorKindRender},
		{"empty", &EmptyDeckError{}, ErrorKindEmptyDeck},
		{"out of range", &OutOfRangeError{Index: 5, Total: 3}, ErrorKindOutOfRange},
		{"wrapped", fmt.Errorf("load: %w", &EmptyDeckError{}), ErrorKindEmptyDeck},
		{"other", context.Canceled, ErrorKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `unsupported file type ".pptx" for slides.pptx (allowed: [.md .marp])`,
		(&UnsupportedFileTypeError{Name: "slides.pptx", Ext: ".pptx", Allowed: []string{".md", ".marp"}}).Error())
	assert.Equal(t, "slide index 5 out of range (0-2)", (&OutOfRangeError{Index: 5, Total: 3}).Error())
	assert.Equal(t, "no slides found", (&EmptyDeckError{}).Error())

	cause := errors.New("disk gone")
	readErr := &FileReadError{Name: "a.md", Err: cause}
	assert.ErrorIs(t, readErr, cause)
	assert.ErrorIs(t, readErr, ErrFileRead)
	assert.NotErrorIs(t, readErr, ErrRender)
}
