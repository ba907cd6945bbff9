package i18n

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fredcamaral/marpview/internal/domain/entities"
)

func TestCatalog_Language(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"ja", "ja"},
		{"ja-JP", "ja"},
		{"en-GB", "en"},
		{"", "en"},
		{"not a tag!", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.input).Language())
		})
	}
}

func TestCatalog_Message(t *testing.T) {
	unsupported := &entities.UnsupportedFileTypeError{Name: "slides.pptx", Ext: ".pptx", Allowed: []string{".md", ".marp", ".markdown"}}
	render := &entities.RenderError{Err: errors.New("bad front-matter")}

	t.Run("english", func(t *testing.T) {
		c := New("en")
		assert.Equal(t, "Unsupported file type. Please choose a .md, .marp, .markdown file.", c.Message(unsupported))
		assert.Equal(t, "Failed to read the file.", c.Message(&entities.FileReadError{Name: "a.md", Err: errors.New("eof")}))
		assert.Equal(t, "An error occurred while processing the file: bad front-matter", c.Message(render))
		assert.Equal(t, "No slides were found in this file.", c.Message(&entities.EmptyDeckError{}))
		assert.Equal(t, "Slide 8 does not exist.", c.Message(&entities.OutOfRangeError{Index: 7, Total: 3}))
		assert.Equal(t, "An unexpected error occurred: boom", c.Message(errors.New("boom")))
		assert.Empty(t, c.Message(nil))
	})

	t.Run("japanese", func(t *testing.T) {
		c := New("ja")
		assert.Equal(t, "サポートされていないファイル形式です。.md, .marp, .markdown ファイルを選択してください。", c.Message(unsupported))
		assert.Equal(t, "ファイルの読み込みに失敗しました", c.Message(&entities.FileReadError{Name: "a.md", Err: errors.New("eof")}))
		assert.Equal(t, "ファイルの処理中にエラーが発生しました: bad front-matter", c.Message(render))
	})

	t.Run("wrapped errors", func(t *testing.T) {
		c := New("en")
		wrapped := fmt.Errorf("loading: %w", &entities.EmptyDeckError{})
		assert.Equal(t, "No slides were found in this file.", c.Message(wrapped))
	})
}
