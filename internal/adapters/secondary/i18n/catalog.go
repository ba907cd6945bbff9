package i18n

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// Message keys, one per error kind
const (
	keyUnsupportedFileType = "unsupported_file_type"
	keyFileRead            = "file_read"
	keyRender              = "render"
	keyEmptyDeck           = "empty_deck"
	keyOutOfRange          = "out_of_range"
	keyUnknown             = "unknown"
)

var supported = []language.Tag{language.English, language.Japanese}

var messages = map[language.Tag]map[string]string{
	language.English: {
		keyUnsupportedFileType: "Unsupported file type. Please choose a %s file.",
		keyFileRead:            "Failed to read the file.",
		keyRender:              "An error occurred while processing the file: %s",
		keyEmptyDeck:           "No slides were found in this file.",
		keyOutOfRange:          "Slide %d does not exist.",
		keyUnknown:             "An unexpected error occurred: %s",
	},
	language.Japanese: {
		keyUnsupportedFileType: "サポートされていないファイル形式です。%s ファイルを選択してください。",
		keyFileRead:            "ファイルの読み込みに失敗しました",
		keyRender:              "ファイルの処理中にエラーが発生しました: %s",
		keyEmptyDeck:           "スライドが見つかりませんでした。",
		keyOutOfRange:          "スライド %d は存在しません。",
		keyUnknown:             "予期しないエラーが発生しました: %s",
	},
}

// Catalog localizes domain errors into user-facing messages
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a catalog for lang ("en", "ja", or any BCP 47 tag).
// Unsupported languages fall back to English.
func New(lang string) *Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			_ = builder.SetString(tag, key, msg)
		}
	}

	tag := match(lang)
	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}
}

func match(lang string) language.Tag {
	requested, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	_, index, confidence := language.NewMatcher(supported).Match(requested)
	if confidence == language.No {
		return language.English
	}
	return supported[index]
}

// Language returns the base language code in use
func (c *Catalog) Language() string {
	base, _ := c.tag.Base()
	return base.String()
}

// Message returns the localized message for err
func (c *Catalog) Message(err error) string {
	if err == nil {
		return ""
	}

	switch entities.KindOf(err) {
	case entities.ErrorKindUnsupportedFileType:
		allowed := entities.DefaultExtensions
		var typeErr *entities.UnsupportedFileTypeError
		if errors.As(err, &typeErr) && len(typeErr.Allowed) > 0 {
			allowed = typeErr.Allowed
		}
		return c.printer.Sprintf(keyUnsupportedFileType, strings.Join(allowed, ", "))
	case entities.ErrorKindFileRead:
		return c.printer.Sprintf(keyFileRead)
	case entities.ErrorKindRender:
		return c.printer.Sprintf(keyRender, cause(err))
	case entities.ErrorKindEmptyDeck:
		return c.printer.Sprintf(keyEmptyDeck)
	case entities.ErrorKindOutOfRange:
		var rangeErr *entities.OutOfRangeError
		if errors.As(err, &rangeErr) {
			return c.printer.Sprintf(keyOutOfRange, rangeErr.Index+1)
		}
		return c.printer.Sprintf(keyOutOfRange, 0)
	default:
		return c.printer.Sprintf(keyUnknown, err.Error())
	}
}

// cause returns the engine's message without the render wrapper
func cause(err error) string {
	var renderErr *entities.RenderError
	if errors.As(err, &renderErr) && renderErr.Err != nil {
		return renderErr.Err.Error()
	}
	return err.Error()
}

// Ensure Catalog implements ports.Localizer
var _ ports.Localizer = (*Catalog)(nil)
