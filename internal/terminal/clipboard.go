package terminal

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard utility is installed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// ClipboardSink receives text to place on the clipboard.
type ClipboardSink interface {
	Copy(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errors.Join(ErrClipboardUnavailable, err)
	}
	return nil
}
