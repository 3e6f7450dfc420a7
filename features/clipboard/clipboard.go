package clipboard

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"golang.design/x/clipboard"

	"github.com/sagan/laras/util/imgutil"
)

var (
	initializeOnce sync.Once
	clipboardError error
)

// Init initializes the clipboard. It's safe to call multiple times.
func Init() error {
	initializeOnce.Do(func() {
		clipboardError = clipboard.Init()
	})
	return clipboardError
}

// CopyString copies text, e.g. a rendered document or scene prompts.
func CopyString(str string) error {
	return write(bytes.NewReader([]byte(str)), false)
}

// CopyImage copies an encoded image (png, jpeg, ...), e.g. a storyboard.
func CopyImage(input io.Reader) error {
	return write(input, true)
}

// write data to clipboard. Images are re-encoded as png.
func write(input io.Reader, isImage bool) (err error) {
	if err = Init(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	if isImage {
		buf := &bytes.Buffer{}
		if err = imgutil.ConvertFormat(input, buf, "png"); err != nil {
			return err
		}
		clipboard.Write(clipboard.FmtImage, buf.Bytes())
		return nil
	}
	data, err := io.ReadAll(input)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, data)
	return nil
}

// Get returns the text contents of clipboard, e.g. a LARAS document to validate.
func Get() ([]byte, error) {
	if err := Init(); err != nil {
		return nil, fmt.Errorf("clipboard unavailable: %w", err)
	}
	if data := clipboard.Read(clipboard.FmtText); len(data) > 0 {
		return data, nil
	}
	return nil, fmt.Errorf("clipboard has no text")
}
