// Package clipboard publishes RTF documents on a clipboard.
//
// A Writer encodes the document into a single-byte ANSI code page and then
// runs one open/empty/register/set/close sequence against a System. The
// clipboard is closed on every path out of the sequence.
package clipboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/mergefield/fieldclip"
	"go.uber.org/multierr"
)

// FormatRTF is the registered clipboard format name for RTF data.
const FormatRTF = "Rich Text Format"

// System is the low level clipboard API. Calls are made in the order
// Open, Empty, RegisterFormat, SetData, Close by a single goroutine.
type System interface {
	Open() error
	Empty() error
	RegisterFormat(name string) (uint32, error)
	SetData(format uint32, data []byte) error
	Close() error
}

// Writer implements fieldclip.Clipboard on top of a System.
type Writer struct {
	mu      sync.Mutex
	sys     System
	encoder *Encoder
}

var _ fieldclip.Clipboard = (*Writer)(nil)

// NewWriter returns a Writer that encodes documents with enc before
// handing them to sys.
func NewWriter(sys System, enc *Encoder) *Writer {
	return &Writer{
		sys:     sys,
		encoder: enc,
	}
}

// WriteRTF encodes document and replaces the clipboard contents with it.
// Encoding happens before the clipboard is opened, so a document that
// cannot be encoded leaves the clipboard untouched.
func (w *Writer) WriteRTF(ctx context.Context, document string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := w.encoder.Encode(document)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.publish(data); err != nil {
		return fieldclip.ErrClipboard(err)
	}
	return nil
}

func (w *Writer) publish(data []byte) (err error) {
	if err := w.sys.Open(); err != nil {
		return fmt.Errorf("open clipboard: %w", err)
	}
	defer func() {
		if cerr := w.sys.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close clipboard: %w", cerr))
		}
	}()

	if err := w.sys.Empty(); err != nil {
		return fmt.Errorf("empty clipboard: %w", err)
	}
	format, err := w.sys.RegisterFormat(FormatRTF)
	if err != nil {
		return fmt.Errorf("register %q format: %w", FormatRTF, err)
	}
	if err := w.sys.SetData(format, data); err != nil {
		return fmt.Errorf("set clipboard data: %w", err)
	}
	return nil
}
