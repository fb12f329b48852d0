// Package copier ties the compiler, the RTF envelope and the clipboard
// together into the copy operation served over HTTP and the CLI.
package copier

import (
	"context"

	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/rtf"
)

// Result holds the output of one compilation.
type Result struct {
	Fragment string `json:"fragment"`
	Document string `json:"document"`
}

// Service compiles field trees and publishes them on a clipboard.
type Service struct {
	compiler  fieldclip.Compiler
	envelope  rtf.Envelope
	clipboard fieldclip.Clipboard
}

// NewService returns a Service. clipboard may be nil when only Render is
// used.
func NewService(c fieldclip.Compiler, env rtf.Envelope, clipboard fieldclip.Clipboard) *Service {
	return &Service{
		compiler:  c,
		envelope:  env,
		clipboard: clipboard,
	}
}

// Render compiles n and wraps the fragment in the envelope.
func (s *Service) Render(ctx context.Context, n fieldclip.Node) (*Result, error) {
	fragment, err := s.compiler.Compile(ctx, n)
	if err != nil {
		return nil, err
	}
	return &Result{
		Fragment: fragment,
		Document: s.envelope.Wrap(fragment),
	}, nil
}

// Copy renders n and writes the document to the clipboard.
func (s *Service) Copy(ctx context.Context, n fieldclip.Node) (*Result, error) {
	res, err := s.Render(ctx, n)
	if err != nil {
		return nil, err
	}
	if s.clipboard == nil {
		return nil, fieldclip.ErrClipboard(errNoClipboard)
	}
	if err := s.clipboard.WriteRTF(ctx, res.Document); err != nil {
		return nil, err
	}
	return res, nil
}
