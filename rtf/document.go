package rtf

import (
	"strconv"
	"strings"
)

const generator = `{\*\generator Riched20 10.0.19041}`

// Envelope describes the document wrapper placed around a fragment so
// that word processors accept it as a standalone RTF stream.
type Envelope struct {
	// FontName is the single font in the font table.
	FontName string
	// FontSize is in half points.
	FontSize int
	// CodePage is the ANSI code page declared by \ansicpg.
	CodePage int
	// Lang is the paragraph language id.
	Lang int
}

// DefaultEnvelope returns the wrapper that WordPad writes for an
// 11pt Calibri paragraph on a Western code page.
func DefaultEnvelope() Envelope {
	return Envelope{
		FontName: "Calibri",
		FontSize: 22,
		CodePage: 1252,
		Lang:     9,
	}
}

// Wrap returns a complete RTF document holding fragment in one paragraph.
func (e Envelope) Wrap(fragment string) string {
	var b strings.Builder
	b.Grow(len(fragment) + 256)
	b.WriteString(`{\rtf1\ansi\ansicpg`)
	b.WriteString(strconv.Itoa(e.CodePage))
	b.WriteString(`\deff0\nouicompat\deflang1033{\fonttbl{\f0\fnil\fcharset0 `)
	b.WriteString(e.FontName)
	b.WriteString(`;}}`)
	b.WriteString(generator)
	b.WriteString(`\viewkind4\uc1 \pard\sa200\sl276\slmult1\f0\fs`)
	b.WriteString(strconv.Itoa(e.FontSize))
	b.WriteString(`\lang`)
	b.WriteString(strconv.Itoa(e.Lang))
	b.WriteByte(' ')
	b.WriteString(fragment)
	b.WriteString(`\par}`)
	return b.String()
}

// Document wraps fragment with DefaultEnvelope.
func Document(fragment string) string {
	return DefaultEnvelope().Wrap(fragment)
}
