// Package rtf compiles merge field trees into RTF field codes.
package rtf

import (
	"context"
	"strings"

	"github.com/mergefield/fieldclip"
)

const (
	fieldOpen   = `{\field{\*\fldinst { `
	fieldClose  = ` }}{\fldrslt }}`
	mergeField  = `MERGEFIELD "`
	ifField     = `IF `
	quoteClose  = `"`
	branchOpen  = ` "`
	branchClose = `" "`
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithStrict makes the compiler reject unknown field types and operators
// that Word does not understand instead of emitting nothing for them.
func WithStrict(strict bool) Option {
	return func(c *Compiler) {
		c.strict = strict
	}
}

// WithEscaping escapes field names, operators and condition values before
// they are interpolated. Text nodes are never escaped.
func WithEscaping(escape bool) Option {
	return func(c *Compiler) {
		c.escape = escape
	}
}

// Compiler turns fieldclip nodes into RTF field-code fragments. The zero
// value interpolates names verbatim and compiles unknown nodes to nothing.
// A Compiler holds no mutable state and is safe for concurrent use.
type Compiler struct {
	strict bool
	escape bool
}

var _ fieldclip.Compiler = (*Compiler)(nil)

// NewCompiler returns a Compiler configured by opts.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compile compiles n with the default compiler.
func Compile(n fieldclip.Node) (string, error) {
	var c Compiler
	return c.CompileString(n)
}

// MergeFieldRef returns the MERGEFIELD field code for name, interpolated verbatim.
func MergeFieldRef(name string) string {
	return fieldOpen + mergeField + name + quoteClose + fieldClose
}

// Compile implements fieldclip.Compiler.
func (c *Compiler) Compile(ctx context.Context, n fieldclip.Node) (string, error) {
	return c.CompileString(n)
}

// CompileString returns the RTF fragment for n. A nil node compiles to "".
func (c *Compiler) CompileString(n fieldclip.Node) (string, error) {
	var b strings.Builder
	if err := c.write(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (c *Compiler) write(b *strings.Builder, n fieldclip.Node) error {
	switch n := n.(type) {
	case nil:
		return nil
	case *fieldclip.Simple:
		c.writeRef(b, n.Name)
		return nil
	case *fieldclip.Text:
		b.WriteString(n.Value)
		return nil
	case *fieldclip.If:
		if c.strict && !fieldclip.ValidOperator(n.Operator) {
			return fieldclip.ErrInvalidOperator(n.Operator)
		}
		b.WriteString(fieldOpen)
		b.WriteString(ifField)
		c.writeRef(b, n.ConditionField)
		b.WriteByte(' ')
		b.WriteString(c.text(n.Operator))
		b.WriteString(branchOpen)
		b.WriteString(c.text(n.ConditionValue))
		b.WriteString(quoteClose)
		return c.writeBranches(b, n.True, n.False)
	case *fieldclip.CheckEmpty:
		b.WriteString(fieldOpen)
		b.WriteString(ifField)
		c.writeRef(b, n.MainField)
		b.WriteString(` = ""`)
		var fallback fieldclip.Node = n.Fallback
		if fallback == nil {
			fallback = &fieldclip.Simple{Name: n.FallbackField}
		}
		return c.writeBranches(b, fallback, &fieldclip.Simple{Name: n.MainField})
	case *fieldclip.Unknown:
		if c.strict {
			return fieldclip.ErrUnknownType(n.Type)
		}
		return nil
	default:
		if c.strict {
			return fieldclip.ErrUnknownType(string(n.Kind()))
		}
		return nil
	}
}

// writeBranches emits the two quoted IF results and closes the field.
func (c *Compiler) writeBranches(b *strings.Builder, t, f fieldclip.Node) error {
	b.WriteString(branchOpen)
	if err := c.write(b, t); err != nil {
		return err
	}
	b.WriteString(branchClose)
	if err := c.write(b, f); err != nil {
		return err
	}
	b.WriteString(quoteClose)
	b.WriteString(fieldClose)
	return nil
}

func (c *Compiler) writeRef(b *strings.Builder, name string) {
	b.WriteString(MergeFieldRef(c.text(name)))
}

func (c *Compiler) text(s string) string {
	if !c.escape {
		return s
	}
	return Escape(s)
}
