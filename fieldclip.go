// Package fieldclip converts Word mail-merge field descriptions into RTF
// field codes and places them on the clipboard.
//
// A description is a small JSON tree:
//
//	{
//	  "type": "check_empty",
//	  "main_field": "Email",
//	  "fallback_content": {"type": "text", "value": "no email on file"}
//	}
//
// DecodeNode turns it into a Node, the rtf package compiles a Node into a
// field-code fragment and an RTF document, and a Clipboard publishes the
// document.
package fieldclip

import "context"

// Compiler turns a field tree into an RTF field-code fragment.
type Compiler interface {
	Compile(ctx context.Context, n Node) (string, error)
}

// Clipboard publishes a complete RTF document as the "Rich Text Format"
// clipboard format.
type Clipboard interface {
	WriteRTF(ctx context.Context, document string) error
}

// FieldCatalog stores the merge field names offered to users while they
// build a field.
type FieldCatalog interface {
	// ListFields returns the field names in import order.
	ListFields(ctx context.Context) ([]string, error)
	// ImportFields replaces the catalog with names and returns how many
	// names were stored after removing blanks and duplicates.
	ImportFields(ctx context.Context, names []string) (int, error)
	// ClearFields empties the catalog.
	ClearFields(ctx context.Context) error
}
