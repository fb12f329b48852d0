package fieldclip

import (
	"fmt"

	"github.com/mergefield/fieldclip/kit/platform/errors"
)

const (
	OpDecodeNode   = "fieldclip/DecodeNode"
	OpCompile      = "fieldclip/Compile"
	OpWriteRTF     = "fieldclip/WriteRTF"
	OpImportFields = "fieldclip/ImportFields"
	OpListFields   = "fieldclip/ListFields"
	OpClearFields  = "fieldclip/ClearFields"
	OpPreview      = "fieldclip/Preview"
)

var (
	// ErrMissingField is returned when a field description is empty or null.
	ErrMissingField = &errors.Error{
		Code: errors.EInvalid,
		Op:   OpDecodeNode,
		Msg:  "field description is required",
	}

	// ErrMissingConditionField is returned when an if field omits condition_field.
	ErrMissingConditionField = &errors.Error{
		Code: errors.EInvalid,
		Op:   OpDecodeNode,
		Msg:  "condition_field is required for an if field",
	}

	// ErrEmptyFieldList is returned when an import contains no field names.
	ErrEmptyFieldList = &errors.Error{
		Code: errors.EInvalid,
		Op:   OpImportFields,
		Msg:  "field list contains no field names",
	}
)

// ErrInvalidFieldJSON wraps a JSON syntax or type error in a field description.
func ErrInvalidFieldJSON(err error) *errors.Error {
	return &errors.Error{
		Code: errors.EInvalid,
		Op:   OpDecodeNode,
		Msg:  "invalid field description",
		Err:  err,
	}
}

// ErrMaxDepth is returned when a field description nests deeper than allowed.
func ErrMaxDepth(max int) *errors.Error {
	return &errors.Error{
		Code: errors.EInvalid,
		Op:   OpDecodeNode,
		Msg:  fmt.Sprintf("field nesting exceeds the maximum depth of %d", max),
	}
}

// ErrUnknownType is returned by strict compilers for an unrecognized type tag.
func ErrUnknownType(typ string) *errors.Error {
	msg := fmt.Sprintf("unknown field type %q", typ)
	if typ == "" {
		msg = "field type is missing"
	}
	return &errors.Error{
		Code: errors.EInvalid,
		Op:   OpCompile,
		Msg:  msg,
	}
}

// ErrInvalidOperator is returned by strict compilers for an operator Word
// does not understand.
func ErrInvalidOperator(op string) *errors.Error {
	return &errors.Error{
		Code: errors.EInvalid,
		Op:   OpCompile,
		Msg:  fmt.Sprintf("unsupported condition operator %q; supported operators are %v", op, Operators),
	}
}

// ErrClipboard wraps a failure reported by the clipboard.
func ErrClipboard(err error) *errors.Error {
	return &errors.Error{
		Code: errors.EUnavailable,
		Op:   OpWriteRTF,
		Msg:  "unable to write to the clipboard",
		Err:  err,
	}
}

// ErrInternalServiceError is used when the error comes from an internal system.
func ErrInternalServiceError(op string, err error) *errors.Error {
	return &errors.Error{
		Code: errors.EInternal,
		Op:   op,
		Err:  err,
	}
}
