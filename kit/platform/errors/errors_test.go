package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/mergefield/fieldclip/kit/platform/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMsg(t *testing.T) {
	cases := []struct {
		name string
		err  error
		msg  string
	}{
		{
			name: "simple error",
			err:  &errors.Error{Code: errors.ENotFound},
			msg:  "<not found>",
		},
		{
			name: "with message",
			err:  &errors.Error{Code: errors.EInvalid, Msg: "bad field"},
			msg:  "bad field",
		},
		{
			name: "with message and err",
			err: &errors.Error{
				Code: errors.EUnavailable,
				Msg:  "clipboard busy",
				Err:  stderrors.New("access denied"),
			},
			msg: "clipboard busy: access denied",
		},
		{
			name: "nested",
			err: &errors.Error{
				Op:  "http/handleCopy",
				Err: &errors.Error{Code: errors.EInvalid, Msg: "missing condition_field"},
			},
			msg: "missing condition_field",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.msg, c.err.Error())
		})
	}
}

func TestErrorCodeOpMessage(t *testing.T) {
	inner := &errors.Error{Code: errors.EInvalid, Msg: "unknown operator", Op: "rtf/Compile"}
	outer := &errors.Error{Op: "http/handleCompile", Err: inner}

	assert.Equal(t, errors.EInvalid, errors.ErrorCode(outer))
	assert.Equal(t, "http/handleCompile", errors.ErrorOp(outer))
	assert.Equal(t, "unknown operator", errors.ErrorMessage(outer))

	wrapped := fmt.Errorf("compiling: %w", inner)
	assert.Equal(t, errors.EInvalid, errors.ErrorCode(wrapped))

	plain := stderrors.New("boom")
	assert.Equal(t, errors.EInternal, errors.ErrorCode(plain))
	assert.Equal(t, "An internal error has occurred.", errors.ErrorMessage(plain))
	assert.Equal(t, "", errors.ErrorCode(nil))
}
