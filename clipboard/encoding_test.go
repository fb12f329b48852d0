package clipboard_test

import (
	"testing"

	"github.com/mergefield/fieldclip/clipboard"
	"github.com/mergefield/fieldclip/kit/platform/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncoder(t *testing.T) {
	tests := []struct {
		name     string
		codePage int
		want     string
		wantErr  bool
	}{
		{name: "windows-1252", codePage: 1252, want: "windows-1252"},
		{name: "Windows-1252", codePage: 1252, want: "windows-1252"},
		{name: "cp1252", codePage: 1252, want: "windows-1252"},
		{name: "windows-1250", codePage: 1250, want: "windows-1250"},
		{name: "cp1251", codePage: 1251, want: "windows-1251"},
		{name: "utf-8", wantErr: true},
		{name: "iso-8859-1", wantErr: true},
		{name: "no-such-charset", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := clipboard.NewEncoder(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, enc.Name())
			assert.Equal(t, tt.codePage, enc.CodePage())
		})
	}
}

func TestEncoder_Encode(t *testing.T) {
	enc := clipboard.MustEncoder(clipboard.DefaultCodePage)

	b, err := enc.Encode(`{\rtf1 café €}`)
	require.NoError(t, err)
	assert.Equal(t, []byte("{\\rtf1 caf\xe9 \x80}"), b)

	_, err = enc.Encode("日本")
	require.Error(t, err)
	assert.Equal(t, errors.EInvalid, errors.ErrorCode(err))
}

func TestMustEncoder_Panics(t *testing.T) {
	assert.Panics(t, func() { clipboard.MustEncoder("utf-16") })
}
