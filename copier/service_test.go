package copier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/clipboard"
	"github.com/mergefield/fieldclip/copier"
	perrors "github.com/mergefield/fieldclip/kit/platform/errors"
	"github.com/mergefield/fieldclip/rtf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, strict bool) (*copier.Service, *clipboard.Memory) {
	t.Helper()
	mem := clipboard.NewMemory()
	w := clipboard.NewWriter(mem, clipboard.MustEncoder(clipboard.DefaultCodePage))
	return copier.NewService(rtf.NewCompiler(rtf.WithStrict(strict)), rtf.DefaultEnvelope(), w), mem
}

func TestService_Copy(t *testing.T) {
	svc, mem := newService(t, false)

	res, err := svc.Copy(context.Background(), &fieldclip.Simple{Name: "Email"})
	require.NoError(t, err)

	want := rtf.MergeFieldRef("Email")
	assert.Equal(t, want, res.Fragment)
	assert.Equal(t, rtf.Document(want), res.Document)

	got, ok := mem.Data(clipboard.FormatRTF)
	require.True(t, ok)
	assert.Equal(t, []byte(res.Document), got)
}

func TestService_CopyUnknownLenient(t *testing.T) {
	svc, mem := newService(t, false)

	res, err := svc.Copy(context.Background(), &fieldclip.Unknown{Type: "date"})
	require.NoError(t, err)
	assert.Equal(t, "", res.Fragment)
	assert.Equal(t, rtf.Document(""), res.Document)
	assert.Equal(t, 1, mem.Writes())
}

func TestService_CompileErrorSkipsClipboard(t *testing.T) {
	svc, mem := newService(t, true)

	_, err := svc.Copy(context.Background(), &fieldclip.Unknown{Type: "date"})
	require.Error(t, err)
	assert.Equal(t, perrors.EInvalid, perrors.ErrorCode(err))
	assert.Equal(t, 0, mem.Writes())
}

func TestService_ClipboardError(t *testing.T) {
	svc, mem := newService(t, false)
	mem.OpenErr = errors.New("in use")

	_, err := svc.Copy(context.Background(), &fieldclip.Simple{Name: "A"})
	require.Error(t, err)
	assert.Equal(t, perrors.EUnavailable, perrors.ErrorCode(err))
}

func TestService_RenderWithoutClipboard(t *testing.T) {
	env := rtf.DefaultEnvelope()
	env.FontName = "Arial"
	svc := copier.NewService(rtf.NewCompiler(), env, nil)

	res, err := svc.Render(context.Background(), &fieldclip.Text{Value: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Fragment)
	assert.Contains(t, res.Document, `\fcharset0 Arial;`)

	_, err = svc.Copy(context.Background(), &fieldclip.Text{Value: "hi"})
	require.Error(t, err)
	assert.Equal(t, perrors.EUnavailable, perrors.ErrorCode(err))
}
