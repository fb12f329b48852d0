package clipboard_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mergefield/fieldclip/clipboard"
	perrors "github.com/mergefield/fieldclip/kit/platform/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const doc = `{\rtf1\ansi {\field{\*\fldinst { MERGEFIELD "Name" }}{\fldrslt }}\par}`

func newWriter(sys clipboard.System) *clipboard.Writer {
	return clipboard.NewWriter(sys, clipboard.MustEncoder(clipboard.DefaultCodePage))
}

func TestWriter_WriteRTF(t *testing.T) {
	mem := clipboard.NewMemory()
	w := newWriter(mem)

	require.NoError(t, w.WriteRTF(context.Background(), doc))

	got, ok := mem.Data(clipboard.FormatRTF)
	require.True(t, ok)
	assert.Equal(t, []byte(doc), got)
	assert.False(t, mem.IsOpen())
	assert.Equal(t, 1, mem.Writes())

	// Last writer wins.
	require.NoError(t, w.WriteRTF(context.Background(), "second"))
	got, _ = mem.Data(clipboard.FormatRTF)
	assert.Equal(t, []byte("second"), got)
}

func TestWriter_EncodesWithCodePage(t *testing.T) {
	mem := clipboard.NewMemory()
	w := newWriter(mem)

	require.NoError(t, w.WriteRTF(context.Background(), "Zoë"))
	got, _ := mem.Data(clipboard.FormatRTF)
	assert.Equal(t, []byte("Zo\xeb"), got)
}

func TestWriter_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(m *clipboard.Memory)
		doc   string
		code  string
		// opened reports whether the sequence reached Open.
		opened bool
	}{
		{
			name:  "open fails",
			setup: func(m *clipboard.Memory) { m.OpenErr = boom },
			doc:   doc,
			code:  perrors.EUnavailable,
		},
		{
			name:   "empty fails",
			setup:  func(m *clipboard.Memory) { m.EmptyErr = boom },
			doc:    doc,
			code:   perrors.EUnavailable,
			opened: true,
		},
		{
			name:   "set fails",
			setup:  func(m *clipboard.Memory) { m.SetErr = boom },
			doc:    doc,
			code:   perrors.EUnavailable,
			opened: true,
		},
		{
			name:   "close fails",
			setup:  func(m *clipboard.Memory) { m.CloseErr = boom },
			doc:    doc,
			code:   perrors.EUnavailable,
			opened: true,
		},
		{
			name:  "unencodable document",
			setup: func(*clipboard.Memory) {},
			doc:   "日本",
			code:  perrors.EInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := clipboard.NewMemory()
			tt.setup(mem)
			w := newWriter(mem)

			err := w.WriteRTF(context.Background(), tt.doc)
			require.Error(t, err)
			assert.Equal(t, tt.code, perrors.ErrorCode(err))
			assert.False(t, mem.IsOpen(), "clipboard left open")
			if tt.code == perrors.EUnavailable {
				assert.ErrorIs(t, err, boom)
			}
			if !tt.opened {
				assert.Equal(t, 0, mem.Writes())
			}
		})
	}
}

func TestWriter_SetAndCloseErrorsCombined(t *testing.T) {
	setErr := errors.New("set failed")
	closeErr := errors.New("close failed")
	mem := clipboard.NewMemory()
	mem.SetErr = setErr
	mem.CloseErr = closeErr

	err := newWriter(mem).WriteRTF(context.Background(), doc)
	require.Error(t, err)

	var perr *perrors.Error
	require.True(t, errors.As(err, &perr))
	assert.Len(t, multierr.Errors(perr.Err), 2)
	assert.ErrorIs(t, err, setErr)
	assert.ErrorIs(t, err, closeErr)
}

func TestWriter_CanceledContext(t *testing.T) {
	mem := clipboard.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newWriter(mem).WriteRTF(ctx, doc)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, mem.Writes())
}

func TestWriter_Concurrent(t *testing.T) {
	mem := clipboard.NewMemory()
	w := newWriter(mem)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Memory rejects a second Open, so overlapping sequences fail.
			assert.NoError(t, w.WriteRTF(context.Background(), doc))
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, mem.Writes())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.rtf")
	w := newWriter(&clipboard.File{Path: path})

	require.NoError(t, w.WriteRTF(context.Background(), "first"))
	require.NoError(t, w.WriteRTF(context.Background(), "café"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("caf\xe9"), got)
}

func TestFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "field.rtf")
	err := newWriter(&clipboard.File{Path: path}).WriteRTF(context.Background(), doc)
	require.Error(t, err)
	assert.Equal(t, perrors.EUnavailable, perrors.ErrorCode(err))
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mem := clipboard.NewMemory()
	l := clipboard.NewLogger(zap.New(core), newWriter(mem))

	require.NoError(t, l.WriteRTF(context.Background(), doc))
	mem.OpenErr = errors.New("locked")
	require.Error(t, l.WriteRTF(context.Background(), doc))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "clipboard write", entries[0].Message)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, "failed to write clipboard", entries[1].Message)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestMetrics(t *testing.T) {
	mem := clipboard.NewMemory()
	m := clipboard.NewMetrics(newWriter(mem))
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.PrometheusCollectors()...)

	require.NoError(t, m.WriteRTF(context.Background(), "abcd"))
	mem.SetErr = errors.New("nope")
	require.Error(t, m.WriteRTF(context.Background(), "abcd"))

	count, err := testutil.GatherAndCount(reg, "fieldclip_clipboard_writes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, float64(4), testutil.ToFloat64(m.PrometheusCollectors()[1]))
}
