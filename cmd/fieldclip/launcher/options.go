package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/bolt"
	"github.com/mergefield/fieldclip/clipboard"
	"github.com/mergefield/fieldclip/inmem"
	"github.com/mergefield/fieldclip/kit/cli"
	"github.com/mergefield/fieldclip/logger"
	"github.com/mergefield/fieldclip/rtf"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// BoltStore stores the field catalog in a bolt file.
	BoltStore = "bolt"
	// MemoryStore keeps the field catalog in memory.
	MemoryStore = "memory"

	// SystemClipboard writes to the desktop clipboard.
	SystemClipboard = "system"
	// MemoryClipboard keeps the last document in process.
	MemoryClipboard = "memory"
	// FileClipboard writes each document to a file.
	FileClipboard = "file"
)

// Options holds every configurable setting of the fieldclip commands.
type Options struct {
	LogLevel  zapcore.Level
	LogFormat string

	HTTPBindAddress string
	HTTPReadTimeout time.Duration
	MaxRequestBytes int64
	MetricsDisabled bool

	MaxDepth int
	Strict   bool
	Escape   bool

	Clipboard     string
	ClipboardFile string
	CodePage      string
	FontName      string
	FontSize      int

	StoreType string
	BoltPath  string
}

// NewOptions returns Options holding the defaults.
func NewOptions() *Options {
	env := rtf.DefaultEnvelope()
	return &Options{
		LogLevel:        zapcore.InfoLevel,
		LogFormat:       "auto",
		HTTPBindAddress: "127.0.0.1:5000",
		HTTPReadTimeout: 10 * time.Second,
		MaxRequestBytes: 1 << 20,
		MaxDepth:        fieldclip.DefaultMaxDepth,
		Clipboard:       SystemClipboard,
		CodePage:        clipboard.DefaultCodePage,
		FontName:        env.FontName,
		FontSize:        env.FontSize,
		StoreType:       BoltStore,
		BoltPath:        filepath.Join(Dir(), "fieldclip.bolt"),
	}
}

// Dir returns the directory holding fieldclip state, ~/.fieldclip by default.
func Dir() string {
	var dir string
	if u, err := user.Current(); err == nil {
		dir = u.HomeDir
	} else if home := os.Getenv("HOME"); home != "" {
		dir = home
	} else if wd, err := os.Getwd(); err == nil {
		dir = wd
	}
	return filepath.Join(dir, ".fieldclip")
}

func (o *Options) loggingOpts() []cli.Opt {
	return []cli.Opt{
		{
			DestP:   &o.LogLevel,
			Flag:    "log-level",
			Default: o.LogLevel,
			Desc:    "supported log levels are debug, info, warn and error",
		},
		{
			DestP:   &o.LogFormat,
			Flag:    "log-format",
			Default: o.LogFormat,
			Desc:    "log output format: auto, console, logfmt or json",
		},
	}
}

func (o *Options) httpOpts() []cli.Opt {
	return []cli.Opt{
		{
			DestP:   &o.HTTPBindAddress,
			Flag:    "http-bind-address",
			Default: o.HTTPBindAddress,
			Desc:    "bind address for the HTTP API and web page",
		},
		{
			DestP:   &o.HTTPReadTimeout,
			Flag:    "http-read-timeout",
			Default: o.HTTPReadTimeout,
			Desc:    "max duration the server should spend trying to read an HTTP request; 0 means unlimited",
		},
		{
			DestP:   &o.MaxRequestBytes,
			Flag:    "max-request-bytes",
			Default: o.MaxRequestBytes,
			Desc:    "maximum size of an HTTP request body in bytes; 0 means unlimited",
		},
		{
			DestP:   &o.MetricsDisabled,
			Flag:    "metrics-disabled",
			Default: o.MetricsDisabled,
			Desc:    "don't expose metrics over HTTP at /metrics",
		},
	}
}

func (o *Options) compilerOpts() []cli.Opt {
	return []cli.Opt{
		{
			DestP:   &o.MaxDepth,
			Flag:    "max-depth",
			Default: o.MaxDepth,
			Desc:    "maximum nesting depth of a field description; 0 means unlimited",
		},
		{
			DestP:   &o.Strict,
			Flag:    "strict",
			Default: o.Strict,
			Desc:    "reject unknown field types and unsupported condition operators",
		},
		{
			DestP:   &o.Escape,
			Flag:    "escape",
			Default: o.Escape,
			Desc:    "escape field names and condition values instead of interpolating them verbatim",
		},
		{
			DestP:   &o.FontName,
			Flag:    "font-name",
			Default: o.FontName,
			Desc:    "font declared by the RTF document",
		},
		{
			DestP:   &o.FontSize,
			Flag:    "font-size",
			Default: o.FontSize,
			Desc:    "font size of the RTF document in half points",
		},
	}
}

func (o *Options) clipboardOpts() []cli.Opt {
	return []cli.Opt{
		{
			DestP:   &o.Clipboard,
			Flag:    "clipboard",
			Default: o.Clipboard,
			Desc:    "clipboard to write to: system, memory or file",
		},
		{
			DestP: &o.ClipboardFile,
			Flag:  "clipboard-file",
			Desc:  "path written by the file clipboard",
		},
	}
}

func (o *Options) encodingOpts() []cli.Opt {
	return []cli.Opt{
		{
			DestP:   &o.CodePage,
			Flag:    "code-page",
			Default: o.CodePage,
			Desc:    "Windows ANSI code page the RTF document is declared and encoded with",
		},
	}
}

func (o *Options) storeOpts() []cli.Opt {
	return []cli.Opt{
		{
			DestP:   &o.StoreType,
			Flag:    "store",
			Default: o.StoreType,
			Desc:    "backing store for the field catalog (bolt or memory)",
		},
		{
			DestP:   &o.BoltPath,
			Flag:    "bolt-path",
			Default: o.BoltPath,
			Desc:    "path to boltdb database",
		},
	}
}

// RunOpts returns the options understood by the run command.
func (o *Options) RunOpts() []cli.Opt {
	var opts []cli.Opt
	opts = append(opts, o.loggingOpts()...)
	opts = append(opts, o.httpOpts()...)
	opts = append(opts, o.compilerOpts()...)
	opts = append(opts, o.encodingOpts()...)
	opts = append(opts, o.clipboardOpts()...)
	return append(opts, o.storeOpts()...)
}

// CompileOpts returns the options needed to compile fields offline.
func (o *Options) CompileOpts() []cli.Opt {
	opts := append(o.loggingOpts(), o.compilerOpts()...)
	return append(opts, o.encodingOpts()...)
}

// CopyOpts returns the options needed to compile and copy fields offline.
func (o *Options) CopyOpts() []cli.Opt {
	return append(o.CompileOpts(), o.clipboardOpts()...)
}

// StoreOpts returns the options needed to open the field catalog.
func (o *Options) StoreOpts() []cli.Opt {
	return append(o.loggingOpts(), o.storeOpts()...)
}

// NewLogger builds the logger configured by o.
func (o *Options) NewLogger(w io.Writer) (*zap.Logger, error) {
	conf := &logger.Config{
		Format: o.LogFormat,
		Level:  o.LogLevel,
	}
	return conf.New(w)
}

// NewCompiler returns the compiler configured by o.
func (o *Options) NewCompiler() *rtf.Compiler {
	return rtf.NewCompiler(
		rtf.WithStrict(o.Strict),
		rtf.WithEscaping(o.Escape),
	)
}

// NewEncoder returns the code page encoder configured by o.
func (o *Options) NewEncoder() (*clipboard.Encoder, error) {
	return clipboard.NewEncoder(o.CodePage)
}

// Envelope returns the document wrapper for documents encoded with enc.
func (o *Options) Envelope(enc *clipboard.Encoder) rtf.Envelope {
	env := rtf.DefaultEnvelope()
	env.FontName = o.FontName
	env.FontSize = o.FontSize
	env.CodePage = enc.CodePage()
	return env
}

// NewClipboardSystem returns the clipboard System selected by o.
func (o *Options) NewClipboardSystem() (clipboard.System, error) {
	switch o.Clipboard {
	case SystemClipboard:
		return clipboard.NewSystem()
	case MemoryClipboard:
		return clipboard.NewMemory(), nil
	case FileClipboard:
		if o.ClipboardFile == "" {
			return nil, fmt.Errorf("--clipboard-file is required with the %s clipboard", FileClipboard)
		}
		return &clipboard.File{Path: o.ClipboardFile}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard %q; expected %s, %s or %s", o.Clipboard, SystemClipboard, MemoryClipboard, FileClipboard)
	}
}

// Catalog is a field catalog that must be closed after use.
type Catalog interface {
	fieldclip.FieldCatalog
	io.Closer
}

type memCatalog struct {
	*inmem.Service
}

func (memCatalog) Close() error { return nil }

// OpenCatalog opens the field catalog selected by o.
func (o *Options) OpenCatalog(ctx context.Context, log *zap.Logger) (Catalog, error) {
	switch o.StoreType {
	case BoltStore:
		c := bolt.NewClient(log.With(zap.String("service", "bolt")))
		c.Path = o.BoltPath
		if err := c.Open(ctx); err != nil {
			return nil, err
		}
		return c, nil
	case MemoryStore:
		return memCatalog{inmem.NewService()}, nil
	default:
		return nil, fmt.Errorf("unknown store type %s; expected %s or %s", o.StoreType, BoltStore, MemoryStore)
	}
}
