package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/bolt"
	"github.com/mergefield/fieldclip/clipboard"
	"github.com/mergefield/fieldclip/copier"
	"github.com/mergefield/fieldclip/http"
	"github.com/mergefield/fieldclip/kit/cli"
	kithttp "github.com/mergefield/fieldclip/kit/transport/http"
	"github.com/mergefield/fieldclip/preview"
	"github.com/mergefield/fieldclip/rtf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NewCommand returns the run command, which serves the HTTP API until
// SIGINT or SIGTERM is received.
func NewCommand(v *viper.Viper) (*cobra.Command, error) {
	l := NewLauncher()
	prog := &cli.Program{
		Name: "fieldclip",
		Opts: l.opts.RunOpts(),
		Run: func() error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := l.run(ctx); err != nil {
				_ = l.Shutdown(ctx)
				return err
			}

			// Serve until signaled or the server fails on its own.
			select {
			case <-ctx.Done():
			case <-l.done:
			}

			// Attempt clean shutdown.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return l.Shutdown(ctx)
		},
	}
	cmd, err := cli.NewCommand(v, prog)
	if err != nil {
		return nil, err
	}
	cmd.Use = "run"
	cmd.Short = "Start the fieldclip HTTP server"
	return cmd, nil
}

// Launcher represents the main program execution.
type Launcher struct {
	opts *Options

	running bool
	cancel  func()
	group   *errgroup.Group
	done    chan struct{}

	catalog    Catalog
	memory     *clipboard.Memory
	copier     *copier.Service
	httpPort   int
	httpServer *nethttp.Server

	logger *zap.Logger
	reg    *prometheus.Registry

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewLauncher returns a new instance of Launcher connected to standard in/out/err.
func NewLauncher() *Launcher {
	return &Launcher{
		opts:   NewOptions(),
		done:   make(chan struct{}),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Running returns true if the main Launcher has started running.
func (m *Launcher) Running() bool {
	return m.running
}

// Registry returns the prometheus metrics registry. It is nil when metrics
// are disabled.
func (m *Launcher) Registry() *prometheus.Registry {
	return m.reg
}

// Logger returns the launchers logger.
func (m *Launcher) Logger() *zap.Logger {
	return m.logger
}

// URL returns the URL to connect to the HTTP server.
func (m *Launcher) URL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", m.httpPort)
}

// FieldCatalog returns the field catalog the server was started with.
func (m *Launcher) FieldCatalog() fieldclip.FieldCatalog {
	return m.catalog
}

// MemoryClipboard returns the in-process clipboard when the launcher runs
// with the memory clipboard, and nil otherwise.
func (m *Launcher) MemoryClipboard() *clipboard.Memory {
	return m.memory
}

// Run executes the program with the given CLI arguments. It returns once
// the server is listening; call Shutdown to stop it.
func (m *Launcher) Run(ctx context.Context, args ...string) error {
	prog := &cli.Program{
		Name: "fieldclip",
		Opts: m.opts.RunOpts(),
		Run:  func() error { return m.run(ctx) },
	}
	cmd, err := cli.NewCommand(viper.New(), prog)
	if err != nil {
		return err
	}
	cmd.SetArgs(args)
	cmd.SetOut(m.Stdout)
	cmd.SetErr(m.Stderr)
	cmd.SilenceUsage = true
	return cmd.Execute()
}

// Wait blocks until the HTTP server stops.
func (m *Launcher) Wait() error {
	if m.group == nil {
		return nil
	}
	return m.group.Wait()
}

// Shutdown shuts down the HTTP server and waits for all services to clean up.
func (m *Launcher) Shutdown(ctx context.Context) error {
	if m.logger == nil {
		m.logger = zap.NewNop()
	}

	var err error
	if m.httpServer != nil {
		m.logger.Info("Stopping", zap.String("service", "http"))
		if serr := m.httpServer.Shutdown(ctx); serr != nil {
			err = multierr.Append(err, fmt.Errorf("shutting down http server: %w", serr))
		}
	}
	if werr := m.Wait(); werr != nil {
		err = multierr.Append(err, werr)
	}

	if m.catalog != nil {
		m.logger.Info("Stopping", zap.String("service", "catalog"))
		if cerr := m.catalog.Close(); cerr != nil {
			m.logger.Error("Failed closing field catalog", zap.Error(cerr))
			err = multierr.Append(err, cerr)
		}
	}

	if m.cancel != nil {
		m.cancel()
	}
	_ = m.logger.Sync()
	return err
}

func (m *Launcher) run(ctx context.Context) (err error) {
	m.running = true
	ctx, m.cancel = context.WithCancel(ctx)

	m.logger, err = m.opts.NewLogger(m.Stdout)
	if err != nil {
		return err
	}
	m.logger.Info("Welcome to fieldclip",
		zap.String("clipboard", m.opts.Clipboard),
		zap.String("store", m.opts.StoreType),
	)

	m.catalog, err = m.opts.OpenCatalog(ctx, m.logger)
	if err != nil {
		m.logger.Error("Failed opening field catalog", zap.Error(err))
		return err
	}

	enc, err := m.opts.NewEncoder()
	if err != nil {
		return err
	}
	sys, err := m.opts.NewClipboardSystem()
	if err != nil {
		m.logger.Error("Failed opening clipboard", zap.Error(err))
		return err
	}
	if mem, ok := sys.(*clipboard.Memory); ok {
		m.memory = mem
	}

	var compiler fieldclip.Compiler = m.opts.NewCompiler()
	var clip fieldclip.Clipboard = clipboard.NewWriter(sys, enc)
	var httpMetrics *kithttp.HTTPMetrics
	var metricsHandler nethttp.Handler

	if !m.opts.MetricsDisabled {
		m.reg = prometheus.NewRegistry()
		m.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		compilerMetrics := rtf.NewCompilerMetrics(compiler)
		m.reg.MustRegister(compilerMetrics.PrometheusCollectors()...)
		compiler = compilerMetrics

		clipMetrics := clipboard.NewMetrics(clip)
		m.reg.MustRegister(clipMetrics.PrometheusCollectors()...)
		clip = clipMetrics

		switch c := m.catalog.(type) {
		case *bolt.Client:
			m.reg.MustRegister(c)
		case memCatalog:
			m.reg.MustRegister(c.PrometheusCollectors()...)
		}

		httpMetrics = kithttp.NewHTTPMetrics("fieldclip")
		m.reg.MustRegister(httpMetrics.PrometheusCollectors()...)
		metricsHandler = promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
	}

	compiler = rtf.NewCompilerLogger(m.logger.With(zap.String("service", "compiler")), compiler)
	clip = clipboard.NewLogger(m.logger.With(zap.String("service", "clipboard")), clip)
	m.copier = copier.NewService(compiler, m.opts.Envelope(enc), clip)

	ev, err := preview.NewEvaluator()
	if err != nil {
		return err
	}

	httpLogger := m.logger.With(zap.String("service", "http"))
	handler := http.NewHandler(&http.Backend{
		Log:             httpLogger,
		Copier:          m.copier,
		Fields:          m.catalog,
		Preview:         ev,
		MaxDepth:        m.opts.MaxDepth,
		MaxRequestBytes: m.opts.MaxRequestBytes,
		HTTPMetrics:     httpMetrics,
		MetricsHandler:  metricsHandler,
	})

	m.httpServer = &nethttp.Server{
		Handler:           handler,
		ReadTimeout:       m.opts.HTTPReadTimeout,
		ReadHeaderTimeout: m.opts.HTTPReadTimeout,
		ErrorLog:          zap.NewStdLog(httpLogger),
	}

	ln, err := net.Listen("tcp", m.opts.HTTPBindAddress)
	if err != nil {
		httpLogger.Error("Failed http listener", zap.Error(err))
		httpLogger.Info("Stopping")
		return err
	}

	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		m.httpPort = addr.Port
	}

	m.group = &errgroup.Group{}
	m.group.Go(func() error {
		defer close(m.done)
		httpLogger.Info("Listening",
			zap.String("transport", "http"),
			zap.String("addr", m.opts.HTTPBindAddress),
			zap.Int("port", m.httpPort),
		)

		if err := m.httpServer.Serve(ln); !errors.Is(err, nethttp.ErrServerClosed) {
			httpLogger.Error("Failed http service", zap.Error(err))
			return err
		}
		httpLogger.Info("Stopping")
		return nil
	})

	return nil
}
