package rtf

import (
	"context"
	"time"

	"github.com/mergefield/fieldclip"
	"go.uber.org/zap"
)

// CompilerLogger logs every compilation at debug level.
type CompilerLogger struct {
	logger   *zap.Logger
	compiler fieldclip.Compiler
}

// NewCompilerLogger wraps c with logging.
func NewCompilerLogger(log *zap.Logger, c fieldclip.Compiler) *CompilerLogger {
	return &CompilerLogger{
		logger:   log,
		compiler: c,
	}
}

var _ fieldclip.Compiler = (*CompilerLogger)(nil)

func (l *CompilerLogger) Compile(ctx context.Context, n fieldclip.Node) (fragment string, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		kind := zap.String("kind", kindOf(n))
		if err != nil {
			l.logger.Debug("failed to compile field", zap.Error(err), kind, dur)
			return
		}
		l.logger.Debug("field compile", kind, zap.Int("fragment_bytes", len(fragment)), dur)
	}(time.Now())
	return l.compiler.Compile(ctx, n)
}

func kindOf(n fieldclip.Node) string {
	if n == nil {
		return "none"
	}
	if _, ok := n.(*fieldclip.Unknown); ok {
		return "unknown"
	}
	return string(n.Kind())
}
