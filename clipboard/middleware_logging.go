package clipboard

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mergefield/fieldclip"
	"go.uber.org/zap"
)

// Logger logs every clipboard write.
type Logger struct {
	logger    *zap.Logger
	clipboard fieldclip.Clipboard
}

var _ fieldclip.Clipboard = (*Logger)(nil)

// NewLogger wraps c with logging.
func NewLogger(log *zap.Logger, c fieldclip.Clipboard) *Logger {
	return &Logger{
		logger:    log,
		clipboard: c,
	}
}

func (l *Logger) WriteRTF(ctx context.Context, document string) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		size := zap.String("size", humanize.Bytes(uint64(len(document))))
		if err != nil {
			l.logger.Error("failed to write clipboard", zap.Error(err), size, dur)
			return
		}
		l.logger.Debug("clipboard write", size, dur)
	}(time.Now())
	return l.clipboard.WriteRTF(ctx, document)
}
