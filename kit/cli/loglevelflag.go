package cli

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// levelFlag adapts a zapcore.Level to pflag.Value.
type levelFlag zapcore.Level

func (l *levelFlag) String() string { return zapcore.Level(*l).String() }

func (l *levelFlag) Type() string { return "Log-Level" }

func (l *levelFlag) Set(s string) error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("unknown log level %q; supported levels are debug, info, warn, error", s)
	}
	*l = levelFlag(level)
	return nil
}
