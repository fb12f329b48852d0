package cli

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// PrintConfig writes the current value of every option to w, keyed by flag
// name, in the given format ("yaml" or "toml"). The output can be saved and
// pointed at by the program's CONFIG_PATH variable.
func PrintConfig(opts []Opt, w io.Writer, format string) error {
	conf := make(map[string]interface{}, len(opts))
	for _, o := range opts {
		if o.Hidden {
			continue
		}
		conf[o.Flag] = printableValue(o.DestP)
	}

	switch format {
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(conf); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(w).Encode(conf)
	default:
		return fmt.Errorf("unknown config format %q; supported formats are yaml and toml", format)
	}
}

func printableValue(destP interface{}) interface{} {
	switch v := destP.(type) {
	case *zapcore.Level:
		return v.String()
	case *time.Duration:
		return v.String()
	case pflag.Value:
		return v.String()
	}
	rv := reflect.ValueOf(destP)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return nil
}
