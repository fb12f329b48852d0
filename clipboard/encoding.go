package clipboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/kit/platform/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultCodePage is the Western European ANSI code page.
const DefaultCodePage = "windows-1252"

// Encoder converts documents into a Windows ANSI code page.
type Encoder struct {
	name     string
	codePage int
	enc      encoding.Encoding
}

// NewEncoder looks up a Windows ANSI code page by its IANA name or alias,
// for example "windows-1252", "cp1252" or "windows-1250".
func NewEncoder(name string) (*Encoder, error) {
	lookup := strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(lookup, "cp") {
		// Windows tooling spells code pages as cpNNNN, IANA as windows-NNNN.
		lookup = "windows-" + strings.TrimPrefix(lookup, "cp")
	}
	enc, err := ianaindex.IANA.Encoding(lookup)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown code page %q", name)
	}
	if _, ok := enc.(*charmap.Charmap); !ok {
		return nil, fmt.Errorf("code page %q is not a single-byte character set", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		return nil, fmt.Errorf("code page %q: %w", name, err)
	}
	cp, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(canonical), "windows-"))
	if err != nil || cp < 1250 || cp > 1258 {
		return nil, fmt.Errorf("code page %q is not a Windows ANSI code page", name)
	}
	return &Encoder{
		name:     canonical,
		codePage: cp,
		enc:      enc,
	}, nil
}

// MustEncoder is like NewEncoder but panics on error.
func MustEncoder(name string) *Encoder {
	e, err := NewEncoder(name)
	if err != nil {
		panic(err)
	}
	return e
}

// Name returns the canonical IANA name of the code page.
func (e *Encoder) Name() string {
	return e.name
}

// CodePage returns the numeric code page, as used by RTF's \ansicpg.
func (e *Encoder) CodePage() int {
	return e.codePage
}

// Encode converts s. Characters outside the code page are an error.
func (e *Encoder) Encode(s string) ([]byte, error) {
	b, err := e.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, &errors.Error{
			Code: errors.EInvalid,
			Op:   fieldclip.OpWriteRTF,
			Msg:  fmt.Sprintf("document contains characters that cannot be represented in %s; enable escaping to write them as unicode", e.name),
			Err:  err,
		}
	}
	return b, nil
}
