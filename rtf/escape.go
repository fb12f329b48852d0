package rtf

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// fieldCodeEscaper escapes characters that are special inside a quoted
// Word field-code argument.
var fieldCodeEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Escape makes s safe to interpolate into a field instruction. Backslashes
// and quotes are escaped for Word, then backslashes and braces are escaped
// for RTF and runes outside ASCII become \uN? control words.
func Escape(s string) string {
	return escapeRTF(fieldCodeEscaper.Replace(s))
}

func escapeRTF(s string) string {
	if isPlain(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x80:
			b.WriteRune(r)
		default:
			// \u takes a signed 16-bit value; runes outside the BMP are
			// written as a surrogate pair.
			for _, u := range utf16.Encode([]rune{r}) {
				b.WriteString(`\u`)
				b.WriteString(strconv.Itoa(int(int16(u))))
				b.WriteByte('?')
			}
		}
	}
	return b.String()
}

func isPlain(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 || c == '\\' || c == '{' || c == '}' {
			return false
		}
	}
	return true
}
