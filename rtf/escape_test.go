package rtf

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "FirstName", want: "FirstName"},
		{in: `a"b`, want: `a\\"b`},
		{in: `C:\docs`, want: `C:\\\\docs`},
		{in: "{x}", want: `\{x\}`},
		{in: "café", want: `caf\u233?`},
		{in: "€", want: `\u8364?`},
		{in: "日本", want: `\u26085?\u26412?`},
		// U+1F600 is written as a surrogate pair of signed values.
		{in: "😀", want: `\u-10179?\u-8704?`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Escape(tt.in); got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
