package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSearchQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr error
	}{
		{name: "empty query", query: "", want: ""},
		{name: "plain word", query: "keyboard", want: "keyboard"},
		{name: "sku", query: "KB-MECH-87", want: "KB-MECH-87"},
		{name: "email", query: "morgan.eden@example.com", want: "morgan.eden@example.com"},
		{name: "two words", query: "wireless pro", want: "wireless pro"},
		{name: "padded input is trimmed", query: "  desk lamp  ", want: "desk lamp"},
		{name: "literal percent", query: "50% off", want: "50% off"},
		{
			name:    "over length cap",
			query:   strings.Repeat("a", MaxSearchQueryLength+1),
			wantErr: ErrQueryTooLong,
		},
		{name: "boolean injection", query: "keyboard OR 1=1", wantErr: ErrQueryInvalid},
		{name: "statement keyword", query: "drop table products", wantErr: ErrQueryInvalid},
		{name: "comment marker", query: "lamp --", wantErr: ErrQueryInvalid},
		{name: "timing probe", query: "sleep(5)", wantErr: ErrQueryInvalid},
		{name: "script tag", query: "<script>alert(1)</script>", wantErr: ErrQueryInvalid},
		{name: "semicolon", query: "lamp;desk", wantErr: ErrQueryInvalid},
		{name: "ampersand", query: "usb&hub", wantErr: ErrQueryInvalid},
		{name: "double quote", query: `27" monitor`, wantErr: ErrQueryInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateSearchQuery(tt.query)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeSearchString(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "empty", query: "", want: ""},
		{name: "no specials", query: "keyboard", want: "keyboard"},
		{name: "percent", query: "100%", want: `100\%`},
		{name: "underscore", query: "usb_c", want: `usb\_c`},
		{name: "backslash", query: `a\b`, want: `a\\b`},
		{name: "backslash then wildcard", query: `50\%`, want: `50\\\%`},
		{name: "wildcards only", query: "%_%", want: `\%\_\%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeSearchString(tt.query))
		})
	}
}

func TestIsValidSearchChar(t *testing.T) {
	for _, r := range "aZ5 -_.@+#*%é" {
		assert.True(t, isValidSearchChar(r), "expected %q to be allowed", r)
	}
	for _, r := range `;&<>'"/\(){}=` {
		assert.False(t, isValidSearchChar(r), "expected %q to be rejected", r)
	}
}

func BenchmarkValidateSearchQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ValidateSearchQuery("wireless pro mouse")
	}
}

func BenchmarkSanitizeSearchString(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = SanitizeSearchString("100%_organic")
	}
}
