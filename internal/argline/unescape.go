package argline

import (
	"strings"

	"github.com/funvibe/sigbind/internal/diagnostics"
)

// Unescape decodes backslash escape sequences the user typed literally
// (\n, \t, \xNN, \uNNNN, ...). Unknown escapes are kept verbatim.
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var sb strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' || i == len(runes)-1 {
			sb.WriteRune(runes[i])
			continue
		}

		i++
		switch runes[i] {
		case 'n':
			sb.WriteRune('\n')
		case 't':
			sb.WriteRune('\t')
		case 'r':
			sb.WriteRune('\r')
		case 'a':
			sb.WriteRune('\a')
		case 'b':
			sb.WriteRune('\b')
		case 'f':
			sb.WriteRune('\f')
		case 'v':
			sb.WriteRune('\v')
		case '0':
			sb.WriteRune(0)
		case '\\':
			sb.WriteRune('\\')
		case '\'':
			sb.WriteRune('\'')
		case '"':
			sb.WriteRune('"')
		case 'x':
			r, n, err := decodeHex(runes[i+1:], 2)
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			i += n
		case 'u':
			r, n, err := decodeHex(runes[i+1:], 4)
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			i += n
		case 'U':
			r, n, err := decodeHex(runes[i+1:], 8)
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			i += n
		default:
			// Not an escape we know: keep both characters.
			sb.WriteRune('\\')
			sb.WriteRune(runes[i])
		}
	}

	return sb.String(), nil
}

func decodeHex(runes []rune, width int) (rune, int, error) {
	if len(runes) < width {
		return 0, 0, diagnostics.Newf(diagnostics.ErrR001,
			"truncated hex escape, want %d digits", width)
	}
	var v rune
	for i := 0; i < width; i++ {
		d := hexDigit(runes[i])
		if d < 0 {
			return 0, 0, diagnostics.Newf(diagnostics.ErrR001,
				"invalid hex digit %q in escape", runes[i])
		}
		v = v<<4 | rune(d)
	}
	return v, width, nil
}

func hexDigit(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return -1
}
