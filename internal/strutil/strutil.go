package strutil

import "strings"

func LStripWS(str string) string {
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case ' ', '\t':
		default:
			return str[i:]
		}
	}

	return ""
}

func RStripWS(str string) string {
	for i := len(str); i > 0; i-- {
		switch str[i-1] {
		case ' ', '\t':
		default:
			return str[:i]
		}
	}

	return ""
}

func TrimWS(str string) string {
	return RStripWS(LStripWS(str))
}

// CutHeader behaves exactly as strings.Cut with ';' as the separator, but
// strips whitespaces between the value and the first-encountered parameter
// in addition.
func CutHeader(header string) (value, params string) {
	sep := strings.IndexByte(header, ';')
	if sep == -1 {
		return header, ""
	}

	return header[:sep], LStripWS(header[sep+1:])
}

// Unquote strips a surrounding pair of double quotes and resolves the
// backslash escapes of `"` and `\` inside. Unquoted input is returned as-is.
// Browsers quote this way instead of the full RFC 2231 machinery, so this is
// the grammar seen on the wire.
func Unquote(str string) string {
	if len(str) < 2 || str[0] != '"' || str[len(str)-1] != '"' {
		return str
	}

	str = str[1 : len(str)-1]
	if strings.IndexByte(str, '\\') == -1 {
		return str
	}

	var b strings.Builder
	b.Grow(len(str))

	for i := 0; i < len(str); i++ {
		if str[i] == '\\' && i+1 < len(str) {
			switch str[i+1] {
			case '"', '\\':
				i++
			}
		}

		b.WriteByte(str[i])
	}

	return b.String()
}
