package strutil

import "iter"

// WalkParams iterates over semicolon-separated key=value parameters of a
// header, e.g. `name="field"; filename="a.txt"`. Values may be bare tokens
// or quoted strings; quoted values are unescaped via Unquote. Semicolons and
// escaped quotes inside a quoted value don't split it. An empty key-value
// pair is yielded on grammar violations, by which the error is signalized.
func WalkParams(params string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for len(params) > 0 {
			params = LStripWS(params)
			if len(params) == 0 {
				return
			}

			eq := -1
			for i := 0; i < len(params); i++ {
				c := params[i]
				if c == '=' {
					eq = i
					break
				}

				if c == ';' || c == '"' {
					break
				}
			}

			if eq <= 0 {
				yield("", "")
				return
			}

			key := RStripWS(params[:eq])
			params = params[eq+1:]

			var value string
			if len(params) > 0 && params[0] == '"' {
				end := closingQuote(params)
				if end == -1 {
					yield("", "")
					return
				}

				value = Unquote(params[:end+1])
				params = LStripWS(params[end+1:])
				if len(params) > 0 {
					if params[0] != ';' {
						yield("", "")
						return
					}

					params = params[1:]
				}
			} else {
				sep := len(params)
				for i := 0; i < len(params); i++ {
					if params[i] == ';' {
						sep = i
						break
					}
				}

				value = RStripWS(params[:sep])
				if sep < len(params) {
					params = params[sep+1:]
				} else {
					params = ""
				}
			}

			if !yield(key, value) {
				return
			}
		}
	}
}

// closingQuote returns the index of the quote terminating a quoted string
// opened at position zero, respecting backslash escapes. -1 stands for an
// unterminated string.
func closingQuote(str string) int {
	for i := 1; i < len(str); i++ {
		switch str[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}

	return -1
}
