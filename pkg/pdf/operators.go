package pdf

import (
	"strconv"
	"strings"
)

// decodeTextOperators scans a decoded page content stream for the
// show-text operators (Tj, TJ and the quote forms) and reassembles
// their string operands. Positioning operators that imply a line break
// (Td, TD, T*) emit newlines so tabular portal documents keep their row
// structure.
//
// This covers simply-encoded text as produced by the portal's report
// generator; it makes no attempt at CID font decoding.
func decodeTextOperators(content string) string {
	var out strings.Builder
	i := 0
	n := len(content)

	for i < n {
		switch content[i] {
		case '(':
			text, next := readLiteralString(content, i)
			out.WriteString(text)
			out.WriteByte(' ')
			i = next
		case '<':
			// Hex strings: only even-length simple byte strings are
			// decoded; anything else is skipped.
			if i+1 < n && content[i+1] == '<' {
				i += 2 // dictionary open, not a string
				continue
			}
			text, next := readHexString(content, i)
			if text != "" {
				out.WriteString(text)
				out.WriteByte(' ')
			}
			i = next
		case 'T':
			if i+1 < n {
				switch content[i+1] {
				case '*', 'd', 'D':
					out.WriteByte('\n')
				}
			}
			i += 2
		case '\'', '"':
			out.WriteByte('\n')
			i++
		default:
			i++
		}
	}

	return out.String()
}

// readLiteralString consumes a (...) literal starting at open and
// returns the decoded text plus the index after the closing paren.
func readLiteralString(content string, open int) (string, int) {
	var out strings.Builder
	depth := 0
	i := open

	for i < len(content) {
		c := content[i]
		switch c {
		case '\\':
			if i+1 >= len(content) {
				return out.String(), i + 1
			}
			next := content[i+1]
			switch next {
			case 'n':
				out.WriteByte('\n')
				i += 2
			case 't':
				out.WriteByte('\t')
				i += 2
			case 'r', 'b', 'f':
				i += 2
			case '(', ')', '\\':
				out.WriteByte(next)
				i += 2
			default:
				if next >= '0' && next <= '7' {
					// Up to three octal digits.
					j := i + 1
					for j < len(content) && j < i+4 && content[j] >= '0' && content[j] <= '7' {
						j++
					}
					if code, err := strconv.ParseUint(content[i+1:j], 8, 16); err == nil && code < 256 {
						// Octal escapes address single bytes in a
						// Latin-1-compatible encoding; re-emit as UTF-8.
						out.WriteRune(rune(code))
					}
					i = j
				} else {
					i += 2
				}
			}
		case '(':
			depth++
			if depth > 1 {
				out.WriteByte(c)
			}
			i++
		case ')':
			depth--
			if depth == 0 {
				return out.String(), i + 1
			}
			out.WriteByte(c)
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String(), i
}

// readHexString consumes a <...> hex string starting at open and returns
// printable decoded bytes plus the index after the closing bracket.
func readHexString(content string, open int) (string, int) {
	end := strings.IndexByte(content[open:], '>')
	if end < 0 {
		return "", len(content)
	}
	end += open

	hexDigits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, content[open+1:end])

	if len(hexDigits)%2 != 0 {
		hexDigits += "0"
	}

	var out strings.Builder
	for i := 0; i+1 < len(hexDigits); i += 2 {
		code, err := strconv.ParseUint(hexDigits[i:i+2], 16, 8)
		if err != nil {
			return "", end + 1
		}
		b := byte(code)
		if b >= 0x20 && b < 0x7f {
			out.WriteByte(b)
		}
	}

	return out.String(), end + 1
}
