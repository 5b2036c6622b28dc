// FILE: lixenwraith/evtlog/sanitizer/sanitizer.go
// Package sanitizer rewrites record text so it is safe for a given output.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode/utf8"
)

// Policy selects how unsafe runes are rewritten
type Policy string

const (
	PolicyRaw  Policy = "raw"  // Passthrough
	PolicyTxt  Policy = "txt"  // Non-printable runes hex-encoded as "<xx>"
	PolicyJSON Policy = "json" // JSON string escaping, without the quotes
)

const hexDigits = "0123456789abcdef"

// Sanitizer applies one policy to strings
type Sanitizer struct {
	policy Policy
}

// New creates a Sanitizer for the policy, unknown policies behave as raw
func New(policy Policy) *Sanitizer {
	return &Sanitizer{policy: policy}
}

// Policy returns the active policy
func (s *Sanitizer) Policy() Policy {
	return s.policy
}

// Sanitize returns the rewritten form of data
func (s *Sanitizer) Sanitize(data string) string {
	return string(s.Append(make([]byte, 0, len(data)), data))
}

// Append appends the rewritten form of data to buf
func (s *Sanitizer) Append(buf []byte, data string) []byte {
	switch s.policy {
	case PolicyTxt:
		return appendHexEncoded(buf, data)
	case PolicyJSON:
		return appendJSONEscaped(buf, data)
	default:
		return append(buf, data...)
	}
}

// appendHexEncoded keeps printable runes and encodes the UTF-8 bytes of the rest.
// Invalid bytes are encoded one at a time.
func appendHexEncoded(buf []byte, data string) []byte {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRuneInString(data[i:])
		if (r == utf8.RuneError && size == 1) || !strconv.IsPrint(r) {
			buf = append(buf, '<')
			buf = hex.AppendEncode(buf, []byte(data[i:i+size]))
			buf = append(buf, '>')
		} else {
			buf = append(buf, data[i:i+size]...)
		}
		i += size
	}
	return buf
}

// appendJSONEscaped escapes quotes, backslashes and control characters.
// Invalid UTF-8 becomes U+FFFD.
func appendJSONEscaped(buf []byte, data string) []byte {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRuneInString(data[i:])
		switch {
		case r == '"' || r == '\\':
			buf = append(buf, '\\', byte(r))
		case r == '\n':
			buf = append(buf, '\\', 'n')
		case r == '\r':
			buf = append(buf, '\\', 'r')
		case r == '\t':
			buf = append(buf, '\\', 't')
		case r < 0x20 || r == 0x7f:
			buf = append(buf, '\\', 'u', '0', '0', hexDigits[r>>4], hexDigits[r&0xf])
		case r == utf8.RuneError && size == 1:
			buf = append(buf, "�"...)
		default:
			buf = append(buf, data[i:i+size]...)
		}
		i += size
	}
	return buf
}
