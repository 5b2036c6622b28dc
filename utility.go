// FILE: utility.go
package evtlog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "evtlog: ") {
		format = "evtlog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// splitLines returns the non-empty lines of text.
// A trailing carriage return is dropped so CRLF input yields the same lines as LF.
func splitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		line := text
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			text = ""
		}
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// truncateLine cuts s to at most max bytes, backing off to a rune start.
// Bytes with no rune start within utf8.UTFMax-1 of the cut are cut as is, so a
// non-empty input never truncates to "".
func truncateLine(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 0 {
		return ""
	}
	cut := max
	for back := 0; back < utf8.UTFMax-1 && cut > 0 && !utf8.RuneStart(s[cut]); back++ {
		cut--
	}
	if cut == 0 || !utf8.RuneStart(s[cut]) {
		return s[:max]
	}
	return s[:cut]
}

// processID renders the current pid as used in records
func processID() string {
	return strconv.Itoa(os.Getpid())
}
