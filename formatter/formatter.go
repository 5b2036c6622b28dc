// FILE: lixenwraith/evtlog/formatter/formatter.go
// Package formatter renders batch lines for the file and console backends.
package formatter

import (
	"time"

	"github.com/lixenwraith/evtlog/sanitizer"
)

// Line carries the fields of one rendered line
type Line struct {
	Time     time.Time
	Identity string
	PID      string
	Severity string
	Text     string
}

// Formatter manages the buffered rendering of lines.
// The buffer is reused, a Formatter is not safe for concurrent use.
type Formatter struct {
	format          string
	timestampFormat string
	sanitizer       *sanitizer.Sanitizer
	buf             []byte
}

// New creates a txt formatter with the default timestamp layout
func New() *Formatter {
	return &Formatter{
		format:          "txt",
		timestampFormat: "2006-01-02 15:04:05",
		sanitizer:       sanitizer.New(sanitizer.PolicyTxt),
		buf:             make([]byte, 0, 512),
	}
}

// Type sets the output format, "txt" or "json"
func (f *Formatter) Type(format string) *Formatter {
	f.format = format
	if format == "json" {
		f.sanitizer = sanitizer.New(sanitizer.PolicyJSON)
	} else {
		f.sanitizer = sanitizer.New(sanitizer.PolicyTxt)
	}
	return f
}

// TimestampFormat sets the timestamp layout, an empty layout is ignored
func (f *Formatter) TimestampFormat(format string) *Formatter {
	if format != "" {
		f.timestampFormat = format
	}
	return f
}

// Format renders one newline-terminated line.
// The returned slice is valid until the next call.
func (f *Formatter) Format(l Line) []byte {
	f.buf = f.buf[:0]
	if f.format == "json" {
		return f.formatJSON(l)
	}
	return f.formatTxt(l)
}

// formatTxt produces "<time> <identity>[<pid>]: <severity>: <text>".
// The severity column is padded to five characters.
func (f *Formatter) formatTxt(l Line) []byte {
	f.buf = l.Time.AppendFormat(f.buf, f.timestampFormat)
	f.buf = append(f.buf, ' ')
	f.buf = f.sanitizer.Append(f.buf, l.Identity)
	f.buf = append(f.buf, '[')
	f.buf = append(f.buf, l.PID...)
	f.buf = append(f.buf, "]: "...)
	f.buf = append(f.buf, l.Severity...)
	for i := len(l.Severity); i < 5; i++ {
		f.buf = append(f.buf, ' ')
	}
	f.buf = append(f.buf, ": "...)
	f.buf = f.sanitizer.Append(f.buf, l.Text)
	f.buf = append(f.buf, '\n')
	return f.buf
}

// formatJSON produces a single-line JSON object
func (f *Formatter) formatJSON(l Line) []byte {
	f.buf = append(f.buf, `{"time":"`...)
	f.buf = l.Time.AppendFormat(f.buf, f.timestampFormat)
	f.buf = append(f.buf, `","identity":"`...)
	f.buf = f.sanitizer.Append(f.buf, l.Identity)
	f.buf = append(f.buf, `","pid":"`...)
	f.buf = f.sanitizer.Append(f.buf, l.PID)
	f.buf = append(f.buf, `","severity":"`...)
	f.buf = f.sanitizer.Append(f.buf, l.Severity)
	f.buf = append(f.buf, `","message":"`...)
	f.buf = f.sanitizer.Append(f.buf, l.Text)
	f.buf = append(f.buf, "\"}\n"...)
	return f.buf
}
