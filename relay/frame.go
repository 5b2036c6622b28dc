// FILE: lixenwraith/evtlog/relay/frame.go
// Package relay feeds records received over the network into an evtlog.Logger.
package relay

import (
	"bytes"
	"strconv"

	"github.com/lixenwraith/evtlog"
)

// DefaultSeverity applies to frames without a priority prefix
const DefaultSeverity = evtlog.SevNotice

// maxPriority is local7.debug
const maxPriority = 191

// DecodeFrame splits an optional "<PRI>" prefix from a syslog-style frame.
// The severity is PRI mod 8, the facility is discarded. A malformed prefix is kept
// as part of the text and the default severity applies.
func DecodeFrame(frame []byte) (evtlog.Severity, string) {
	frame = bytes.TrimRight(frame, "\r\n")
	if len(frame) < 3 || frame[0] != '<' {
		return DefaultSeverity, string(frame)
	}

	end := bytes.IndexByte(frame, '>')
	if end < 2 || end > 4 {
		return DefaultSeverity, string(frame)
	}

	pri, err := strconv.Atoi(string(frame[1:end]))
	if err != nil || pri < 0 || pri > maxPriority {
		return DefaultSeverity, string(frame)
	}
	return evtlog.Severity(pri & 7), string(frame[end+1:])
}

// lineSplitter accumulates stream bytes and yields complete lines.
// A partial line longer than max is yielded as is.
type lineSplitter struct {
	buf []byte
	max int
}

// feed appends data and calls emit for each complete line
func (s *lineSplitter) feed(data []byte, emit func([]byte)) {
	s.buf = append(s.buf, data...)
	for {
		idx := bytes.IndexByte(s.buf, '\n')
		if idx < 0 {
			break
		}
		emit(s.buf[:idx])
		s.buf = s.buf[idx+1:]
	}

	if len(s.buf) > s.max {
		emit(s.buf)
		s.buf = s.buf[:0]
	}

	// Release the consumed prefix
	if len(s.buf) == 0 {
		s.buf = nil
	}
}

// flush yields any buffered partial line
func (s *lineSplitter) flush(emit func([]byte)) {
	if len(s.buf) > 0 {
		emit(s.buf)
	}
	s.buf = nil
}
