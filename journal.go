// FILE: lixenwraith/evtlog/journal.go
package evtlog

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

// journalBackend uploads each batch as one journal export entry to systemd-journal-remote
type journalBackend struct {
	mu       sync.Mutex
	client   *fasthttp.Client
	url      string
	timeout  time.Duration
	facility Facility
	now      func() time.Time
	buf      bytes.Buffer
	closed   bool
}

// newJournalBackend targets "<endpoint>/upload"
func newJournalBackend(endpoint string, facility Facility, timeout time.Duration) (*journalBackend, error) {
	endpoint = strings.TrimRight(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmtErrorf("journal endpoint must be an http(s) URL: '%s'", endpoint)
	}

	return &journalBackend{
		client: &fasthttp.Client{
			Name:                     "evtlog",
			NoDefaultUserAgentHeader: true,
			ReadTimeout:              timeout,
			WriteTimeout:             timeout,
		},
		url:      endpoint + "/upload",
		timeout:  timeout,
		facility: facility,
		now:      time.Now,
	}, nil
}

// Emit posts the batch as one entry
func (b *journalBackend) Emit(sev Severity, pid, identity string, lines []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmtErrorf("journal backend closed")
	}

	b.buf.Reset()
	writeJournalEntry(&b.buf, b.now(), b.facility, sev, pid, identity, lines)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(b.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/vnd.fdo.journal")
	req.SetBody(b.buf.Bytes())

	if err := b.client.DoTimeout(req, resp, b.timeout); err != nil {
		return fmtErrorf("journal upload failed: %w", err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		if body := resp.Body(); len(body) > 0 {
			return fmtErrorf("journal upload returned HTTP %d: %s", status, strings.TrimSpace(string(body)))
		}
		return fmtErrorf("journal upload returned HTTP %d", status)
	}
	return nil
}

// Close stops further uploads and drops idle connections
func (b *journalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		b.client.CloseIdleConnections()
	}
	return nil
}

// writeJournalEntry encodes one entry in the journal export format, terminated by a blank line
func writeJournalEntry(buf *bytes.Buffer, ts time.Time, fac Facility, sev Severity, pid, identity string, lines []string) {
	writeJournalField(buf, "__REALTIME_TIMESTAMP", strconv.FormatInt(ts.UnixMicro(), 10))
	writeJournalField(buf, "PRIORITY", strconv.Itoa(int(sev)))
	writeJournalField(buf, "SYSLOG_FACILITY", strconv.Itoa(int(fac)))
	writeJournalField(buf, "SYSLOG_IDENTIFIER", identity)
	writeJournalField(buf, "SYSLOG_PID", pid)
	writeJournalField(buf, "EVTLOG_EVENT_TYPE", string(sev.EventType()))
	writeJournalField(buf, "EVTLOG_LINES", strconv.Itoa(len(lines)))
	writeJournalField(buf, "MESSAGE", strings.Join(lines, "\n"))
	buf.WriteByte('\n')
}

// writeJournalField writes KEY=value, or the binary form when value contains a newline.
// Empty values are skipped.
func writeJournalField(buf *bytes.Buffer, key, value string) {
	if value == "" {
		return
	}
	if strings.IndexByte(value, '\n') < 0 {
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(value)
		buf.WriteByte('\n')
		return
	}

	// KEY\n<uint64 little-endian length><data>\n
	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(len(value)))
	buf.WriteString(key)
	buf.WriteByte('\n')
	buf.Write(size[:])
	buf.WriteString(value)
	buf.WriteByte('\n')
}
