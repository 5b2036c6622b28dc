// FILE: lixenwraith/evtlog/storage.go
package evtlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lixenwraith/evtlog/formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

// lineBackend writes every line of a batch as one formatted line.
// It backs both the rotating file and the console outputs.
type lineBackend struct {
	mu     sync.Mutex // A batcher abandoned by a drain timeout may still be emitting
	fmtr   *formatter.Formatter
	out    io.Writer
	closer io.Closer // nil for console streams
	now    func() time.Time
}

// newLineBackend creates a backend writing cfg-formatted lines to out
func newLineBackend(cfg *Config, out io.Writer, closer io.Closer) *lineBackend {
	return &lineBackend{
		fmtr:   formatter.New().Type(cfg.Format).TimestampFormat(cfg.TimestampFormat),
		out:    out,
		closer: closer,
		now:    time.Now,
	}
}

// Emit writes the batch, all lines share the batch timestamp
func (b *lineBackend) Emit(sev Severity, pid, identity string, lines []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.out == nil {
		return fmtErrorf("backend closed")
	}

	line := formatter.Line{
		Time:     b.now(),
		Identity: identity,
		PID:      pid,
		Severity: sev.String(),
	}
	for _, text := range lines {
		line.Text = text
		if _, err := b.out.Write(b.fmtr.Format(line)); err != nil {
			return fmt.Errorf("write failed: %w", err)
		}
	}
	return nil
}

// Close releases the file, console streams are left open
func (b *lineBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.out = nil
	if b.closer == nil {
		return nil
	}
	err := b.closer.Close()
	b.closer = nil
	return err
}

// newFileBackend opens a rotating log file at path
func newFileBackend(cfg *Config, path string) (*lineBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmtErrorf("failed to create log directory '%s': %w", filepath.Dir(path), err)
	}

	// lumberjack opens lazily, open once here so an unwritable path fails at startup
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmtErrorf("failed to open log file '%s': %w", path, err)
	}
	_ = f.Close()

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    int(cfg.MaxSizeMB),
		MaxBackups: int(cfg.MaxBackups),
		MaxAge:     int(cfg.MaxAgeDays),
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	return newLineBackend(cfg, rotator, rotator), nil
}

// newConsoleBackend writes formatted lines to a standard stream
func newConsoleBackend(cfg *Config, stream io.Writer) *lineBackend {
	return newLineBackend(cfg, stream, nil)
}

// logFilePath returns the file used by a local facility.
// local0 and the fallback use "<identity>.log", local3..7 use "<identity>1.log".."<identity>5.log".
func logFilePath(cfg *Config, fac Facility) string {
	name := cfg.identity()
	if fac >= FacLocal3 && fac <= FacLocal7 {
		name = fmt.Sprintf("%s%d", name, int(fac-FacLocal3)+1)
	}
	return filepath.Join(cfg.Directory, name+".log")
}
