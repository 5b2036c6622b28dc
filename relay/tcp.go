// FILE: lixenwraith/evtlog/relay/tcp.go
package relay

import (
	"context"
	"sync/atomic"

	"github.com/lixenwraith/evtlog"
	"github.com/lixenwraith/evtlog/compat"
	"github.com/panjf2000/gnet/v2"
)

// maxFrameBytes caps a buffered partial frame
const maxFrameBytes = 8192

// TCPServer accepts newline-delimited "<PRI>text" frames and appends them to a logger
type TCPServer struct {
	gnet.BuiltinEventEngine

	logger    *evtlog.Logger
	addr      string
	multicore bool

	engine  atomic.Pointer[gnet.Engine]
	started chan struct{}
	frames  atomic.Uint64
}

// NewTCPServer creates a server listening on addr ("host:port") once Serve is called
func NewTCPServer(logger *evtlog.Logger, addr string, multicore bool) *TCPServer {
	return &TCPServer{
		logger:    logger,
		addr:      addr,
		multicore: multicore,
		started:   make(chan struct{}),
	}
}

// Serve runs the event loop until Stop, gnet diagnostics go to the same logger
func (s *TCPServer) Serve() error {
	return gnet.Run(s, "tcp://"+s.addr,
		gnet.WithMulticore(s.multicore),
		gnet.WithReusePort(true),
		gnet.WithLogger(compat.NewGnetAdapter(s.logger)),
	)
}

// Started is closed once the listener is up
func (s *TCPServer) Started() <-chan struct{} {
	return s.started
}

// Frames returns the number of frames appended so far
func (s *TCPServer) Frames() uint64 {
	return s.frames.Load()
}

// Stop shuts the event loop down
func (s *TCPServer) Stop(ctx context.Context) error {
	eng := s.engine.Load()
	if eng == nil {
		return nil
	}
	return eng.Stop(ctx)
}

// OnBoot keeps the engine for Stop
func (s *TCPServer) OnBoot(eng gnet.Engine) gnet.Action {
	s.engine.Store(&eng)
	close(s.started)
	return gnet.None
}

// OnOpen attaches a line splitter to the connection
func (s *TCPServer) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	c.SetContext(&lineSplitter{max: maxFrameBytes})
	return nil, gnet.None
}

// OnTraffic appends every complete frame
func (s *TCPServer) OnTraffic(c gnet.Conn) gnet.Action {
	data, err := c.Next(-1)
	if err != nil {
		return gnet.Close
	}

	splitter, ok := c.Context().(*lineSplitter)
	if !ok {
		return gnet.Close
	}
	splitter.feed(data, s.appendFrame)
	return gnet.None
}

// OnClose appends a trailing unterminated frame
func (s *TCPServer) OnClose(c gnet.Conn, _ error) gnet.Action {
	if splitter, ok := c.Context().(*lineSplitter); ok {
		splitter.flush(s.appendFrame)
	}
	return gnet.None
}

// appendFrame decodes one frame, empty frames are skipped by the logger
func (s *TCPServer) appendFrame(frame []byte) {
	sev, text := DecodeFrame(frame)
	s.logger.Append(sev, text)
	s.frames.Add(1)
}
