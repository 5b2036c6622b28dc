// FILE: lixenwraith/evtlog/relay/http.go
package relay

import (
	"github.com/lixenwraith/evtlog"
	"github.com/lixenwraith/evtlog/compat"
	"github.com/valyala/fasthttp"
)

// maxBodyBytes caps an HTTP record body
const maxBodyBytes = 64 * 1024

// Handler returns a fasthttp handler for "POST /log?severity=<name>".
// The body is appended as text, one record per line. A missing severity means notice.
func Handler(logger *evtlog.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != "/log" {
			ctx.Error("not found", fasthttp.StatusNotFound)
			return
		}
		if !ctx.IsPost() {
			ctx.Response.Header.Set("Allow", fasthttp.MethodPost)
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}

		sev := DefaultSeverity
		if name := ctx.QueryArgs().Peek("severity"); len(name) > 0 {
			parsed, err := evtlog.ParseSeverity(string(name))
			if err != nil {
				ctx.Error(err.Error(), fasthttp.StatusBadRequest)
				return
			}
			sev = parsed
		}

		body := ctx.PostBody()
		if len(body) > maxBodyBytes {
			ctx.Error("body too large", fasthttp.StatusRequestEntityTooLarge)
			return
		}

		logger.Append(sev, string(body))
		ctx.SetStatusCode(fasthttp.StatusAccepted)
	}
}

// NewHTTPServer wires Handler into a fasthttp server logging through the same logger
func NewHTTPServer(logger *evtlog.Logger) *fasthttp.Server {
	return &fasthttp.Server{
		Handler:            Handler(logger),
		Logger:             compat.NewFastHTTPAdapter(logger),
		Name:               "evtlogd",
		MaxRequestBodySize: maxBodyBytes,
	}
}
