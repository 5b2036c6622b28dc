// FILE: lixenwraith/evtlog/cmd/evtlogd/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lixenwraith/config"
	"github.com/lixenwraith/evtlog"
	"github.com/lixenwraith/evtlog/relay"
	"golang.org/x/sync/errgroup"
)

const defaultConfigFile = "evtlogd.toml"

// relayConfig holds the [relay] table, an empty address disables that listener
type relayConfig struct {
	TCPAddr  string `toml:"tcp_addr"`
	HTTPAddr string `toml:"http_addr"`
}

// Example evtlogd.toml
//
//	[evtlog]
//	  identity = "evtlogd"
//	  facility = "local0"
//	  directory = "./logs"
//	  capacity = 64
//
//	[relay]
//	  tcp_addr = "127.0.0.1:5514"
//	  http_addr = "127.0.0.1:8514"
func main() {
	configFile := defaultConfigFile
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		configFile, args = args[0], args[1:]
	}

	relayCfg, err := loadRelayConfig(configFile, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load relay config: %v\n", err)
		os.Exit(1)
	}

	logCfg, err := evtlog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load logger config: %v\n", err)
		os.Exit(1)
	}

	logger := evtlog.NewLogger()
	if err := logger.ApplyConfig(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start logger: %v\n", err)
		os.Exit(1)
	}
	logger.Notice("evtlogd starting, tcp:", relayCfg.TCPAddr, "http:", relayCfg.HTTPAddr)

	ctx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	eg, ectx := errgroup.WithContext(ctx)

	var tcpServer *relay.TCPServer
	if relayCfg.TCPAddr != "" {
		tcpServer = relay.NewTCPServer(logger, relayCfg.TCPAddr, true)
		eg.Go(tcpServer.Serve)
	}

	httpServer := relay.NewHTTPServer(logger)
	if relayCfg.HTTPAddr != "" {
		eg.Go(func() error { return httpServer.ListenAndServe(relayCfg.HTTPAddr) })
	}

	// A signal or the first failed listener stops the others
	eg.Go(func() error {
		<-ectx.Done()
		logger.Notice("evtlogd shutting down")

		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if tcpServer != nil {
			if err := tcpServer.Stop(stopCtx); err != nil {
				fmt.Fprintf(os.Stderr, "TCP relay stop: %v\n", err)
			}
		}
		return httpServer.ShutdownWithContext(stopCtx)
	})

	if err := eg.Wait(); err != nil {
		logger.Error("relay failed:", err)
	}

	stats := logger.Stats()
	if err := logger.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("evtlogd stopped: %d line(s) queued, %d emitted in %d batch(es)\n",
		stats.LinesQueued, stats.LinesEmitted, stats.BatchesEmitted)
}

// loadRelayConfig reads the [relay] table, command line "--relay.tcp_addr=..." overrides the file
func loadRelayConfig(path string, args []string) (relayConfig, error) {
	relayCfg := relayConfig{TCPAddr: "127.0.0.1:5514", HTTPAddr: "127.0.0.1:8514"}

	loader := config.New()
	if err := loader.RegisterStruct("relay.", relayCfg); err != nil {
		return relayCfg, err
	}
	if err := loader.Load(path, args); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return relayCfg, err
	}

	if v, found := loader.Get("relay.tcp_addr"); found {
		if s, ok := v.(string); ok {
			relayCfg.TCPAddr = s
		}
	}
	if v, found := loader.Get("relay.http_addr"); found {
		if s, ok := v.(string); ok {
			relayCfg.HTTPAddr = s
		}
	}
	return relayCfg, nil
}
