package main

import (
	"flag"
	"log"
	"net"
	"os"
	"time"

	"github.com/portalsys/portal/internal/relay"
)

func main() {
	addr := flag.String("addr", ":13265", "TCP address to listen on")
	pairTimeout := flag.Duration("pair-timeout", 60*time.Second, "how long a lone peer waits to be paired")
	idleTimeout := flag.Duration("idle-timeout", 5*time.Minute, "how long a paired session may go without traffic")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg := relay.DefaultConfig()
	cfg.PairTimeout = *pairTimeout
	cfg.IdleTimeout = *idleTimeout

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		logger.Fatalf("relay: listen %s: %v", *addr, err)
	}
	logger.Printf("relay listening on %s", ln.Addr())

	broker := relay.NewBroker(cfg, logger)
	if err := broker.Serve(ln); err != nil {
		logger.Fatalf("relay: serve: %v", err)
	}
}
