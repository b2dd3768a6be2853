package main

import (
	"context"
	"flag"
	"fmt"
	"net"

	"github.com/Kush-Singh-26/h5dev/internal/config"
	"github.com/Kush-Singh-26/h5dev/internal/server"
)

func runServe(ctx context.Context, args []string) int {
	cfg := config.Load()

	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.Server.BindFlags(flags)
	verbose := flags.Bool("v", false, "Verbose logging")
	_ = flags.Parse(args)

	logger := setupLogger(*verbose)

	if err := cfg.Server.ResolveRoot(); err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	srv := server.New(cfg.Server, server.OSRoot(cfg.Server.Root), logger)
	ln, err := srv.Listen()
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	fmt.Printf("🚀 Serving %s\n", cfg.Server.Root)
	fmt.Printf("🌐 http://%s\n", displayAddr(ln.Addr()))
	if cfg.Server.Host == "" || cfg.Server.Host == "0.0.0.0" {
		fmt.Println("   (Accessible on your local network)")
	}
	fmt.Println("Press Ctrl+C to stop")

	if err := srv.Serve(ctx, ln); err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}
	fmt.Println("\n🛑 Server stopped.")
	return 0
}

// displayAddr turns a wildcard listen address into something clickable.
func displayAddr(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return addr.String()
	}
	if tcp.IP == nil || tcp.IP.IsUnspecified() {
		return fmt.Sprintf("localhost:%d", tcp.Port)
	}
	return tcp.String()
}
