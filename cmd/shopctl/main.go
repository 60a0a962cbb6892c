// shopctl is a command-line storefront. The session persists between
// invocations in the configured token store, so a typical flow is:
//
//	shopctl signin --email me@example.com --password secret
//	shopctl products --category 6439d58a0049ad0b52b9003f
//	shopctl cart add 6428ebc6dc1175abc65ca0b9
//	shopctl checkout cash
//
// Notices go to stderr; --json prints the raw view state on stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(options{}, os.Stdout, os.Stderr)
	err := a.rootCmd().ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
