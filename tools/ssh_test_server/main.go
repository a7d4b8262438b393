// Command ssh_test_server runs the in-process test SSH server standalone, for
// poking at the orchestrator's connection handling by hand.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexisdeudon01/IDS4/tools/sshserv"
)

func main() {
	srv, err := sshserv.Start("127.0.0.1:20222")
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "failed to start test ssh server:", err)
		os.Exit(1)
	}
	defer srv.Stop()
	_, _ = fmt.Fprintln(os.Stderr, "test ssh server listening on", srv.Addr)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
