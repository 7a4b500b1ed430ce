//go:build windows

package main

import (
	"os"
	"os/signal"
)

// handleSignals is the windows counterpart of the unix handler in
// signals.go: os.Interrupt is the only portable signal os/signal exposes
// here, so a second one goes straight to os.Exit instead of a restored
// default disposition.
func handleSignals(stop func()) {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt)

	go func() {
		<-signals
		stop()
		<-signals
		os.Exit(130)
	}()
}
