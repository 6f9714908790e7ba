package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/cmd"
	"github.com/stridecanvas/stridecanvas-cli/internal/observability"
)

// Allows mocking os.Exit in tests.
var osExit = os.Exit

// main is the entry point for the StrideCanvas CLI application.
func main() {
	// Global panic handler: nothing may escape to the runtime crash dump
	// without being logged first.
	defer handlePanic()

	// Set up a context that listens for interrupt signals (SIGINT, SIGTERM)
	// for graceful shutdown, e.g. to stop the watch command cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			osExit(0)
		}
		osExit(1)
	}
}

// handlePanic catches any panic that unwound past command execution, logs it
// as critical with its stack, flushes the logger, tells the user, and exits
// non-zero.
func handlePanic() {
	r := recover()
	if r == nil {
		return
	}

	stack := debug.Stack()
	observability.GetLogger().Error("CRITICAL: unhandled panic, the application must exit",
		zap.Any("panic", r),
		zap.ByteString("stack", stack))
	observability.Sync()

	fmt.Fprintf(os.Stderr, "fatal: %v\n", r)
	fmt.Fprintf(os.Stderr, "An unexpected error forced the application to stop; details are in the log file.\n")
	osExit(1)
	// Reached only when osExit is mocked in tests.
}
