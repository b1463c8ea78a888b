package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	wg   sync.WaitGroup
	ctx  context.Context
	stop context.CancelFunc
)

func InitShutdownHandler() {
	ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Context registers the caller as a shutdown participant and returns
// the context that is cancelled on SIGINT/SIGTERM. Every caller must
// call NotifyShutdownComplete once it has drained.
func Context() context.Context {
	wg.Add(1)
	return ctx
}

func NotifyShutdownComplete() {
	wg.Done()
}

// WaitForShutdown blocks until every registered participant has called
// NotifyShutdownComplete.
func WaitForShutdown() {
	wg.Wait()
	stop()
}
