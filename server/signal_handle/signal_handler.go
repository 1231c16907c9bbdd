package signal_handle

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/ryogrid/QueryCore/engine"
)

var isStopped atomic.Bool

func IsStopped() bool {
	return isStopped.Load()
}

func SignalHandlerTh(exitNotifyCh chan<- bool, qcs ...*engine.QueryCore) {
	sigChan := make(chan os.Signal, 1)
	// receive SIGINT and SIGTERM
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan

	// stop handling requests before the engine releases its tables
	isStopped.Store(true)
	for _, qc := range qcs {
		qc.Shutdown()
	}

	exitNotifyCh <- true
}
