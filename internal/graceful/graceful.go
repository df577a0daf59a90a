package graceful

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func MakeSigintChan() chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}

// Wait blocks until SIGINT/SIGTERM and logs the received signal.
func Wait(logger *logrus.Logger) os.Signal {
	sig := <-MakeSigintChan()
	logger.Infof("received exit signal: %v", sig)
	return sig
}
