// Command gradectl imports, exports and summarises the gradebook from the
// command line against the same database the server uses.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("gradectl failed")
		os.Exit(1)
	}
}
