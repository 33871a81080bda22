// Package logging configures logrus for CLI use.
package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Init sets up the CLI logger: colored, compact, no timestamps.
func Init(debug bool) {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
	log.SetReportCaller(false)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:          false,
		DisableTimestamp:       true,
		ForceColors:            true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
	if debug {
		log.SetLevel(log.DebugLevel)
	}
}
