// Package logging configures the process-wide logrus logger from command-line flags.
package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Flags control log verbosity and format.
type Flags struct {
	Verbose   bool   `help:"Log every generated record." short:"v"`
	LogFormat string `help:"Log output format." enum:"text,json" default:"text" env:"LOG_FORMAT"`
}

// Configure applies the flags to the standard logger, writing to w. A nil w means os.Stderr.
func (f Flags) Configure(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	log.SetOutput(w)

	if f.Verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	switch f.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	default:
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	}
}
