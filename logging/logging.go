// Package logging holds the process-wide structured logger. Components take a
// tagged entry from WithComponent at construction time; the CLI configures
// level and output format once flags and config are read.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Output formats accepted by SetFormat.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var root = logrus.New()

type Fields = logrus.Fields

// SetVerbose switches between debug and info level.
func SetVerbose(verbose bool) {
	if verbose {
		root.SetLevel(logrus.DebugLevel)
		return
	}
	root.SetLevel(logrus.InfoLevel)
}

// SetFormat selects the text or JSON formatter. An empty format keeps text.
func SetFormat(format string) error {
	switch format {
	case "", FormatText:
		root.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		root.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q, expected %s or %s", format, FormatText, FormatJSON)
	}
	return nil
}

// SetOutput redirects every entry, including the ones handed out earlier.
func SetOutput(w io.Writer) {
	root.SetOutput(w)
}

func Entry() *logrus.Entry {
	return logrus.NewEntry(root)
}

// WithComponent returns an entry tagged with the emitting component.
func WithComponent(name string) *logrus.Entry {
	return root.WithField("component", name)
}
