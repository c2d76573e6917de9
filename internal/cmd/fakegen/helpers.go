package fakegen

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

func logErrors(l log.FieldLogger, errs ...error) {
	for _, err := range errs {
		l.Error(strings.Replace(err.Error(), "\n", "\n\t", -1))
	}
}

// NewLogger returns a logger writing plain "level msg key=value" lines to
// stderr, the format fakegen reports in.
func NewLogger() *log.Logger {
	l := log.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&log.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
	})
	return l
}
