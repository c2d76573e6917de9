package fakegen

import (
	log "github.com/sirupsen/logrus"

	"github.com/Versent/go-verstub/internal/fakegen"
)

// commitAll writes the file of every result that has content and logs
// the outcome per package. It returns how many packages failed, either
// while generating or while writing.
func commitAll(l log.FieldLogger, outs []fakegen.GenerateResult) (failed int) {
	for _, out := range outs {
		if !commit(l.WithField("pkg", out.PkgPath), out) {
			failed++
		}
	}
	return failed
}

func commit(l log.FieldLogger, out fakegen.GenerateResult) bool {
	if len(out.Errs) > 0 {
		logErrors(l, out.Errs...)
		l.Error("generate failed")
		return false
	}
	if len(out.Content) == 0 {
		l.Debug("no fakestub files")
		return true
	}
	if err := out.Commit(); err != nil {
		l.WithError(err).Errorf("failed to write %s", out.OutputPath)
		return false
	}
	l.Infof("wrote %s", out.OutputPath)
	return true
}
