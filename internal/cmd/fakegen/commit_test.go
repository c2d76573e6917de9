package fakegen

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Versent/go-verstub/internal/fakegen"
)

func TestCommitAll(t *testing.T) {
	dir := t.TempDir()
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)

	outs := []fakegen.GenerateResult{
		{PkgPath: "example.com/ok", OutputPath: filepath.Join(dir, "fake_gen.go"), Content: []byte("package ok\n")},
		{PkgPath: "example.com/empty"},
		{PkgPath: "example.com/broken", Errs: []error{errors.New("a\nb")}},
		{PkgPath: "example.com/unwritable", OutputPath: filepath.Join(dir, "missing", "fake_gen.go"), Content: []byte("package x\n")},
	}

	if failed := commitAll(l, outs); failed != 2 {
		t.Errorf("expected 2 failures, got %d", failed)
	}

	got, err := os.ReadFile(filepath.Join(dir, "fake_gen.go"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "package ok\n" {
		t.Errorf("unexpected content %q", got)
	}

	type logged struct {
		level logrus.Level
		pkg   any
		msg   string
	}
	var entries []logged
	for _, e := range hook.AllEntries() {
		entries = append(entries, logged{e.Level, e.Data["pkg"], e.Message})
	}
	want := []logged{
		{logrus.InfoLevel, "example.com/ok", "wrote " + filepath.Join(dir, "fake_gen.go")},
		{logrus.DebugLevel, "example.com/empty", "no fakestub files"},
		{logrus.ErrorLevel, "example.com/broken", "a\n\tb"},
		{logrus.ErrorLevel, "example.com/broken", "generate failed"},
		{logrus.ErrorLevel, "example.com/unwritable", "failed to write " + filepath.Join(dir, "missing", "fake_gen.go")},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d: expected %v, got %v", i, want[i], entries[i])
		}
	}
}

func TestCommitAll_nothing(t *testing.T) {
	l, hook := test.NewNullLogger()
	if failed := commitAll(l, nil); failed != 0 {
		t.Errorf("expected no failures, got %d", failed)
	}
	if len(hook.AllEntries()) != 0 {
		t.Errorf("unexpected entries %v", hook.AllEntries())
	}
}
