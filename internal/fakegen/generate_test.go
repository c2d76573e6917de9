package fakegen_test

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"rsc.io/script"
	"rsc.io/script/scripttest"

	cmdfakegen "github.com/Versent/go-verstub/internal/cmd/fakegen"
	"github.com/Versent/go-verstub/internal/fakegen"
)

func TestGenerate(t *testing.T) {
	engine := script.NewEngine()
	engine.Cmds["fakegen"] = &genCmd{}
	mutdir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	mutdir = filepath.Join(mutdir, "..", "..")
	scripttest.Test(
		t,
		context.Background(),
		engine,
		[]string{
			"MUT=" + mutdir,
			"HOME=" + os.Getenv("HOME"),
			"PATH=" + os.Getenv("PATH"),
		},
		"testdata/*.txt",
	)
}

type genCmd struct{}

func (m *genCmd) Run(s *script.State, args ...string) (script.WaitFunc, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	f := flag.NewFlagSet("gen", flag.ContinueOnError)
	f.SetOutput(stderr)
	l := logrus.New()
	l.SetOutput(stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	genCmd := cmdfakegen.NewGenCmd(l, f)
	if err := f.Parse(args); err != nil {
		return nil, err
	}
	status := genCmd.Execute(s.Context(), f, fakegen.WithDir(s.Getwd()))
	return func(s *script.State) (_, _ string, err error) {
		if status != 0 {
			err = fmt.Errorf("exit status %d", status)
		}
		return stdout.String(), stderr.String(), err
	}, nil
}

func (m *genCmd) Usage() *script.CmdUsage {
	genCmd := &cmdfakegen.GenCmd{}
	usage := strings.Split(genCmd.Usage(), "\n")
	args, detail := usage[0], usage[1:]
	for len(detail) > 0 && detail[0] == "" {
		detail = detail[1:]
	}
	return &script.CmdUsage{
		Summary: genCmd.Synopsis(),
		Args:    args,
		Detail:  detail,
	}
}

func TestOptions(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "header.txt"), []byte("// header\n"), 0o666); err != nil {
		t.Fatal(err)
	}

	var opts fakegen.GenerateOptions
	err := fakegen.WithArgs(
		fakegen.WithEnv([]string{"A=1"}),
		"ignored",
		fakegen.WithArgs(fakegen.WithDir(dir), 42),
		fakegen.WithWDFallback(),
		fakegen.WithHeaderFile("header.txt"),
		fakegen.WithPrefixFileName("weather_"),
		fakegen.WithTags("integration"),
	)(&opts)
	if err != nil {
		t.Fatal(err)
	}
	want := fakegen.GenerateOptions{
		Header:           []byte("// header\n"),
		PrefixOutputFile: "weather_",
		Tags:             "integration",
		Dir:              dir,
		Env:              []string{"A=1"},
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestWithWDFallback(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	var opts fakegen.GenerateOptions
	if err := fakegen.WithWDFallback()(&opts); err != nil {
		t.Fatal(err)
	}
	if opts.Dir != wd {
		t.Errorf("expected %q, got %q", wd, opts.Dir)
	}
}

func TestWithHeaderFile_missing(t *testing.T) {
	opts := fakegen.GenerateOptions{Dir: t.TempDir()}
	err := fakegen.WithHeaderFile("missing.txt")(&opts)
	if err == nil || !strings.Contains(err.Error(), "failed to read header file") {
		t.Errorf("unexpected error %v", err)
	}
	if err := fakegen.WithHeaderFile("")(&opts); err != nil || opts.Header != nil {
		t.Errorf("expected empty header, got %q, %v", opts.Header, err)
	}
}
