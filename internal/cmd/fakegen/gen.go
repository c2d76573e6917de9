package fakegen

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"

	"github.com/Versent/go-verstub/internal/fakegen"
)

// packages returns the slice of packages to run fakegen over based on f.
// It defaults to ".".
func packages(f *flag.FlagSet) []string {
	pkgs := f.Args()
	if len(pkgs) == 0 {
		pkgs = []string{"."}
	}
	return pkgs
}

type GenCmd struct {
	log            log.FieldLogger
	headerFile     string
	prefixFileName string
	tags           string
}

// NewGenCmd returns a gen command logging to l, or to the standard logrus
// logger if l is nil, with its flags registered on f.
func NewGenCmd(l log.FieldLogger, f *flag.FlagSet) *GenCmd {
	cmd := &GenCmd{log: l}
	cmd.SetFlags(f)
	return cmd
}

func (*GenCmd) Name() string { return "gen" }
func (*GenCmd) Synopsis() string {
	return "generate the fake_gen.go file for each package"
}
func (*GenCmd) Usage() string {
	return `gen [-header file] [-prefix name] [-tags buildtags] [package ...]

  Given one or more packages, gen creates fake_gen.go files for each.

  If no package is listed, it defaults to ".".

`
}
func (cmd *GenCmd) SetFlags(f *flag.FlagSet) {
	if cmd.log == nil {
		cmd.log = log.StandardLogger()
	}
	f.StringVar(&cmd.headerFile, "header", "", "path to file to insert as a header in fake_gen.go")
	f.StringVar(&cmd.prefixFileName, "prefix", "", "prefix for the generated file name")
	f.StringVar(&cmd.tags, "tags", "", "append build tags to the default fakestub")
}

func (cmd *GenCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	opts, err := cmd.options(args)
	if err != nil {
		cmd.log.Error(err)
		return subcommands.ExitFailure
	}

	outs, errs := fakegen.Generate(ctx, packages(f), opts)
	if len(errs) > 0 {
		logErrors(cmd.log, errs...)
		cmd.log.Error("generate failed")
		return subcommands.ExitFailure
	}
	if failed := commitAll(cmd.log, outs); failed > 0 {
		cmd.log.WithField("failed", failed).Error("packages failed to generate")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// options resolves the generator options from the flags, the process
// environment and any fakegen.Option passed through Execute's args.
func (cmd *GenCmd) options(args []any) (opts fakegen.GenerateOptions, err error) {
	err = fakegen.WithArgs(
		fakegen.WithEnv(os.Environ()),
		fakegen.WithArgs(args...),
		fakegen.WithWDFallback(),
		fakegen.WithHeaderFile(cmd.headerFile),
		fakegen.WithPrefixFileName(cmd.prefixFileName),
		fakegen.WithTags(cmd.tags),
	)(&opts)
	return
}
