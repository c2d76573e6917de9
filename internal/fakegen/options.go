package fakegen

import (
	"fmt"
	"os"
	"path/filepath"
)

// GenerateOptions holds options for Generate.
type GenerateOptions struct {
	// Header will be inserted at the start of each generated file.
	Header []byte

	// PrefixOutputFile is the prefix of the file name to write the generated
	// output to. The suffix will be "fake_gen.go".
	PrefixOutputFile string

	// Tags is a list of additional build tags to add to the generated file.
	Tags string

	// Dir is the directory to run the build system's query tool
	// that provides information about the packages.
	// If Dir is empty, the tool is run in the current directory.
	Dir string

	// Env is the environment to use when invoking the build system's query tool.
	// If Env is nil, the current environment is used.
	// As in os/exec's Cmd, only the last value in the slice for
	// each environment key is used.
	Env []string
}

// Option sets a field of GenerateOptions.
type Option func(*GenerateOptions) error

// WithArgs applies every Option found in args, in order, and ignores any
// other value. It lets callers of a command thread options through
// untyped arguments.
func WithArgs(args ...any) Option {
	return func(opts *GenerateOptions) error {
		for _, arg := range args {
			opt, ok := arg.(Option)
			if !ok || opt == nil {
				continue
			}
			if err := opt(opts); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithDir sets the directory packages are loaded from.
func WithDir(dir string) Option {
	return func(opts *GenerateOptions) error {
		opts.Dir = dir
		return nil
	}
}

// WithWDFallback sets the directory to the working directory unless one
// was set already.
func WithWDFallback() Option {
	return func(opts *GenerateOptions) error {
		if opts.Dir != "" {
			return nil
		}
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		opts.Dir = wd
		return nil
	}
}

// WithEnv sets the environment of the build system's query tool.
func WithEnv(env []string) Option {
	return func(opts *GenerateOptions) error {
		opts.Env = env
		return nil
	}
}

// WithHeaderFile reads the header from path. Relative paths are resolved
// against the directory set so far. An empty path leaves the header unset.
func WithHeaderFile(path string) Option {
	return func(opts *GenerateOptions) error {
		if path == "" {
			return nil
		}
		if !filepath.IsAbs(path) && opts.Dir != "" {
			path = filepath.Join(opts.Dir, path)
		}
		header, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read header file %q: %w", path, err)
		}
		opts.Header = header
		return nil
	}
}

// WithPrefixFileName sets the prefix of the generated file name.
func WithPrefixFileName(prefix string) Option {
	return func(opts *GenerateOptions) error {
		opts.PrefixOutputFile = prefix
		return nil
	}
}

// WithTags sets additional build tags used to load the packages.
func WithTags(tags string) Option {
	return func(opts *GenerateOptions) error {
		opts.Tags = tags
		return nil
	}
}
