// Command cubism-inspect loads a .moc3 file through the Cubism core, applies
// optional parameter overrides, runs a few updates and prints the model's
// tables.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/cubism-go/cubism-core-go/pkg/cubism"
	"github.com/cubism-go/cubism-core-go/pkg/cubism/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "cubism-inspect: %v\n", err)
			os.Exit(1)
		}
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := loadOptions(args, stderr)
	if err != nil {
		return err
	}

	logger := logging.New(newLogger(opts, stderr))

	data, err := os.ReadFile(opts.MocPath)
	if err != nil {
		return fmt.Errorf("read moc: %w", err)
	}

	lib, err := cubism.Open(cubism.Config{
		LibraryPath:    opts.Library,
		Logger:         logger,
		ForwardCoreLog: true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := lib.Close(); cerr != nil {
			fmt.Fprintf(stderr, "close library: %v\n", cerr)
		}
	}()

	moc, err := lib.ReviveMoc(data)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.MocPath, err)
	}
	defer moc.Close()

	model, err := moc.InitializeModel()
	if err != nil {
		return err
	}
	defer model.Close()

	if err := applyOverrides(model, opts.Overrides); err != nil {
		return err
	}
	for i := 0; i < opts.Updates; i++ {
		if err := model.Update(); err != nil {
			return err
		}
	}

	r, err := buildReport(lib, moc, model, opts.Updates)
	if err != nil {
		return err
	}
	return writeReport(stdout, r, opts.Format)
}

var errUnknownParameter = errors.New("unknown parameter")

func applyOverrides(model *cubism.Model, overrides []override) error {
	for _, o := range overrides {
		i, ok, err := model.ParameterIndex(o.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", errUnknownParameter, o.ID)
		}
		if err := model.SetParameterValue(i, o.Value); err != nil {
			return fmt.Errorf("set %s: %w", o.ID, err)
		}
	}
	return nil
}
