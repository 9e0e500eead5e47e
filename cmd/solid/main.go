// Command solid lists, inspects and extracts SOLID archives.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	"github.com/felixge/fgprof"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/meigma/solid"
)

type rootOptions struct {
	logLevel   string
	noColor    bool
	cpuProfile string
	fgProfile  string

	logger *slog.Logger
	stop   []func() error
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "solid",
		Short:         "Read SOLID archives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return opts.teardown()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored log output")
	flags.StringVar(&opts.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	flags.StringVar(&opts.fgProfile, "fgprofile", "", "write fgprof (wall clock) profile to file")
	_ = flags.MarkHidden("cpuprofile") //nolint:errcheck // flag exists
	_ = flags.MarkHidden("fgprofile")  //nolint:errcheck // flag exists

	cmd.AddCommand(
		newListCmd(opts),
		newInfoCmd(opts),
		newCatCmd(opts),
		newExtractCmd(opts),
	)
	return cmd
}

func (o *rootOptions) setup(stderr io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}

	noColor := o.noColor
	if f, ok := stderr.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		noColor = true
	}
	o.logger = slog.New(tint.NewHandler(stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))

	if o.fgProfile != "" {
		f, err := os.Create(o.fgProfile)
		if err != nil {
			return err
		}
		stop := fgprof.Start(f, fgprof.FormatPprof)
		o.stop = append(o.stop, func() error {
			err := stop()
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			return err
		})
	}
	if o.cpuProfile != "" {
		f, err := os.Create(o.cpuProfile)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close() //nolint:errcheck // already failing
			return err
		}
		o.stop = append(o.stop, func() error {
			pprof.StopCPUProfile()
			return f.Close()
		})
	}
	return nil
}

func (o *rootOptions) teardown() error {
	var first error
	for _, stop := range o.stop {
		if err := stop(); err != nil && first == nil {
			first = err
		}
	}
	o.stop = nil
	return first
}

func (o *rootOptions) open(path string) (*solid.Archive, error) {
	a, err := solid.Open(path, solid.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}
	o.logger.Debug("opened archive", "path", path, "entries", a.Len())
	return a, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "solid:", err)
		os.Exit(1)
	}
}
