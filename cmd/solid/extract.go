package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/solid"
)

// errUnsafeName is returned for entry names that would escape the destination.
var errUnsafeName = errors.New("unsafe entry name")

type extractOptions struct {
	outDir   string
	jobs     int
	progress bool
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract ARCHIVE...",
		Short: "Extract archives into a directory",
		Long: `Extract every entry of each ARCHIVE below the output directory.

Entries are written in on-disk order so each solid block is decoded once.
Several archives are extracted concurrently, one goroutine per archive.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), root, cmd.ErrOrStderr(), args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.outDir, "output", "o", ".", "destination directory")
	flags.IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "archives extracted concurrently")
	flags.BoolVar(&opts.progress, "progress", true, "show a progress bar when stderr is a terminal")
	return cmd
}

func (o *extractOptions) run(ctx context.Context, root *rootOptions, stderr io.Writer, archives []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if f, ok := stderr.(*os.File); ok && o.progress && isatty.IsTerminal(f.Fd()) {
		bar = progressbar.Default(-1, "extracting")
		defer bar.Finish() //nolint:errcheck // display only
	}

	g, ctx := errgroup.WithContext(ctx)
	if o.jobs > 0 {
		g.SetLimit(o.jobs)
	}
	dests := archiveDests(o.outDir, archives)
	for i, path := range archives {
		dest := dests[i]
		g.Go(func() error {
			if err := extractArchive(ctx, root, path, dest, bar); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// extractArchive writes every entry of the archive at path below dest.
func extractArchive(ctx context.Context, root *rootOptions, path, dest string, bar *progressbar.ProgressBar) error {
	a, err := root.open(path)
	if err != nil {
		return err
	}
	defer a.Close()

	type dirTime struct {
		path string
		t    time.Time
	}
	var files, dirs int
	var dirTimes []dirTime
	for i, e := range a.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := entryTarget(dest, e)
		if err != nil {
			return err
		}
		if e.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			dirs++
		} else {
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if _, err := a.ExtractToPath(i, target); err != nil {
				return err
			}
			files++
		}
		if t, ok := e.Modified(); ok {
			if e.IsDir() {
				dirTimes = append(dirTimes, dirTime{target, t})
			} else {
				setModTime(root, target, t)
			}
		}
		if bar != nil {
			_ = bar.Add(1) //nolint:errcheck // display only
		}
	}

	// Writing children updates a directory's mtime, so directories go last.
	for _, d := range dirTimes {
		setModTime(root, d.path, d.t)
	}

	stats := a.Stats()
	root.logger.Info("extracted",
		"archive", path,
		"files", files,
		"dirs", dirs,
		"blocks", stats.BlocksDecoded,
		"bytes", stats.BytesDecoded,
	)
	return nil
}

// entryTarget maps an entry to its destination below dest, rejecting names
// that are absolute or climb out of dest.
func entryTarget(dest string, e solid.Entry) (string, error) {
	name := solid.NormalizePath(e.Name())
	if name == "." || !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %q", errUnsafeName, e.Name())
	}
	return filepath.Join(dest, filepath.FromSlash(name)), nil
}

func setModTime(root *rootOptions, path string, t time.Time) {
	if err := os.Chtimes(path, t, t); err != nil {
		root.logger.Warn("set modification time", "path", path, "error", err)
	}
}

// archiveDests returns the destination directory of each archive. A single
// archive extracts into outDir itself; several archives each get a
// subdirectory named after their stem, with a numeric suffix when stems repeat.
func archiveDests(outDir string, archives []string) []string {
	dests := make([]string, len(archives))
	if len(archives) == 1 {
		dests[0] = outDir
		return dests
	}
	used := make(map[string]bool, len(archives))
	for i, path := range archives {
		stem := archiveStem(path)
		name := stem
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", stem, n)
		}
		used[name] = true
		dests[i] = filepath.Join(outDir, name)
	}
	return dests
}

func archiveStem(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = base[:len(base)-len(ext)]
	}
	return base
}
