// Command tacc lexes, parses, lowers, and emits x86-64 NASM-style
// assembly for one or more source files, following the flag-based,
// no-subcommand-framework style of cmd/orizon-compiler/main.go.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tacc-project/tacc/internal/compile"
	"github.com/tacc-project/tacc/internal/version"
	"github.com/tacc-project/tacc/internal/watch"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		jsonOutput  = flag.Bool("json", false, "output version in JSON format")
		emitTAC     = flag.Bool("emit-tac", false, "print the lowered three-address-code listing instead of assembly")
		outPath     = flag.String("o", "", "output path (default: stdout)")
		watchMode   = flag.Bool("watch", false, "recompile on write")
		jobs        = flag.Int("jobs", 4, "maximum number of files compiled concurrently")
	)
	flag.Parse()

	if *showVersion {
		fmt.Print(version.Print("tacc", *jsonOutput))
		return
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		flag.Usage()
		os.Exit(1)
	}

	if *watchMode {
		if err := runWatch(inputs, *emitTAC, *outPath); err != nil {
			fail(err)
		}
		return
	}

	if err := compileAll(inputs, *emitTAC, *outPath, *jobs); err != nil {
		fail(err)
	}
}

// compileAll compiles every input file independently and concurrently —
// the back end itself stays strictly single-threaded per file, but
// whole-file compilations don't depend on each other, so a bounded
// errgroup fans them out the same way cmd/orizon/main.go and
// internal/packagemanager/manager.go bound concurrent package work.
func compileAll(inputs []string, emitTAC bool, outPath string, jobs int) error {
	g := new(errgroup.Group)
	g.SetLimit(jobs)

	results := make([]string, len(inputs))
	for i, path := range inputs {
		i, path := i, path
		g.Go(func() error {
			out, err := compileOne(path, emitTAC)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return writeResults(inputs, results, outPath)
}

func compileOne(path string, emitTAC bool) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	result, err := compile.File(string(src))
	if err != nil {
		return "", err
	}
	if emitTAC {
		var listing strings.Builder
		for _, fn := range result.Functions {
			listing.WriteString(fn.String())
		}
		return listing.String(), nil
	}
	return result.Assembly, nil
}

func writeResults(inputs, outputs []string, outPath string) error {
	var combined strings.Builder
	for _, o := range outputs {
		combined.WriteString(o)
	}

	if outPath == "" {
		_, err := fmt.Print(combined.String())
		return err
	}
	return os.WriteFile(outPath, []byte(combined.String()), 0o644)
}

// runWatch watches each input's directory and recompiles an input file on
// every write event for it. Events are handled one at a time on this
// goroutine, so the watch.Coalescer never sees two calls for the same
// path in flight: each write event of a multi-event save triggers its
// own rebuild.
func runWatch(inputs []string, emitTAC bool, outPath string) error {
	w, err := watch.NewFSWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]bool)
	for _, path := range inputs {
		dir := filepath.Dir(path)
		if !watched[dir] {
			if err := w.Add(dir); err != nil {
				return err
			}
			watched[dir] = true
		}
	}

	// compile once up front, the way a watch mode should show current
	// state immediately rather than waiting for the first edit.
	if err := compileAll(inputs, emitTAC, outPath, len(inputs)); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}

	var coalescer watch.Coalescer
	inputSet := make(map[string]bool, len(inputs))
	for _, p := range inputs {
		inputSet[p] = true
	}

	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Op&watch.OpWrite == 0 || !inputSet[ev.Path] {
				continue
			}
			err := coalescer.Do(ev.Path, func() error {
				out, err := compileOne(ev.Path, emitTAC)
				if err != nil {
					return err
				}
				return writeResults([]string{ev.Path}, []string{out}, outPath)
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", ev.Path, err)
				continue
			}
			fmt.Fprintf(os.Stderr, "recompiled %s -> %s\n", ev.Path, outDescription(outPath))
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func outDescription(outPath string) string {
	if outPath == "" {
		return "stdout"
	}
	return outPath
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
