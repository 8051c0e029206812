package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/prose-lang/prose/internal/catalogue"
	"github.com/prose-lang/prose/internal/driver"
)

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	targets := fs.String("targets", "python", "comma-separated backends (python, javascript, go)")
	pattern := fs.String("pattern", "*.prose", "glob pattern for files to watch")
	debounce := fs.Duration("debounce", 200*time.Millisecond, "delay before recompiling after a change")
	fs.Parse(args)

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}

	matcher, err := glob.Compile(*pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prose: bad pattern %q: %v\n", *pattern, err)
		return 1
	}

	pipeline, err := driver.NewPipeline(catalogue.Builtin(), splitTargets(*targets))
	if err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return 1
	}

	w, err := newWatchLoop(pipeline, matcher, *debounce)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return 1
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return 1
	}

	fmt.Printf("watching %s for %s files\n", dir, *pattern)
	go w.Run()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return 0
}

type watchLoop struct {
	fsWatcher *fsnotify.Watcher
	pipeline  *driver.Pipeline
	matcher   glob.Glob
	debounce  time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

func newWatchLoop(pipeline *driver.Pipeline, matcher glob.Glob, debounce time.Duration) (*watchLoop, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &watchLoop{
		fsWatcher: fsw,
		pipeline:  pipeline,
		matcher:   matcher,
		debounce:  debounce,
		pending:   make(map[string]struct{}),
	}, nil
}

func (w *watchLoop) Add(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.fsWatcher.Add(path)
		}
		return nil
	})
}

func (w *watchLoop) Close() error { return w.fsWatcher.Close() }

func (w *watchLoop) Run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.Add(event.Name)
					continue
				}
			}
			if !w.matcher.Match(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create {
				w.schedule(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "prose: watch: %v\n", err)
		}
	}
}

// schedule coalesces rapid successive events for the same file into
// one recompilation after the debounce interval.
func (w *watchLoop) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *watchLoop) flush() {
	w.mu.Lock()
	files := make([]string, 0, len(w.pending))
	for path := range w.pending {
		files = append(files, path)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	for _, file := range files {
		w.rebuild(file)
	}
}

func (w *watchLoop) rebuild(file string) {
	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prose: %v\n", err)
		return
	}

	res := w.pipeline.Compile(file, string(source))
	printDiagnostics(file, string(source), res.Diagnostics)
	if res.State != driver.StateDone {
		fmt.Fprintf(os.Stderr, "%s: build failed\n", file)
		return
	}
	fmt.Printf("%s: ok (%s)\n", file, time.Now().Format("15:04:05"))
}
