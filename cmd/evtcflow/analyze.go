package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/evtcflow/evtcflow/pkg/analyzer"
	"github.com/evtcflow/evtcflow/pkg/container"
	"github.com/evtcflow/evtcflow/pkg/evtc"
	"github.com/evtcflow/evtcflow/pkg/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files or directories...]",
	Short: "Analyze captures and report outcome per encounter",
	Long: `Analyze decodes each capture, rebuilds the fight and derives the result.
Directories are scanned recursively for capture files. Logs are processed
in parallel; each individual log is decoded sequentially.

Examples:
  evtcflow analyze fight.zevtc
  evtcflow analyze ~/arcdps.cbtlogs --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	files, err := collectLogFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no capture files found in %v", args)
	}

	eng, err := engine()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("interrupted, stopping workers")
		cancel()
	}()

	rep := &report.Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}

	var bar interface{ Add(int) error }
	if cfg.Report.Progress && cfg.Report.Format != "json" {
		bar = report.Progress(int64(len(files)), "analyzing")
	}

	rows := make([]report.Row, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount())

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i] = analyzeOne(eng, path)
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}

	rep.Rows = rows
	rep.Duration = time.Since(rep.Started)

	if cfg.Report.Format == "json" {
		return rep.WriteJSON(os.Stdout)
	}
	rep.WriteTable(os.Stdout, cfg.Report.Color)
	return nil
}

// analyzeOne processes a single capture. Failures land in the row, not in
// the batch error: one corrupt file must not kill the run.
func analyzeOne(eng *analyzer.Engine, path string) report.Row {
	row := report.Row{File: path}

	log, err := evtc.ProcessFile(path)
	if err != nil {
		slog.Debug("processing failed", "path", path, "err", err)
		row.Error = err.Error()
		return row
	}
	for _, warn := range log.Warnings() {
		slog.Warn("capture warning", "path", path, "warn", warn)
	}

	res := eng.Analyze(log)
	if enc, ok := log.Encounter(); ok {
		row.Encounter = enc.String()
	} else {
		row.Encounter = fmt.Sprintf("unknown (id %#x)", log.EncounterID())
	}
	row.Outcome = res.Outcome.String()
	row.Challenge = res.Challenge.String()
	row.Players = len(log.Players())
	return row
}

// collectLogFiles expands the arguments into a sorted, deduplicated list
// of capture files.
func collectLogFiles(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		stat, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !stat.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && container.IsLogFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func workerCount() int {
	if cfg.Process.Workers > 0 {
		return cfg.Process.Workers
	}
	return runtime.NumCPU()
}
