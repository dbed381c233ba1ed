package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evtcflow/evtcflow/pkg/report"
	"github.com/evtcflow/evtcflow/pkg/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and analyze new captures as they appear",
	Long: `Watch monitors a directory tree for capture files and analyzes each one
once the recorder finishes writing it. Results stream to stdout.

Example:
  evtcflow watch ~/arcdps.cbtlogs`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	eng, err := engine()
	if err != nil {
		return err
	}

	w, err := watch.NewWatcher(cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	w.OnLog = func(path string) error {
		row := analyzeOne(eng, path)
		printRow(row)
		return nil
	}
	w.OnError = func(path string, err error) {
		slog.Error("watch error", "path", path, "err", err)
	}

	if err := w.Watch(args[0]); err != nil {
		return err
	}
	slog.Info("watching for captures", "dir", args[0], "debounce", cfg.Watch.Debounce)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err = w.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

// printRow streams one result line per analyzed capture.
func printRow(row report.Row) {
	if row.Error != "" {
		fmt.Printf("%s: error: %s\n", row.File, row.Error)
		return
	}
	fmt.Printf("%s: %s outcome=%s challenge=%s players=%d\n",
		row.File, row.Encounter, row.Outcome, row.Challenge, row.Players)
}
