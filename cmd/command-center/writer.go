package main

import (
	"os"

	"command-center/internal/center"
	"command-center/internal/config"
)

// rowWriter bundles the three output streams every concrete writer serves.
type rowWriter interface {
	center.StatusWriter
	center.SummaryWriter
	center.AlertWriter
}

// newWriters sets up the output writers based on flags and env vars.
// It returns the writer and a cleanup function to close any resources.
func newWriters(cfg *config.CenterConfig, printOnly bool, logFile string, colorize bool) (rowWriter, func(), error) {
	cleanup := func() {}

	writer, err := baseWriter(cfg, printOnly, colorize)
	if err != nil {
		return nil, nil, err
	}
	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := center.NewFileWriter(logFile, logFile+".summary", logFile+".alerts")
	if err != nil {
		return nil, nil, err
	}
	mw := center.NewMultiWriter(
		[]center.StatusWriter{writer, fw},
		[]center.SummaryWriter{writer, fw},
		[]center.AlertWriter{writer, fw},
	)
	cleanup = func() { fw.Close() }
	return mw, cleanup, nil
}

// baseWriter chooses the underlying writer based on printOnly and env vars.
func baseWriter(cfg *config.CenterConfig, printOnly bool, colorize bool) (rowWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		return center.NewStdoutWriter(cfg, colorize), nil
	}
	return greptimeWriter()
}

// greptimeWriter builds the GreptimeDB writer from env vars.
func greptimeWriter() (*center.GreptimeWriter, error) {
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	statusTable := os.Getenv("ENTITY_STATUS_TABLE")
	summaryTable := os.Getenv("CENTER_SUMMARY_TABLE")
	alertTable := os.Getenv("CENTER_ALERT_TABLE")
	return center.NewGreptimeWriter(endpoint, "public", statusTable, summaryTable, alertTable)
}
