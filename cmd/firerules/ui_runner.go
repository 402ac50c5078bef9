package main

import (
	"context"
	"os"

	"firerules/internal/driver"
	"firerules/internal/ui"
)

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

// runCheckWithUI runs the check in the background while the progress view
// renders to stderr.
func runCheckWithUI(ctx context.Context, title string, files, paths []string, opts driver.CheckOptions) (*driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = ui.ChannelSink(events)
		res, err := driver.Check(ctx, paths, optsCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(os.Stderr, title, files, events)
	// вид мог закрыться раньше (ctrl+c): дочитываем события, чтобы воркеры не блокировались
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
