package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/inlinecheck/internal/driver"
	"github.com/vovakirdan/inlinecheck/internal/ui"
)

type checkOutcome struct {
	outcomes []driver.Outcome
	err      error
}

// runChecksWithUI runs the batch while a progress view follows it on stdout.
func runChecksWithUI(ctx context.Context, session *driver.Session, reqs []driver.Request, jobs int, names []string) ([]driver.Outcome, error) {
	events := make(chan ui.Event, len(reqs))
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		outcomes, err := session.CheckAll(ctx, reqs, jobs, func(o driver.Outcome) {
			events <- progressEvent(o)
		})
		outcomeCh <- checkOutcome{outcomes: outcomes, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking blocks", names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.outcomes, uiErr
	}
	return outcome.outcomes, outcome.err
}

func progressEvent(o driver.Outcome) ui.Event {
	ev := ui.Event{Index: o.Index, Status: ui.StatusClean}
	switch {
	case o.Err != nil:
		ev.Status = ui.StatusError
	case o.Result != nil:
		ev.Errors = len(driver.Errors(o.Result.Diagnostics))
		if ev.Errors > 0 {
			ev.Status = ui.StatusFailed
		}
	}
	return ev
}
