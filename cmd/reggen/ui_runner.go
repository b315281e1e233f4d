package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"reggen/internal/pipeline"
	"reggen/internal/ui"
)

type sessionOutcome struct {
	result *pipeline.Result
	err    error
}

// runWithUI runs the session on its own goroutine while the progress view
// consumes its events.
func runWithUI(ctx context.Context, title string, req *pipeline.Request) (*pipeline.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("missing request")
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan sessionOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Run(ctx, &reqCopy)
		outcomeCh <- sessionOutcome{result: res, err: err}
		close(events)
	}()

	final := pipeline.StageValidate
	if req.Generate {
		final = pipeline.StageAssemble
	}
	model := ui.NewProgressModel(title, req.Models, final, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
