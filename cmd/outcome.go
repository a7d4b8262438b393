package cmd

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type stageStatus int

const (
	statusSkipped stageStatus = iota // precondition already satisfied
	statusApplied
	statusFailed
)

func (s stageStatus) String() string {
	switch s {
	case statusSkipped:
		return "already satisfied"
	case statusApplied:
		return "applied"
	case statusFailed:
		return "failed"
	}
	return "unknown"
}

// runState tracks the sequencer's state machine. The run moves Pending ->
// Running on first stage dispatch and terminates in Done or Failed; a Failed
// run never attempts another stage.
type runState int

const (
	statePending runState = iota
	stateRunning
	stateDone
	stateFailed
)

func (s runState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateRunning:
		return "running"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// stageResult is one entry of the ordered run log.
type stageResult struct {
	name   string
	status stageStatus
	detail string
}

// runOutcome is the ordered log of stage results for a single run. It is
// rendered at process exit and not persisted.
type runOutcome struct {
	state    runState
	results  []stageResult
	warnings []string
}

func (o *runOutcome) record(name string, status stageStatus, detail string) {
	o.results = append(o.results, stageResult{name: name, status: status, detail: detail})
}

// failedStage returns the failing stage result, if any.
func (o *runOutcome) failedStage() *stageResult {
	for i := range o.results {
		if o.results[i].status == statusFailed {
			return &o.results[i]
		}
	}
	return nil
}

// exitCode maps the terminal run state to the process exit status: zero for
// Done (verification warnings included), non-zero otherwise.
func (o *runOutcome) exitCode() int {
	if o.state == stateDone {
		return 0
	}
	return 1
}

// render writes the run summary table.
func (o *runOutcome) render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Stage", "Status", "Detail"})
	for i, r := range o.results {
		row := table.Row{i + 1, r.name, r.status.String(), r.detail}
		if r.status == statusFailed {
			row[2] = text.FgRed.Sprint(r.status.String())
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", "", "run state", o.state.String()})
	t.Render()
}
