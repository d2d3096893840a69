package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/xpanvictor/ticnote/pkg/Logger"
)

// run tracks one asset through the pipeline.
//
//	stored -> transcribing -> summarizing -> processed
//	transcribing|summarizing -> failed
type run struct {
	ID           uuid.UUID
	StateMachine *fsm.FSM
	logger       *Logger.Logger
}

func newRun(filename string, logger *Logger.Logger) *run {
	r := &run{ID: uuid.New(), logger: logger}
	r.StateMachine = fsm.NewFSM(
		string(STORED),
		fsm.Events{
			{Name: string(TRANSCRIBE), Src: []string{string(STORED)}, Dst: string(TRANSCRIBING)},
			{Name: string(SUMMARIZE), Src: []string{string(TRANSCRIBING)}, Dst: string(SUMMARIZING)},
			{Name: string(COMPLETE), Src: []string{string(SUMMARIZING)}, Dst: string(PROCESSED)},
			{Name: string(FAIL), Src: []string{string(TRANSCRIBING), string(SUMMARIZING)}, Dst: string(FAILED)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debugf("pipeline run %s (%s): %s -> %s", r.ID, filename, e.Src, e.Dst)
			},
		},
	)
	return r
}

func (r *run) advance(event RunEvents) {
	// transitions are driven from a background context so a cancelled
	// request still records where it stopped
	if err := r.StateMachine.Event(context.Background(), string(event)); err != nil {
		r.logger.Warnf("pipeline run %s: %s from %s rejected: %v", r.ID, event, r.StateMachine.Current(), err)
	}
}

func (r *run) phase() RunPhase {
	return RunPhase(r.StateMachine.Current())
}

// fail moves the run to FAILED and returns the stage that was active.
func (r *run) fail() string {
	stage := StageTranscription
	if r.phase() == SUMMARIZING {
		stage = StageSummary
	}
	r.advance(FAIL)
	return stage
}
