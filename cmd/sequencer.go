package cmd

import "fmt"

// runStages drives the ordered stage list against the target. It is strictly
// sequential and fail-fast: the first stage error is terminal and no later
// stage is attempted. A satisfied precondition records the stage as already
// satisfied without re-executing its work. There is no retry within a run;
// resumability comes from per-stage idempotency.
func runStages(ctx *runContext, stages []stage) *runOutcome {
	out := &runOutcome{state: statePending}
	for _, st := range stages {
		out.state = stateRunning
		ctx.log.Info().Str("stage", st.name).Msg("stage starting")

		if st.check != nil {
			satisfied, err := st.check(ctx)
			if err != nil {
				out.record(st.name, statusFailed, err.Error())
				out.state = stateFailed
				ctx.log.Error().Str("stage", st.name).Err(err).Msg("stage precondition check failed")
				return out
			}
			if satisfied {
				out.record(st.name, statusSkipped, "")
				ctx.log.Info().Str("stage", st.name).Msg("already satisfied")
				continue
			}
		}

		if err := st.apply(ctx); err != nil {
			out.record(st.name, statusFailed, err.Error())
			out.state = stateFailed
			ctx.log.Error().Str("stage", st.name).Err(err).Msg("stage failed, aborting run")
			return out
		}
		out.record(st.name, statusApplied, "")
		ctx.log.Info().Str("stage", st.name).Msg("applied")
	}
	out.warnings = ctx.warnings
	out.state = stateDone
	return out
}

// remoteError builds the run-terminating error for a remote command that
// exited non-zero, carrying the raw remote output for diagnosis.
func remoteError(what string, out []byte, exitStatus int, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%s: exit status %d: %s", what, exitStatus, string(out))
}
