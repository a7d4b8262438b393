package cmd

import "github.com/rs/zerolog"

// stage is one ordered unit of orchestration work. check is the precondition:
// it reports whether the stage's effect already holds on the target, so that
// re-runs validate completed work instead of redoing it. A nil check means
// the stage always applies (connectivity probes, dependency reinstalls,
// verification). apply performs the work when the precondition does not hold.
type stage struct {
	name  string
	check func(*runContext) (bool, error)
	apply func(*runContext) error
}

// runContext carries the immutable run configuration, the manifest, the
// remote capability, and the logger into every stage. Stages communicate only
// through the sequencer; the context is the sole shared state, and the
// warnings slice collects verification findings that must not fail the run.
type runContext struct {
	cfg      deployConfig
	mf       *manifest
	rem      remote
	log      zerolog.Logger
	warnings []string
}

func (ctx *runContext) warn(msg string) {
	ctx.warnings = append(ctx.warnings, msg)
	ctx.log.Warn().Msg(msg)
}
