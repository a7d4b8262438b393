package cmd

import "fmt"

type installResult int

const (
	alreadyPresent installResult = iota
	installed
)

// toolSpec declares one tool the target must carry: a presence probe that
// exits zero when the tool is available and the privileged command that
// installs it.
type toolSpec struct {
	name    string
	probe   string
	install string
}

// probeTool reports whether the tool's presence probe succeeds on the target.
func probeTool(ctx *runContext, t toolSpec) (bool, error) {
	_, exit, err := ctx.rem.run(t.probe)
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", t.name, err)
	}
	return exit == 0, nil
}

// ensurePresent installs the tool only when its presence probe fails. An
// already-present tool is never reinstalled; an installation failure is fatal
// to the run (package installs are assumed atomic at the package-manager
// level, no partial-install recovery is attempted).
func ensurePresent(ctx *runContext, t toolSpec) (installResult, error) {
	present, err := probeTool(ctx, t)
	if err != nil {
		return alreadyPresent, err
	}
	if present {
		ctx.log.Debug().Str("tool", t.name).Msg("already present")
		return alreadyPresent, nil
	}
	ctx.log.Info().Str("tool", t.name).Msg("installing")
	out, exit, err := ctx.rem.run(ctx.cfg.maybeSudo(t.install))
	if err != nil || exit != 0 {
		return alreadyPresent, remoteError("install "+t.name, out, exit, err)
	}
	return installed, nil
}
