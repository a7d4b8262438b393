package cmd

import (
	"fmt"
	"path"
)

// ensureEnvironment creates the isolated runtime environment under the remote
// base directory when absent and installs the declared dependencies into it.
// Environment creation is idempotent; dependency installation deliberately
// runs on every invocation because declared versions drift between runs,
// unlike tool presence. A resolution failure is fatal.
func ensureEnvironment(ctx *runContext) error {
	venv := path.Join(ctx.cfg.baseDir, ".venv")
	exists, err := remoteFileExists(ctx, path.Join(venv, "bin", "python"))
	if err != nil {
		return err
	}
	if !exists {
		ctx.log.Info().Str("path", venv).Msg("creating virtual environment")
		mk := "python3 -m venv " + shellQuote(venv)
		if out, exit, err := ctx.rem.run(mk); err != nil || exit != 0 {
			return remoteError("create virtualenv", out, exit, err)
		}
	}

	reqs := path.Join(ctx.cfg.baseDir, ctx.mf.Requirements)
	pip := fmt.Sprintf("%s install --upgrade -r %s",
		shellQuote(path.Join(venv, "bin", "pip")), shellQuote(reqs))
	if out, exit, err := ctx.rem.run(pip); err != nil || exit != 0 {
		return remoteError("install dependencies", out, exit, err)
	}
	return nil
}
