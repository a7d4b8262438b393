package cmd

// unitActive reports whether a systemd unit is in active state.
func unitActive(ctx *runContext, unitName string) (bool, error) {
	_, exit, err := ctx.rem.run("systemctl is-active --quiet " + unitName)
	if err != nil {
		return false, err
	}
	return exit == 0, nil
}

// allServicesActive is the activation stage's precondition: every managed
// unit already active means there is nothing to start.
func allServicesActive(ctx *runContext) (bool, error) {
	for _, u := range activationOrder() {
		active, err := unitActive(ctx, u)
		if err != nil {
			return false, err
		}
		if !active {
			return false, nil
		}
	}
	return true, nil
}

// activateServices enables and starts every managed unit in dependency order,
// capture-mode unit first. A fixed settling delay separates each dependency
// from its dependent: systemd's active signal does not guarantee the unit has
// finished its own internal warm-up. A unit that fails to activate aborts the
// run, because ordered startup cannot safely continue past a broken link.
func activateServices(ctx *runContext) error {
	units := activationOrder()
	for i, u := range units {
		ctx.log.Info().Str("unit", u).Msg("activating")
		cmd := "systemctl enable --now " + u
		if out, exit, err := ctx.rem.run(ctx.cfg.maybeSudo(cmd)); err != nil || exit != 0 {
			return remoteError("activate "+u, out, exit, err)
		}
		if i < len(units)-1 {
			sleepFunc(ctx.cfg.settleDelay)
		}
	}
	return nil
}
