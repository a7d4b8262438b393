package cmd

import (
	"fmt"
	"strings"
)

// verifyServices probes liveness for every managed unit and the dashboard's
// HTTP health endpoint. Verification runs after the stateful part of the
// deployment has completed, so every unhealthy result is surfaced as a
// warning rather than a run failure: the operator needs the full diagnostic
// picture, not a truncated log.
func verifyServices(ctx *runContext) error {
	for _, u := range activationOrder() {
		out, exit, err := ctx.rem.run("systemctl is-active " + u)
		if err != nil {
			ctx.warn(fmt.Sprintf("liveness probe for %s failed: %v", u, err))
			continue
		}
		if exit != 0 {
			ctx.warn(fmt.Sprintf("%s is not active: %s", u, strings.TrimSpace(string(out))))
		}
	}

	// Health endpoint binds to the target loopback, so the probe runs on the
	// target itself over the command channel.
	curl := "curl -fsS -m 5 " + shellQuote(dashboardHealthURL)
	if out, exit, err := ctx.rem.run(curl); err != nil || exit != 0 {
		detail := strings.TrimSpace(string(out))
		if err != nil {
			detail = err.Error()
		}
		ctx.warn(fmt.Sprintf("dashboard health check %s failed: %s", dashboardHealthURL, detail))
	}
	return nil
}
