package cmd

import (
	"fmt"
	"path"
	"strings"
)

// captureModeSatisfied reports whether the interface is already promiscuous
// and the boot-persistence unit is in place with identical content.
func captureModeSatisfied(ctx *runContext) (bool, error) {
	iface := ctx.cfg.captureIface
	out, exit, err := ctx.rem.run("ip link show " + shellQuote(iface))
	if err != nil {
		return false, fmt.Errorf("ip link show %s: %w", iface, err)
	}
	if exit != 0 || !strings.Contains(string(out), "PROMISC") {
		return false, nil
	}
	return contentSatisfied(ctx, renderPromiscUnit(iface), path.Join(systemdDir, unitPromisc))
}

// enableCaptureMode puts the interface into promiscuous mode immediately and
// persists the setting across reboots through the generated oneshot unit.
// Re-applying promiscuous mode and re-writing identical unit content are both
// no-ops in effect.
func enableCaptureMode(ctx *runContext) error {
	iface := ctx.cfg.captureIface
	set := "ip link set " + shellQuote(iface) + " promisc on"
	if out, exit, err := ctx.rem.run(ctx.cfg.maybeSudo(set)); err != nil || exit != 0 {
		return remoteError("enable promiscuous mode on "+iface, out, exit, err)
	}

	unitPath := path.Join(systemdDir, unitPromisc)
	if err := publishContent(ctx, renderPromiscUnit(iface), unitPath, "root", "0644"); err != nil {
		return err
	}
	reload := "systemctl daemon-reload && systemctl enable " + unitPromisc
	if out, exit, err := ctx.rem.run(ctx.cfg.maybeSudo(reload)); err != nil || exit != 0 {
		return remoteError("enable "+unitPromisc, out, exit, err)
	}
	return nil
}
