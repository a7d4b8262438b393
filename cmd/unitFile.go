package cmd

import (
	"fmt"
	"io"

	"github.com/coreos/go-systemd/v22/unit"
)

// renderUnit serializes a service descriptor into systemd unit-file text.
// The ordering relations of the descriptor become After/Requires/Wants
// directives verbatim, so the generated text is a direct encoding of the
// validated chain.
func renderUnit(d serviceDescriptor) string {
	opts := []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", d.description),
	}
	for _, ref := range d.after {
		opts = append(opts, unit.NewUnitOption("Unit", "After", ref))
	}
	for _, ref := range d.requires {
		opts = append(opts, unit.NewUnitOption("Unit", "Requires", ref))
	}
	for _, ref := range d.wants {
		opts = append(opts, unit.NewUnitOption("Unit", "Wants", ref))
	}

	opts = append(opts,
		unit.NewUnitOption("Service", "Type", "simple"),
		unit.NewUnitOption("Service", "ExecStart", d.execStart),
	)
	if d.user != "" {
		opts = append(opts, unit.NewUnitOption("Service", "User", d.user))
	}
	if d.workingDir != "" {
		opts = append(opts, unit.NewUnitOption("Service", "WorkingDirectory", d.workingDir))
	}
	for _, env := range d.environment {
		opts = append(opts, unit.NewUnitOption("Service", "Environment", env))
	}
	opts = append(opts,
		unit.NewUnitOption("Service", "Restart", "always"),
		unit.NewUnitOption("Service", "RestartSec", fmt.Sprintf("%d", d.restartSec)),
		unit.NewUnitOption("Install", "WantedBy", "multi-user.target"),
	)

	return readAllString(unit.Serialize(opts))
}

// renderPromiscUnit generates the boot-time unit that re-applies promiscuous
// mode on every boot, ordered after core networking initialization and
// before the network-ready milestone.
func renderPromiscUnit(iface string) string {
	opts := []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", "IDS4 promiscuous capture mode for "+iface),
		unit.NewUnitOption("Unit", "After", "network.target"),
		unit.NewUnitOption("Unit", "Before", "network-online.target"),
		unit.NewUnitOption("Service", "Type", "oneshot"),
		unit.NewUnitOption("Service", "RemainAfterExit", "yes"),
		unit.NewUnitOption("Service", "ExecStart", "/usr/sbin/ip link set "+iface+" promisc on"),
		unit.NewUnitOption("Install", "WantedBy", "multi-user.target"),
	}
	return readAllString(unit.Serialize(opts))
}

func readAllString(r io.Reader) string {
	b, err := io.ReadAll(r)
	if err != nil {
		// Serialize reads from an in-memory buffer; this cannot fail.
		panic(err)
	}
	return string(b)
}
