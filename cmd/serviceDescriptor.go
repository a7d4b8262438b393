package cmd

import (
	"fmt"
	"path"
)

// Managed service names as they appear in the manifest, and the systemd unit
// names generated for them. The dependency relation among the managed units
// is a simple chain: capture mode must hold before the sensor captures,
// the shipper tails what the sensor writes, and the dashboard reads what the
// shipper forwards.
const (
	svcSensor    = "sensor"
	svcShipper   = "log-shipper"
	svcDashboard = "dashboard"

	unitPromisc   = "ids4-promisc.service"
	unitSensor    = "ids4-sensor.service"
	unitShipper   = "ids4-shipper.service"
	unitDashboard = "ids4-dashboard.service"

	systemdDir = "/etc/systemd/system"

	// dashboardHealthURL is probed on the target's loopback; the dashboard
	// does not listen on external interfaces.
	dashboardHealthURL = "http://127.0.0.1:8000/health"
)

func knownService(name string) bool {
	switch name {
	case svcSensor, svcShipper, svcDashboard:
		return true
	}
	return false
}

// serviceDescriptor is the declarative description of one persistent service:
// how it runs and where it sits in the activation chain. Ordering is data,
// not control flow, so it can be validated without a live host.
type serviceDescriptor struct {
	name        string
	unit        string
	description string
	execStart   string
	user        string
	workingDir  string
	environment []string
	after       []string
	requires    []string
	wants       []string
	restartSec  int
}

// serviceChain builds the three managed service descriptors for this run.
// The sensor hard-requires the capture-mode unit; the shipper and dashboard
// use Wants so a dependency crash degrades the chain instead of tearing it
// down.
func serviceChain(cfg deployConfig) []serviceDescriptor {
	venvPython := path.Join(cfg.baseDir, ".venv", "bin", "python")
	return []serviceDescriptor{
		{
			name:        svcSensor,
			unit:        unitSensor,
			description: "IDS4 Suricata sensor",
			execStart:   fmt.Sprintf("/usr/bin/suricata -c /etc/suricata/suricata.yaml --af-packet=%s", cfg.captureIface),
			user:        "root",
			after:       []string{"network.target", unitPromisc},
			requires:    []string{unitPromisc},
			restartSec:  5,
		},
		{
			name:        svcShipper,
			unit:        unitShipper,
			description: "IDS4 Vector log shipper",
			execStart:   "/usr/bin/vector --config /etc/vector/vector.toml",
			user:        "root",
			after:       []string{unitSensor},
			wants:       []string{unitSensor},
			restartSec:  5,
		},
		{
			name:        svcDashboard,
			unit:        unitDashboard,
			description: "IDS4 monitoring dashboard",
			execStart:   venvPython + " -m ids.dashboard",
			user:        "root",
			workingDir:  cfg.baseDir,
			environment: []string{
				"IDS4_EVE_LOG=/var/log/suricata/eve.json",
				"IDS4_HTTP_PORT=8000",
			},
			after:      []string{unitShipper},
			wants:      []string{unitShipper},
			restartSec: 5,
		},
	}
}

// chainPredecessor maps each managed unit to the unit it must follow.
var chainPredecessor = map[string]string{
	unitSensor:    unitPromisc,
	unitShipper:   unitSensor,
	unitDashboard: unitShipper,
}

// validateChain refuses descriptor sets whose ordering relations are
// inconsistent with the required chain capture-mode -> sensor -> log-shipper
// -> dashboard: every descriptor must depend on exactly its chain
// predecessor, and the relation graph over managed units must be acyclic.
func validateChain(descs []serviceDescriptor) error {
	managed := map[string]bool{unitPromisc: true}
	for _, d := range descs {
		if managed[d.unit] {
			return fmt.Errorf("duplicate unit %s in descriptor set", d.unit)
		}
		managed[d.unit] = true
	}

	edges := make(map[string][]string)
	for _, d := range descs {
		want, ok := chainPredecessor[d.unit]
		if !ok {
			return fmt.Errorf("unit %s has no place in the service chain", d.unit)
		}
		deps := map[string]bool{}
		for _, rel := range [][]string{d.after, d.requires, d.wants} {
			for _, ref := range rel {
				if managed[ref] {
					deps[ref] = true
					edges[d.unit] = append(edges[d.unit], ref)
				}
			}
		}
		if !deps[want] {
			return fmt.Errorf("unit %s must order after %s", d.unit, want)
		}
		if len(deps) != 1 {
			return fmt.Errorf("unit %s declares ordering beyond its chain predecessor %s", d.unit, want)
		}
	}

	// Cycle check over the managed relation graph.
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int)
	var visit func(u string) error
	visit = func(u string) error {
		switch state[u] {
		case visiting:
			return fmt.Errorf("ordering cycle through %s", u)
		case done:
			return nil
		}
		state[u] = visiting
		for _, v := range edges[u] {
			if err := visit(v); err != nil {
				return err
			}
		}
		state[u] = done
		return nil
	}
	for _, d := range descs {
		if err := visit(d.unit); err != nil {
			return err
		}
	}
	return nil
}

// activationOrder lists the managed units in dependency order, capture-mode
// unit first. Activation must never start a unit before its predecessor.
func activationOrder() []string {
	return []string{unitPromisc, unitSensor, unitShipper, unitDashboard}
}
