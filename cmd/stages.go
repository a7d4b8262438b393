package cmd

import (
	"fmt"
	"path"
)

func aptInstall(pkg string) string {
	return "DEBIAN_FRONTEND=noninteractive apt-get install -y " + pkg
}

// baseTools are the host prerequisites for later stages: curl drives the
// health probe, python3 and the venv module carry the dashboard runtime.
var baseTools = []toolSpec{
	{name: "curl", probe: "command -v curl >/dev/null 2>&1", install: aptInstall("curl")},
	{name: "python3", probe: "command -v python3 >/dev/null 2>&1", install: aptInstall("python3")},
	{name: "python3-venv", probe: "python3 -m venv -h >/dev/null 2>&1", install: aptInstall("python3-venv")},
}

var sensorTool = toolSpec{
	name:    "suricata",
	probe:   "command -v suricata >/dev/null 2>&1",
	install: aptInstall("suricata"),
}

var shipperTool = toolSpec{
	name:    "vector",
	probe:   "command -v vector >/dev/null 2>&1",
	install: aptInstall("vector"),
}

// serviceStage builds the install-and-configure stage for one managed
// service: the tool must be present and its configuration artifact published.
func serviceStage(name string, tool toolSpec, service string) stage {
	return stage{
		name: name,
		check: func(ctx *runContext) (bool, error) {
			present, err := probeTool(ctx, tool)
			if err != nil || !present {
				return false, err
			}
			if a := ctx.mf.artifactFor(service); a != nil {
				return artifactSatisfied(ctx, *a)
			}
			return true, nil
		},
		apply: func(ctx *runContext) error {
			if _, err := ensurePresent(ctx, tool); err != nil {
				return err
			}
			if a := ctx.mf.artifactFor(service); a != nil {
				return publishArtifact(ctx, *a)
			}
			return nil
		},
	}
}

// buildStages returns the canonical ordered stage list. The sequencer drives
// these strictly in order; no component calls another except through it.
func buildStages() []stage {
	return []stage{
		{
			name: "connectivity",
			apply: func(ctx *runContext) error {
				if out, exit, err := ctx.rem.run("true"); err != nil || exit != 0 {
					return remoteError("connectivity probe", out, exit, err)
				}
				if err := ctx.rem.mkdirAll(ctx.cfg.baseDir); err != nil {
					return fmt.Errorf("create base dir %s: %w", ctx.cfg.baseDir, err)
				}
				return nil
			},
		},
		{
			name: "dependencies",
			check: func(ctx *runContext) (bool, error) {
				for _, t := range baseTools {
					present, err := probeTool(ctx, t)
					if err != nil || !present {
						return false, err
					}
				}
				return true, nil
			},
			apply: func(ctx *runContext) error {
				update := ctx.cfg.maybeSudo("apt-get update -y")
				if out, exit, err := ctx.rem.run(update); err != nil || exit != 0 {
					return remoteError("apt-get update", out, exit, err)
				}
				for _, t := range baseTools {
					if _, err := ensurePresent(ctx, t); err != nil {
						return err
					}
				}
				return nil
			},
		},
		serviceStage("sensor", sensorTool, svcSensor),
		serviceStage("log-shipper", shipperTool, svcShipper),
		{
			name:  "network-mode",
			check: captureModeSatisfied,
			apply: enableCaptureMode,
		},
		{
			name: "code-sync",
			check: func(ctx *runContext) (bool, error) {
				actions, err := mirrorPlan(ctx, ctx.mf.CodeDir, ctx.cfg.baseDir, defaultExcludes)
				if err != nil {
					return false, err
				}
				return len(actions) == 0, nil
			},
			apply: func(ctx *runContext) error {
				actions, err := mirrorPlan(ctx, ctx.mf.CodeDir, ctx.cfg.baseDir, defaultExcludes)
				if err != nil {
					return err
				}
				return mirrorApply(ctx, ctx.mf.CodeDir, ctx.cfg.baseDir, actions)
			},
		},
		{
			name:  "environment",
			apply: ensureEnvironment,
		},
		{
			name: "unit-descriptors",
			check: func(ctx *runContext) (bool, error) {
				chain := serviceChain(ctx.cfg)
				if err := validateChain(chain); err != nil {
					return false, err
				}
				for _, d := range chain {
					ok, err := contentSatisfied(ctx, renderUnit(d), path.Join(systemdDir, d.unit))
					if err != nil || !ok {
						return false, err
					}
				}
				return true, nil
			},
			apply: func(ctx *runContext) error {
				chain := serviceChain(ctx.cfg)
				if err := validateChain(chain); err != nil {
					return fmt.Errorf("refusing to generate unit descriptors: %w", err)
				}
				for _, d := range chain {
					unitPath := path.Join(systemdDir, d.unit)
					if err := publishContent(ctx, renderUnit(d), unitPath, "root", "0644"); err != nil {
						return err
					}
				}
				// One reload makes the service manager aware of all units
				// together; a reload failure is fatal, there is no rollback.
				reload := ctx.cfg.maybeSudo("systemctl daemon-reload")
				if out, exit, err := ctx.rem.run(reload); err != nil || exit != 0 {
					return remoteError("systemctl daemon-reload", out, exit, err)
				}
				return nil
			},
		},
		{
			name: "infra-config-reminder",
			apply: func(ctx *runContext) error {
				ctx.log.Warn().Msg("reminder: the Vector sink endpoints (Redis buffer, " +
					"OpenSearch output) and the /var/lib/vector buffer paths are " +
					"provisioned out of band; verify them before relying on the pipeline")
				return nil
			},
		},
		{
			name:  "activation",
			check: allServicesActive,
			apply: activateServices,
		},
		{
			name:  "verification",
			apply: verifyServices,
		},
	}
}
