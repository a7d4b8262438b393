package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ids4",
	Short: "Deploy the IDS4 sensor, log shipper, and dashboard to a remote host",
	Long: "Connects to a target host over SSH and drives the ordered deployment stages: " +
		"dependency installation, service configuration, capture-mode setup, code sync, " +
		"runtime environment, systemd unit generation, dependency-ordered activation, and " +
		"post-deployment verification. Re-running against a partially deployed host is safe: " +
		"every stage validates completed work instead of redoing it.",
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgManifest == "" {
			return errors.New("--manifest is required (path to YAML)")
		}
		mf, err := loadManifest(cfgManifest)
		if err != nil {
			return fmt.Errorf("failed to read manifest: %w", err)
		}

		cfg, err := resolveConfig(mf)
		if err != nil {
			return err
		}

		log := newLogger(cfgVerbose)
		log.Info().Str("target", cfg.target).Str("manifest", mf.Name).Msg("starting deployment")

		rem, err := newRemoteFunc(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = rem.close() }()

		ctx := &runContext{cfg: cfg, mf: mf, rem: rem, log: log}
		out := runStages(ctx, buildStages())
		out.render(os.Stdout)

		if failed := out.failedStage(); failed != nil {
			return fmt.Errorf("stage %s failed: %s", failed.name, failed.detail)
		}
		log.Info().Int("warnings", len(out.warnings)).Msg("deployment done")
		return nil
	},
}

// resolveConfig collapses flags, environment overrides, and manifest defaults
// into the immutable per-run configuration. Flags win over manifest values.
func resolveConfig(mf *manifest) (deployConfig, error) {
	cfg := deployConfig{
		target:       cfgTarget,
		user:         cfgUser,
		password:     cfgPassword,
		keyPath:      cfgKeyPath,
		passphrase:   cfgPassphrase,
		knownHosts:   cfgKnownHosts,
		baseDir:      cfgBaseDir,
		captureIface: cfgInterface,
		cmdTimeout:   cfgTimeout,
		connTimeout:  cfgConnTimeout,
		settleDelay:  cfgSettle,
	}
	if cfg.target == "" {
		if host := strings.TrimSpace(mf.SSHHost.IP); host != "" {
			if strings.Contains(host, ":") {
				cfg.target = host
			} else {
				cfg.target = host + ":22"
			}
		}
	}
	if cfg.user == "" {
		cfg.user = strings.TrimSpace(mf.SSHHost.User)
	}
	if cfg.baseDir == "" {
		cfg.baseDir = mf.RemoteBase
	}
	if cfg.captureIface == "" {
		cfg.captureIface = mf.Interface
	}
	if err := cfg.validate(); err != nil {
		return deployConfig{}, err
	}
	return cfg, nil
}
