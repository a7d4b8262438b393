package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// init configures the root command's persistent flags, binds them to
// environment variables via Viper, and registers the subcommands. All of this
// state is consumed exactly once, in resolveConfig, to build the immutable
// per-run configuration.
func init() {
	// Persistent flags (inherited by subcommands like `check`)
	rootCmd.PersistentFlags().StringVarP(&cfgManifest, "manifest", "m", "", "Path to YAML deployment manifest")
	rootCmd.PersistentFlags().StringVarP(&cfgTarget, "target", "t", "", "Target host FQDN/IP:port (e.g., sensor.example.com:22)")
	rootCmd.PersistentFlags().StringVarP(&cfgUser, "user", "u", "", "SSH username")
	rootCmd.PersistentFlags().StringVar(&cfgPassword, "password", "", "SSH password (or set IDS4_PASSWORD)")
	rootCmd.PersistentFlags().StringVar(&cfgKeyPath, "key", "", "Path to SSH private key (PEM, OpenSSH)")
	rootCmd.PersistentFlags().StringVar(&cfgPassphrase, "passphrase", "", "Private key passphrase (or set IDS4_PASSPHRASE)")
	rootCmd.PersistentFlags().StringVar(&cfgKnownHosts, "known-hosts", filepath.Join(os.Getenv("HOME"), ".ssh", "known_hosts"), "Path to known_hosts file")
	rootCmd.PersistentFlags().StringVar(&cfgBaseDir, "base-dir", "", "Remote base directory for the managed code tree")
	rootCmd.PersistentFlags().StringVarP(&cfgInterface, "interface", "i", "", "Capture interface on the target")
	rootCmd.PersistentFlags().DurationVar(&cfgTimeout, "cmd-timeout", 0, "Per-command timeout (e.g., 30s). 0 disables")
	rootCmd.PersistentFlags().DurationVar(&cfgConnTimeout, "conn-timeout", 15*time.Second, "Connection timeout")
	rootCmd.PersistentFlags().DurationVar(&cfgSettle, "settle", 5*time.Second, "Settling delay between starting a dependency and its dependent")
	rootCmd.PersistentFlags().BoolVarP(&cfgVerbose, "verbose", "v", false, "Enable debug logging")

	// Bind env with Viper
	_ = viper.BindPFlag("manifest", rootCmd.PersistentFlags().Lookup("manifest"))
	_ = viper.BindPFlag("target", rootCmd.PersistentFlags().Lookup("target"))
	_ = viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
	_ = viper.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password"))
	_ = viper.BindPFlag("key", rootCmd.PersistentFlags().Lookup("key"))
	_ = viper.BindPFlag("passphrase", rootCmd.PersistentFlags().Lookup("passphrase"))
	_ = viper.BindPFlag("known-hosts", rootCmd.PersistentFlags().Lookup("known-hosts"))
	_ = viper.BindPFlag("base-dir", rootCmd.PersistentFlags().Lookup("base-dir"))
	_ = viper.BindPFlag("interface", rootCmd.PersistentFlags().Lookup("interface"))
	_ = viper.BindPFlag("cmd-timeout", rootCmd.PersistentFlags().Lookup("cmd-timeout"))
	_ = viper.BindPFlag("conn-timeout", rootCmd.PersistentFlags().Lookup("conn-timeout"))
	_ = viper.BindPFlag("settle", rootCmd.PersistentFlags().Lookup("settle"))

	viper.SetEnvPrefix("IDS4")
	viper.AutomaticEnv()

	// Pull in environment overrides on init
	cobra.OnInitialize(func() {
		if v := viper.GetString("manifest"); v != "" {
			cfgManifest = v
		}
		if v := viper.GetString("target"); v != "" {
			cfgTarget = v
		}
		if v := viper.GetString("user"); v != "" {
			cfgUser = v
		}
		if v := viper.GetString("password"); v != "" {
			cfgPassword = v
		}
		if v := viper.GetString("key"); v != "" {
			cfgKeyPath = v
		}
		if v := viper.GetString("passphrase"); v != "" {
			cfgPassphrase = v
		}
		if v := viper.GetString("known-hosts"); v != "" {
			cfgKnownHosts = v
		}
		if v := viper.GetString("base-dir"); v != "" {
			cfgBaseDir = v
		}
		if v := viper.GetString("interface"); v != "" {
			cfgInterface = v
		}
		if v := viper.GetString("cmd-timeout"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				cfgTimeout = d
			}
		}
		if v := viper.GetString("conn-timeout"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				cfgConnTimeout = d
			}
		}
		if v := viper.GetString("settle"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				cfgSettle = d
			}
		}
	})

	// Add subcommands
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(checkCmd)
}
