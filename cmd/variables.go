package cmd

import "time"

// Version is the CLI version string injected at build time via -ldflags.
var Version = "0.1.0"

var (
	// Global configuration populated by flags and/or environment variables.
	// These are read exactly once, in rootCmd, to build the immutable
	// deployConfig that every component receives. No component reads them
	// (or the process environment) directly.
	cfgManifest    string
	cfgTarget      string
	cfgUser        string
	cfgPassword    string
	cfgKeyPath     string
	cfgPassphrase  string
	cfgKnownHosts  string
	cfgBaseDir     string
	cfgInterface   string
	cfgTimeout     time.Duration
	cfgConnTimeout time.Duration
	cfgSettle      time.Duration
	cfgVerbose     bool
)

// Allow tests to stub dialing, remote construction, and settling delays.
var (
	dialSSHFunc   = dialSSH
	newRemoteFunc = newSSHRemote
	sleepFunc     = time.Sleep
)
