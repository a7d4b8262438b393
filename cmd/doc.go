// Package cmd implements the IDS4 deployment orchestrator command-line
// interface.
//
// The package organizes the CLI subcommands (deploy via the root command,
// plan, check) and the underlying helpers for SSH connectivity, idempotent
// remote installation, configuration publishing with one-time backups,
// code-tree mirroring, systemd unit generation, and post-deployment
// verification.
//
// New contributors should start by reading rootCmd.go to see how cobra is
// wired, stages.go for the canonical ordered stage list, sequencer.go for the
// fail-fast run loop, and sshRemote.go for how every remote command and file
// transfer reaches the target host.
package cmd
