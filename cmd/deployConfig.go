package cmd

import (
	"errors"
	"strings"
	"time"
)

// deployConfig is the immutable per-run configuration. It is constructed once
// in rootCmd from flags, environment overrides, and manifest defaults, then
// passed by value into every component for the duration of the run.
type deployConfig struct {
	target       string // host:port of the remote target
	user         string // SSH login principal
	password     string
	keyPath      string
	passphrase   string
	knownHosts   string
	baseDir      string // remote base directory for the managed code tree
	captureIface string
	cmdTimeout   time.Duration
	connTimeout  time.Duration
	settleDelay  time.Duration
}

// validate rejects configurations that cannot support a remote action. All
// remote-facing parameters must be non-empty before any channel is opened.
func (c deployConfig) validate() error {
	if strings.TrimSpace(c.target) == "" {
		return errors.New("target address is required (host:port)")
	}
	if strings.TrimSpace(c.user) == "" {
		return errors.New("user is required for SSH authentication")
	}
	if strings.TrimSpace(c.baseDir) == "" {
		return errors.New("remote base directory is required")
	}
	if strings.TrimSpace(c.captureIface) == "" {
		return errors.New("capture interface is required")
	}
	return nil
}

// maybeSudo wraps cmd for privileged execution when the login principal is
// not root. Uses sudo -n so a missing sudoers entry fails immediately instead
// of hanging on a password prompt.
func (c deployConfig) maybeSudo(cmd string) string {
	if c.user == "root" {
		return cmd
	}
	return "sudo -n /bin/sh -c " + shellQuote(cmd)
}
