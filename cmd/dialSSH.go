package cmd

import (
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// dialSSH establishes an SSH client connection to the configured target.
// Authentication tries a private key, then a password, then the SSH agent.
// Host keys follow a trust-on-first-use policy: unknown hosts are recorded in
// the known-hosts file and accepted, changed keys are rejected.
func dialSSH(cfg deployConfig) (*ssh.Client, error) {
	var auths []ssh.AuthMethod

	if cfg.keyPath != "" {
		signer, err := loadSigner(cfg.keyPath, cfg.passphrase)
		if err != nil {
			return nil, fmt.Errorf("load key: %w", err)
		}
		auths = append(auths, ssh.PublicKeys(signer))
	}

	if cfg.password != "" {
		auths = append(auths, ssh.Password(cfg.password))
	}

	// Try SSH agent if available
	if a := os.Getenv("SSH_AUTH_SOCK"); a != "" {
		if conn, err := net.Dial("unix", a); err == nil {
			ag := agent.NewClient(conn)
			auths = append(auths, ssh.PublicKeysCallback(ag.Signers))
		}
	}

	hostKeyCB, err := trustOnFirstUse(cfg.knownHosts)
	if err != nil {
		return nil, fmt.Errorf("known_hosts: %w", err)
	}

	clientCfg := &ssh.ClientConfig{
		User:            cfg.user,
		Auth:            auths,
		HostKeyCallback: hostKeyCB,
		Timeout:         cfg.connTimeout,
	}

	// Use explicit net.Dialer for connection timeout
	d := net.Dialer{Timeout: cfg.connTimeout}
	conn, err := d.Dial("tcp", cfg.target)
	if err != nil {
		return nil, err
	}
	if cfg.connTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(cfg.connTimeout))
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, cfg.target, clientCfg)
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})
	return ssh.NewClient(c, chans, reqs), nil
}
