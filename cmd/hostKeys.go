package cmd

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// trustOnFirstUse returns a host key callback implementing the accept-new
// policy: a host with no entry in the known-hosts file is recorded and
// accepted, while a host presenting a key that differs from its recorded
// entry is rejected. The known-hosts file is created if absent.
func trustOnFirstUse(path string) (ssh.HostKeyCallback, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600)
	if err != nil {
		return nil, err
	}
	_ = f.Close()

	db, err := knownhosts.New(path)
	if err != nil {
		return nil, err
	}

	return func(hostname string, addr net.Addr, key ssh.PublicKey) error {
		err := db(hostname, addr, key)
		if err == nil {
			return nil
		}
		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) && len(keyErr.Want) == 0 {
			// Unknown host: record and accept
			return appendKnownHost(path, hostname, key)
		}
		return fmt.Errorf("host key for %s changed, refusing to connect: %w", hostname, err)
	}, nil
}

// appendKnownHost records a newly trusted host key at the end of the
// known-hosts file.
func appendKnownHost(path, hostname string, key ssh.PublicKey) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key)
	_, err = fmt.Fprintln(f, line)
	return err
}
