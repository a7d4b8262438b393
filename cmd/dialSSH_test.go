package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/alexisdeudon01/IDS4/tools/sshserv"
)

// A raw *ssh.Client does not satisfy sessionClient (NewSession returns the
// concrete *ssh.Session); every live client must go through the adapter.
var _ sessionClient = sshClientWrapper{}

func startTestServer(t *testing.T) *sshserv.Server {
	t.Helper()
	srv, err := sshserv.Start("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(srv.Stop)
	return srv
}

func dialConfig(addr, knownHosts string) deployConfig {
	return deployConfig{
		target:       addr,
		user:         "root",
		password:     "unused",
		knownHosts:   knownHosts,
		baseDir:      "/opt/ids4",
		captureIface: "eth0",
		connTimeout:  5 * time.Second,
	}
}

func TestDialSSH_FirstContactRecordsHostKey(t *testing.T) {
	srv := startTestServer(t)
	kh := filepath.Join(t.TempDir(), "known_hosts")

	client, err := dialSSH(dialConfig(srv.Addr, kh))
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	out, exit, err := runRemoteCommand(sshClientWrapper{client}, "true", 5*time.Second)
	require.NoError(t, err)
	require.Equal(t, 0, exit)
	require.Equal(t, "ok\n", string(out))

	data, err := os.ReadFile(kh)
	require.NoError(t, err)
	require.Contains(t, string(data), srv.HostKey.Type())
}

func TestDialSSH_RecordedHostAcceptedOnReconnect(t *testing.T) {
	srv := startTestServer(t)
	kh := filepath.Join(t.TempDir(), "known_hosts")
	cfg := dialConfig(srv.Addr, kh)

	client, err := dialSSH(cfg)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	client, err = dialSSH(cfg)
	require.NoError(t, err)
	require.NoError(t, client.Close())
}

func TestDialSSH_ChangedHostKeyRejected(t *testing.T) {
	first := startTestServer(t)
	kh := filepath.Join(t.TempDir(), "known_hosts")

	client, err := dialSSH(dialConfig(first.Addr, kh))
	require.NoError(t, err)
	require.NoError(t, client.Close())

	// A second server presents a different host key. Rewriting the recorded
	// entry to claim the second server's address makes that key a mismatch.
	second := startTestServer(t)
	data, err := os.ReadFile(kh)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	_, keyPart, found := strings.Cut(line, " ")
	require.True(t, found)
	rewritten := knownhosts.Normalize(second.Addr) + " " + keyPart + "\n"
	require.NoError(t, os.WriteFile(kh, []byte(rewritten), 0o600))

	_, err = dialSSH(dialConfig(second.Addr, kh))
	require.Error(t, err)
	require.Contains(t, err.Error(), "changed")
}
