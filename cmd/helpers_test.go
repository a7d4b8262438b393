package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// writeFile overwrites a file with new content.
func writeFile(p, content string) error {
	return os.WriteFile(p, []byte(content), 0o644)
}

// writeTemp creates a file under dir and returns its path.
func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// newTestContext builds a runContext against the given remote with a small
// local code tree and one artifact per configured service.
func newTestContext(t *testing.T, rem remote) *runContext {
	t.Helper()
	tmp := t.TempDir()

	codeDir := filepath.Join(tmp, "src")
	writeTemp(t, codeDir, "requirements.txt", "fastapi==0.115.0\n")
	writeTemp(t, codeDir, "ids/__init__.py", "")
	writeTemp(t, codeDir, "ids/dashboard/__init__.py", "app = None\n")

	sensorConf := writeTemp(t, tmp, "configs/suricata.yaml", "af-packet:\n  - interface: eth0\n")
	shipperConf := writeTemp(t, tmp, "configs/vector.toml", "[sources.suricata_logs]\ntype = \"file\"\n")

	mf := &manifest{
		Name:         "ids4 test",
		CodeDir:      codeDir,
		Requirements: "requirements.txt",
		Artifacts: []artifact{
			{Service: svcSensor, Local: sensorConf, Remote: "/etc/suricata/suricata.yaml", Owner: "root"},
			{Service: svcShipper, Local: shipperConf, Remote: "/etc/vector/vector.toml", Owner: "root"},
		},
	}

	cfg := deployConfig{
		target:       "127.0.0.1:22",
		user:         "root",
		baseDir:      "/opt/ids4",
		captureIface: "eth0",
	}
	require.NoError(t, cfg.validate())

	return &runContext{cfg: cfg, mf: mf, rem: rem, log: zerolog.Nop()}
}
