package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"
)

func sha256hex(b []byte) string {
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}

// fakeResp is a scripted response for one exact command string.
type fakeResp struct {
	out  string
	exit int
	err  error
}

// fakeRemote simulates a target host: an in-memory filesystem, a set of
// installed tools, systemd unit state, and an interpreter for the command
// shapes the stages compose. Commands not matched by a script entry or a
// built-in succeed silently, so tests only describe what matters.
type fakeRemote struct {
	files     map[string][]byte
	modes     map[string]fs.FileMode
	mtimes    map[string]time.Time
	dirs      map[string]bool
	tools     map[string]bool
	active    map[string]bool
	enabled   map[string]bool
	promisc   bool
	healthy   bool
	responses map[string]fakeResp
	cmds      []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		files:     map[string][]byte{},
		modes:     map[string]fs.FileMode{},
		mtimes:    map[string]time.Time{},
		dirs:      map[string]bool{},
		tools:     map[string]bool{},
		active:    map[string]bool{},
		enabled:   map[string]bool{},
		healthy:   true,
		responses: map[string]fakeResp{},
	}
}

func (f *fakeRemote) script(cmd string, r fakeResp) { f.responses[cmd] = r }

func (f *fakeRemote) ranCommand(cmd string) bool {
	for _, c := range f.cmds {
		if c == cmd {
			return true
		}
	}
	return false
}

func (f *fakeRemote) run(cmd string) ([]byte, int, error) {
	f.cmds = append(f.cmds, cmd)
	if r, ok := f.responses[cmd]; ok {
		return []byte(r.out), r.exit, r.err
	}

	fields := strings.Fields(cmd)
	switch {
	case cmd == "true":
		return nil, 0, nil

	case strings.HasPrefix(cmd, "test -e "):
		p := unquote(strings.TrimPrefix(cmd, "test -e "))
		if _, ok := f.files[p]; ok {
			return nil, 0, nil
		}
		if f.dirs[p] {
			return nil, 0, nil
		}
		return nil, 1, nil

	case strings.HasPrefix(cmd, "sha256sum "):
		p := unquote(strings.TrimPrefix(cmd, "sha256sum "))
		b, ok := f.files[p]
		if !ok {
			return []byte("sha256sum: " + p + ": No such file or directory\n"), 1, nil
		}
		return []byte(fmt.Sprintf("%s  %s\n", sha256hex(b), p)), 0, nil

	case strings.HasPrefix(cmd, "command -v "):
		tool := fields[2]
		if f.tools[tool] {
			return nil, 0, nil
		}
		return nil, 1, nil

	case strings.HasPrefix(cmd, "python3 -m venv -h"):
		if f.tools["python3-venv"] {
			return nil, 0, nil
		}
		return nil, 1, nil

	case strings.HasPrefix(cmd, "python3 -m venv "):
		venv := unquote(strings.TrimPrefix(cmd, "python3 -m venv "))
		f.putFile(path.Join(venv, "bin", "python"), []byte("#!stub"), 0o755)
		f.putFile(path.Join(venv, "bin", "pip"), []byte("#!stub"), 0o755)
		return nil, 0, nil

	case strings.HasPrefix(cmd, "apt-get update"):
		return nil, 0, nil

	case strings.Contains(cmd, "apt-get install -y "):
		pkg := fields[len(fields)-1]
		f.tools[pkg] = true
		if pkg == "python3-venv" {
			f.tools["python3-venv"] = true
		}
		return nil, 0, nil

	case strings.HasPrefix(cmd, "cp -p "):
		src := unquote(fields[2])
		dst := unquote(fields[3])
		b, ok := f.files[src]
		if !ok {
			return []byte("cp: cannot stat " + src + "\n"), 1, nil
		}
		f.putFile(dst, append([]byte(nil), b...), f.modes[src])
		return nil, 0, nil

	case strings.HasPrefix(cmd, "install -o "):
		src := unquote(fields[len(fields)-2])
		dst := unquote(fields[len(fields)-1])
		b, ok := f.files[src]
		if !ok {
			return []byte("install: cannot stat " + src + "\n"), 1, nil
		}
		f.putFile(dst, append([]byte(nil), b...), 0o644)
		return nil, 0, nil

	case strings.HasPrefix(cmd, "ip link show "):
		if f.promisc {
			return []byte("2: eth0: <BROADCAST,MULTICAST,PROMISC,UP,LOWER_UP>\n"), 0, nil
		}
		return []byte("2: eth0: <BROADCAST,MULTICAST,UP,LOWER_UP>\n"), 0, nil

	case strings.HasPrefix(cmd, "ip link set "):
		f.promisc = true
		return nil, 0, nil

	case strings.HasPrefix(cmd, "systemctl daemon-reload"):
		// may carry "&& systemctl enable <unit>"
		if i := strings.Index(cmd, "systemctl enable "); i >= 0 {
			f.enabled[strings.TrimSpace(cmd[i+len("systemctl enable "):])] = true
		}
		return nil, 0, nil

	case strings.HasPrefix(cmd, "systemctl enable --now "):
		u := fields[len(fields)-1]
		f.enabled[u] = true
		f.active[u] = true
		return nil, 0, nil

	case strings.HasPrefix(cmd, "systemctl is-active "):
		u := fields[len(fields)-1]
		if f.active[u] {
			return []byte("active\n"), 0, nil
		}
		return []byte("inactive\n"), 3, nil

	case strings.HasPrefix(cmd, "curl "):
		if f.healthy {
			return []byte(`{"status":"ok"}`), 0, nil
		}
		return []byte("curl: (7) Failed to connect\n"), 7, nil

	case strings.Contains(cmd, "pip") && strings.Contains(cmd, "install"):
		return nil, 0, nil
	}

	return nil, 0, nil
}

func (f *fakeRemote) putFile(p string, b []byte, mode fs.FileMode) {
	f.files[p] = b
	f.modes[p] = mode
	f.mtimes[p] = time.Now()
	for d := path.Dir(p); d != "/" && d != "."; d = path.Dir(d) {
		f.dirs[d] = true
	}
}

func (f *fakeRemote) copyTo(localPath, remotePath string) error {
	b, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	st, err := os.Stat(localPath)
	if err != nil {
		return err
	}
	f.putFile(remotePath, b, st.Mode().Perm())
	f.mtimes[remotePath] = st.ModTime()
	return nil
}

func (f *fakeRemote) copyFrom(remotePath, localPath string) error {
	b, ok := f.files[remotePath]
	if !ok {
		return fmt.Errorf("no such remote file: %s", remotePath)
	}
	return os.WriteFile(localPath, b, 0o644)
}

func (f *fakeRemote) listTree(root string) (map[string]remoteFile, error) {
	out := map[string]remoteFile{}
	prefix := strings.TrimSuffix(root, "/") + "/"
	for p, b := range f.files {
		if strings.HasPrefix(p, prefix) {
			out[strings.TrimPrefix(p, prefix)] = remoteFile{
				size:    int64(len(b)),
				mode:    f.modes[p],
				modTime: f.mtimes[p],
			}
		}
	}
	for d := range f.dirs {
		if strings.HasPrefix(d, prefix) {
			out[strings.TrimPrefix(d, prefix)] = remoteFile{mode: fs.ModeDir | 0o755, isDir: true}
		}
	}
	return out, nil
}

func (f *fakeRemote) remove(p string) error {
	if _, ok := f.files[p]; ok {
		delete(f.files, p)
		delete(f.modes, p)
		delete(f.mtimes, p)
		return nil
	}
	if f.dirs[p] {
		delete(f.dirs, p)
		return nil
	}
	return fmt.Errorf("no such file: %s", p)
}

func (f *fakeRemote) mkdirAll(p string) error {
	for d := strings.TrimSuffix(p, "/"); d != "/" && d != "."; d = path.Dir(d) {
		f.dirs[d] = true
	}
	return nil
}

func (f *fakeRemote) close() error { return nil }

// remotePaths returns the fake's file paths sorted, handy for assertions.
func (f *fakeRemote) remotePaths() []string {
	var out []string
	for p := range f.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "'")
}
