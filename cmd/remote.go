package cmd

import (
	"io/fs"
	"time"
)

// remote is the capability every stage uses to act on the target host. It
// covers the command channel and the file-transfer channel so the whole
// orchestrator can be driven against a simulated target in tests.
//
// run returns the command's combined output and exit status. A non-zero exit
// status is reported through the status value, not the error; the error is
// reserved for channel-level failures (no session, timeout, lost connection).
type remote interface {
	run(cmd string) (out []byte, exitStatus int, err error)
	copyTo(localPath, remotePath string) error
	copyFrom(remotePath, localPath string) error
	listTree(root string) (map[string]remoteFile, error)
	remove(path string) error
	mkdirAll(path string) error
	close() error
}

// remoteFile describes one entry of a remote tree listing, keyed by its
// slash-separated path relative to the listed root.
type remoteFile struct {
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}
