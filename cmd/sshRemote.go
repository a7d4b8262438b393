package cmd

import (
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// sshRemote implements the remote capability over one SSH connection: exec
// channels for commands and one SFTP subsystem channel for file transfer.
type sshRemote struct {
	client     *ssh.Client
	ftp        *sftp.Client
	cmdTimeout time.Duration
}

// newSSHRemote dials the target and opens the SFTP subsystem. A failure here
// is a connectivity error and fatal to the run before any remote mutation.
func newSSHRemote(cfg deployConfig) (remote, error) {
	client, err := dialSSHFunc(cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh connection failed: %w", err)
	}
	ftp, err := sftp.NewClient(client)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("sftp subsystem: %w", err)
	}
	return &sshRemote{client: client, ftp: ftp, cmdTimeout: cfg.cmdTimeout}, nil
}

func (r *sshRemote) run(cmd string) ([]byte, int, error) {
	out, exit, err := runRemoteCommand(sshClientWrapper{r.client}, cmd, r.cmdTimeout)
	if err != nil && exit >= 0 {
		// Remote command ran and exited non-zero; the exit status carries
		// the outcome, the calling stage decides whether it is fatal.
		return out, exit, nil
	}
	return out, exit, err
}

// copyTo transfers a local file to remotePath, preserving the permission bits
// (including executable bits) and the modification time of the source.
func (r *sshRemote) copyTo(localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()
	st, err := src.Stat()
	if err != nil {
		return err
	}
	if err := r.ftp.MkdirAll(path.Dir(remotePath)); err != nil {
		return fmt.Errorf("mkdir %s: %w", path.Dir(remotePath), err)
	}
	dst, err := r.ftp.Create(remotePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", remotePath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("copy to %s: %w", remotePath, err)
	}
	if err := dst.Close(); err != nil {
		return err
	}
	if err := r.ftp.Chmod(remotePath, st.Mode().Perm()); err != nil {
		return err
	}
	return r.ftp.Chtimes(remotePath, st.ModTime(), st.ModTime())
}

func (r *sshRemote) copyFrom(remotePath, localPath string) error {
	src, err := r.ftp.Open(remotePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", remotePath, err)
	}
	defer func() { _ = src.Close() }()
	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("copy from %s: %w", remotePath, err)
	}
	return dst.Close()
}

// listTree enumerates the remote tree rooted at root, returning entries keyed
// by slash-separated relative path. A missing root yields an empty map.
func (r *sshRemote) listTree(root string) (map[string]remoteFile, error) {
	files := make(map[string]remoteFile)
	if _, err := r.ftp.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return files, nil
		}
		return nil, err
	}
	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		entries, err := r.ftp.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("readdir %s: %w", dir, err)
		}
		for _, e := range entries {
			childRel := path.Join(rel, e.Name())
			files[childRel] = remoteFile{
				size:    e.Size(),
				mode:    e.Mode(),
				modTime: e.ModTime(),
				isDir:   e.IsDir(),
			}
			if e.IsDir() {
				if err := walk(path.Join(dir, e.Name()), childRel); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(root, ""); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *sshRemote) remove(p string) error {
	return r.ftp.Remove(p)
}

func (r *sshRemote) mkdirAll(p string) error {
	return r.ftp.MkdirAll(p)
}

func (r *sshRemote) close() error {
	_ = r.ftp.Close()
	return r.client.Close()
}
