package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// backupSuffix marks the sentinel backup of a configuration file. The backup
// file itself is the sentinel: once it exists, no further backup is ever
// taken for that destination, which bounds backups at one per destination
// per host lifetime.
const backupSuffix = ".orig"

// remoteFileExists probes a remote path over the command channel.
func remoteFileExists(ctx *runContext, p string) (bool, error) {
	_, exit, err := ctx.rem.run("test -e " + shellQuote(p))
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", p, err)
	}
	return exit == 0, nil
}

// remoteSHA256 returns the content hash of a remote file, or ok=false when
// the file does not exist.
func remoteSHA256(ctx *runContext, p string) (sum string, ok bool, err error) {
	out, exit, err := ctx.rem.run("sha256sum " + shellQuote(p))
	if err != nil {
		return "", false, fmt.Errorf("sha256sum %s: %w", p, err)
	}
	if exit != 0 {
		return "", false, nil
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "", false, fmt.Errorf("sha256sum %s: empty output", p)
	}
	return fields[0], true, nil
}

// localSHA256 hashes a local file.
func localSHA256(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// artifactSatisfied reports whether the remote destination already carries
// content identical to the local artifact.
func artifactSatisfied(ctx *runContext, a artifact) (bool, error) {
	localSum, err := localSHA256(a.Local)
	if err != nil {
		return false, fmt.Errorf("read artifact %s: %w", a.Local, err)
	}
	remoteSum, ok, err := remoteSHA256(ctx, a.Remote)
	if err != nil {
		return false, err
	}
	return ok && remoteSum == localSum, nil
}

// publishArtifact pushes a configuration artifact to its canonical remote
// path. A pre-existing destination that has never been backed up gets its
// sentinel backup first, so no host-provided configuration is ever lost.
// The payload is staged under the run's base directory and moved into place
// with install(1) so ownership and mode end up with the owning principal
// even when the destination is outside the login user's reach.
func publishArtifact(ctx *runContext, a artifact) error {
	satisfied, err := artifactSatisfied(ctx, a)
	if err != nil {
		return err
	}
	if satisfied {
		return nil
	}

	exists, err := remoteFileExists(ctx, a.Remote)
	if err != nil {
		return err
	}
	if exists {
		backupExists, err := remoteFileExists(ctx, a.Remote+backupSuffix)
		if err != nil {
			return err
		}
		if !backupExists {
			cp := fmt.Sprintf("cp -p %s %s", shellQuote(a.Remote), shellQuote(a.Remote+backupSuffix))
			if out, exit, err := ctx.rem.run(ctx.cfg.maybeSudo(cp)); err != nil || exit != 0 {
				return remoteError("backup "+a.Remote, out, exit, err)
			}
			ctx.log.Info().Str("path", a.Remote+backupSuffix).Msg("backed up existing configuration")
		}
	}

	return publishFile(ctx, a.Local, a.Remote, a.Owner, "0644")
}

// publishFile stages a local file on the target and installs it at remotePath
// with the given owner and mode.
func publishFile(ctx *runContext, localPath, remotePath, owner, mode string) error {
	if owner == "" {
		owner = "root"
	}
	staging := path.Join(ctx.cfg.baseDir, ".staging", path.Base(remotePath))
	if err := ctx.rem.mkdirAll(path.Dir(staging)); err != nil {
		return fmt.Errorf("staging dir: %w", err)
	}
	if err := ctx.rem.copyTo(localPath, staging); err != nil {
		return fmt.Errorf("stage %s: %w", remotePath, err)
	}
	install := fmt.Sprintf("install -o %s -g %s -m %s %s %s",
		shellQuote(owner), shellQuote(owner), mode, shellQuote(staging), shellQuote(remotePath))
	if out, exit, err := ctx.rem.run(ctx.cfg.maybeSudo(install)); err != nil || exit != 0 {
		return remoteError("install "+remotePath, out, exit, err)
	}
	return nil
}

// publishContent writes generated content (unit files) through the same
// staging path as publishFile.
func publishContent(ctx *runContext, content, remotePath, owner, mode string) error {
	tmp, err := os.CreateTemp("", "ids4-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return publishFile(ctx, tmp.Name(), remotePath, owner, mode)
}

// contentSatisfied reports whether a remote file already carries exactly the
// given generated content.
func contentSatisfied(ctx *runContext, content, remotePath string) (bool, error) {
	sum := sha256.Sum256([]byte(content))
	remoteSum, ok, err := remoteSHA256(ctx, remotePath)
	if err != nil {
		return false, err
	}
	return ok && remoteSum == hex.EncodeToString(sum[:]), nil
}
