package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// defaultExcludes keeps build caches, isolated environments, version-control
// metadata, and the orchestrator's own staging area out of the mirror in both
// directions.
var defaultExcludes = []string{".git", "__pycache__", ".venv", "*.pyc", ".staging"}

type mirrorActionKind int

const (
	actMkdir mirrorActionKind = iota
	actUpload
	actDelete
)

// mirrorAction is one pending change of the differential mirror, expressed
// relative to the mirrored roots.
type mirrorAction struct {
	kind mirrorActionKind
	rel  string
}

// excluded reports whether a relative path matches an exclude pattern, either
// by a path segment equal to the pattern or by the base name matching it as
// a glob.
func excluded(rel string, patterns []string) bool {
	segs := strings.Split(rel, "/")
	for _, p := range patterns {
		for _, s := range segs {
			if s == p {
				return true
			}
			if ok, _ := path.Match(p, s); ok {
				return true
			}
		}
	}
	return false
}

// mirrorPlan computes the differential between the local tree and the remote
// tree: uploads for files new or changed locally (size and timestamp
// comparison), directory creations, and deletions for non-excluded remote
// entries absent locally. Deletions are ordered leaf-first.
func mirrorPlan(ctx *runContext, localDir, remoteDir string, patterns []string) ([]mirrorAction, error) {
	remoteFiles, err := ctx.rem.listTree(remoteDir)
	if err != nil {
		return nil, fmt.Errorf("list remote tree %s: %w", remoteDir, err)
	}

	var actions []mirrorAction
	localSet := make(map[string]bool)
	err = filepath.WalkDir(localDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if excluded(rel, patterns) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		localSet[rel] = true
		rf, exists := remoteFiles[rel]
		if d.IsDir() {
			if !exists || !rf.isDir {
				actions = append(actions, mirrorAction{actMkdir, rel})
			}
			return nil
		}
		st, err := os.Stat(p)
		if err != nil {
			return err
		}
		if !exists || rf.isDir || rf.size != st.Size() || rf.modTime.Unix() != st.ModTime().Unix() {
			actions = append(actions, mirrorAction{actUpload, rel})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk local tree %s: %w", localDir, err)
	}

	var deletions []string
	for rel := range remoteFiles {
		if !localSet[rel] && !excluded(rel, patterns) {
			deletions = append(deletions, rel)
		}
	}
	// Leaf-first so directories empty out before their own removal.
	sort.Slice(deletions, func(i, j int) bool {
		di, dj := strings.Count(deletions[i], "/"), strings.Count(deletions[j], "/")
		if di != dj {
			return di > dj
		}
		return deletions[i] > deletions[j]
	})
	for _, rel := range deletions {
		actions = append(actions, mirrorAction{actDelete, rel})
	}
	return actions, nil
}

// mirrorApply executes a mirror plan. This is the only code path permitted to
// delete remote files, and it only ever touches paths under remoteDir.
func mirrorApply(ctx *runContext, localDir, remoteDir string, actions []mirrorAction) error {
	if err := ctx.rem.mkdirAll(remoteDir); err != nil {
		return fmt.Errorf("mkdir %s: %w", remoteDir, err)
	}
	for _, a := range actions {
		dst := path.Join(remoteDir, a.rel)
		switch a.kind {
		case actMkdir:
			if err := ctx.rem.mkdirAll(dst); err != nil {
				return fmt.Errorf("mkdir %s: %w", dst, err)
			}
		case actUpload:
			if err := ctx.rem.copyTo(filepath.Join(localDir, filepath.FromSlash(a.rel)), dst); err != nil {
				return fmt.Errorf("upload %s: %w", a.rel, err)
			}
		case actDelete:
			if err := ctx.rem.remove(dst); err != nil {
				return fmt.Errorf("delete %s: %w", dst, err)
			}
		}
	}
	ctx.log.Info().Int("changes", len(actions)).Msg("code tree mirrored")
	return nil
}
