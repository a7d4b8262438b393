package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadManifest reads and validates the YAML deployment manifest, ensuring the
// presence of required top-level fields and that every artifact entry names a
// managed service with both sides of its path mapping.
func loadManifest(path string) (*manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mf := &manifest{}
	if err := yaml.Unmarshal(b, mf); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if mf.Name == "" {
		return nil, errors.New("manifest.name is required")
	}
	if mf.CodeDir == "" {
		return nil, errors.New("manifest.code_dir is required")
	}
	if mf.Requirements == "" {
		return nil, errors.New("manifest.requirements is required")
	}
	// Local paths are relative to the manifest's own directory.
	base := filepath.Dir(path)
	if !filepath.IsAbs(mf.CodeDir) {
		mf.CodeDir = filepath.Join(base, mf.CodeDir)
	}
	for i, a := range mf.Artifacts {
		if strings.TrimSpace(a.Service) == "" {
			return nil, fmt.Errorf("artifacts[%d].service is required", i)
		}
		if !knownService(a.Service) {
			return nil, fmt.Errorf("artifacts[%d].service %q is not a managed service", i, a.Service)
		}
		if strings.TrimSpace(a.Local) == "" || strings.TrimSpace(a.Remote) == "" {
			return nil, fmt.Errorf("artifacts[%d] requires both local and remote paths", i)
		}
		if !filepath.IsAbs(a.Local) {
			mf.Artifacts[i].Local = filepath.Join(base, a.Local)
		}
	}
	return mf, nil
}

// artifactFor returns the manifest artifact for a managed service, or nil if
// the manifest does not publish configuration for it.
func (m *manifest) artifactFor(service string) *artifact {
	for i := range m.Artifacts {
		if m.Artifacts[i].Service == service {
			return &m.Artifacts[i]
		}
	}
	return nil
}
