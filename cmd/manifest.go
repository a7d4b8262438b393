package cmd

// manifest models the YAML deployment manifest. It captures the target
// defaults for the remote host, the capture interface, the local code tree to
// mirror, and the configuration artifacts published to each managed service.
// CLI flags take precedence over manifest defaults when set.
type manifest struct {
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	SSHHost      sshHost    `yaml:"ssh_host,omitempty"`
	Interface    string     `yaml:"interface,omitempty"`
	RemoteBase   string     `yaml:"remote_base,omitempty"`
	CodeDir      string     `yaml:"code_dir"`
	Requirements string     `yaml:"requirements"`
	Artifacts    []artifact `yaml:"artifacts"`
}

// sshHost describes the remote target connection details when not provided
// via CLI flags.
type sshHost struct {
	IP   string `yaml:"ip"`
	User string `yaml:"user"`
}

// artifact maps a local configuration file to its canonical remote path for
// one managed service. The payload is opaque to the orchestrator; it is
// copied verbatim and never parsed.
type artifact struct {
	Service string `yaml:"service"`
	Local   string `yaml:"local"`
	Remote  string `yaml:"remote"`
	Owner   string `yaml:"owner,omitempty"`
}
