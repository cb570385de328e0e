package types

import "time"

// DeploymentConfig is the immutable input to one deployment pipeline run.
type DeploymentConfig struct {
	// AgentID is the target agent identifier.
	AgentID string `json:"agentId"`

	// PackIDs are the rule packs to include.
	PackIDs []string `json:"packIds"`

	// CommandIDs are the custom commands to include.
	CommandIDs []string `json:"commandIds"`

	// Scope selects user-level or project-level deployment.
	Scope Scope `json:"scope"`

	// Force allows replacing an existing link at the destination.
	Force bool `json:"force"`

	// ProjectPath overrides project-root detection for project-scope
	// deployments.
	ProjectPath string `json:"projectPath,omitempty"`
}

// PreparedDeployment holds everything an adapter's Prepare produced for a
// run. It is built incrementally and consumed read-only by Validate and
// Deploy.
type PreparedDeployment struct {
	// Content is the generated canonical rules document.
	Content string

	// Commands maps command file name to rendered content.
	Commands map[string]string

	// ConfigFiles maps config file name to rendered content.
	ConfigFiles map[string]string

	// OutReferences maps reference-relative path to content.
	OutReferences map[string]string

	// TargetPaths is the ordered list of filesystem paths the deployment
	// will touch. It must cover every destination path Deploy writes,
	// since backup and rollback work from this list. Staging files under
	// the agentsync build directory are derived scratch and excluded.
	TargetPaths []string

	// CharCount is the running character total of content and commands.
	CharCount uint64

	// Format is the content format tag for this agent.
	Format FileFormat
}

// NewPreparedDeployment starts a prepared deployment from the canonical
// content.
func NewPreparedDeployment(content string) *PreparedDeployment {
	return &PreparedDeployment{
		Content:       content,
		Commands:      make(map[string]string),
		ConfigFiles:   make(map[string]string),
		OutReferences: make(map[string]string),
		CharCount:     uint64(len(content)),
		Format:        FormatMarkdown,
	}
}

// AddCommand records a rendered command file and counts it against the
// character budget.
func (p *PreparedDeployment) AddCommand(name, content string) {
	p.CharCount += uint64(len(content))
	p.Commands[name] = content
}

// AddConfigFile records an agent config file to create or update.
func (p *PreparedDeployment) AddConfigFile(name, content string) {
	p.ConfigFiles[name] = content
}

// AddOutReference records an out-of-document reference file and counts it
// against the character budget.
func (p *PreparedDeployment) AddOutReference(relPath, content string) {
	p.CharCount += uint64(len(content))
	p.OutReferences[relPath] = content
}

// AddTargetPath appends a path the deployment will touch.
func (p *PreparedDeployment) AddTargetPath(path string) {
	p.TargetPaths = append(p.TargetPaths, path)
}

// OutReferenceChars returns the character total of all out-references.
func (p *PreparedDeployment) OutReferenceChars() uint64 {
	var n uint64
	for _, content := range p.OutReferences {
		n += uint64(len(content))
	}
	return n
}

// DeployResult is what an adapter's Deploy returns on success.
type DeployResult struct {
	// Method is the link method that carried the primary rules file.
	Method LinkMethod `json:"method"`

	// DeployedFiles lists every path the deployment wrote or linked.
	DeployedFiles []string `json:"deployedFiles"`

	// Warnings are non-fatal degradations (e.g. a copy fallback).
	Warnings []string `json:"warnings"`

	// ManualSteps are follow-up actions the user must take themselves.
	ManualSteps []string `json:"manualSteps,omitempty"`
}

// DeploymentState is one append-only history entry describing a recorded
// deployment. The state store keeps a bounded list of these per agent.
type DeploymentState struct {
	AgentID       string    `json:"agentId"`
	Timestamp     time.Time `json:"timestamp"`
	DeployedPacks []string  `json:"deployedPacks"`
	DeployedCmds  []string  `json:"deployedCommands"`
	FilesCreated  []string  `json:"filesCreated"`
	BackupPath    string    `json:"backupPath,omitempty"`
	Method        string    `json:"method"`
	Scope         Scope     `json:"scope"`
	ProjectPath   string    `json:"projectPath,omitempty"`
}
