package agentsync

import (
	"github.com/arthur-debert/agentsync/pkg/agents"
	"github.com/arthur-debert/agentsync/pkg/config"
	"github.com/arthur-debert/agentsync/pkg/content"
	"github.com/arthur-debert/agentsync/pkg/deploy"
	"github.com/arthur-debert/agentsync/pkg/paths"
	"github.com/arthur-debert/agentsync/pkg/registry"
)

// app bundles the wired components every command needs. Commands build
// it lazily in RunE so flag parsing errors never touch the filesystem.
type app struct {
	Paths        paths.Paths
	Config       *config.Config
	Packs        *content.Loader
	Commands     *content.CommandLoader
	Registry     *registry.Registry[agents.Adapter]
	Orchestrator *deploy.Orchestrator
}

func newApp() (*app, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(p.Home())
	if err != nil {
		return nil, err
	}

	packs := content.NewLoader(p.PacksDir())
	commands := content.NewCommandLoader(p.CommandsDir())
	deps := agents.Deps{
		Paths:    p,
		Packs:    packs,
		Commands: commands,
	}

	var reg *registry.Registry[agents.Adapter]
	if cfg.Agents.File != "" {
		defs, err := agents.LoadDefinitionsFrom(cfg.Agents.File)
		if err != nil {
			return nil, err
		}
		reg, err = agents.NewRegistryWith(defs, deps)
		if err != nil {
			return nil, err
		}
	} else {
		reg, err = agents.NewRegistry(deps)
		if err != nil {
			return nil, err
		}
	}

	return &app{
		Paths:        p,
		Config:       cfg,
		Packs:        packs,
		Commands:     commands,
		Registry:     reg,
		Orchestrator: deploy.New(reg, p, packs, cfg),
	}, nil
}
