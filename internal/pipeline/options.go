package pipeline

import (
	"classlens/internal/components"
	"classlens/internal/config"
)

// OptionsFromConfig maps the loaded config onto run options, merging any
// catalog overrides into the default annotation catalog.
func OptionsFromConfig(cfg *config.Config) Options {
	overrides := make(map[string]components.Type, len(cfg.Components.Overrides))
	for fqn, role := range cfg.Components.Overrides {
		overrides[fqn] = components.Type(role)
	}

	return Options{
		Paths:          cfg.Input.Paths,
		ExcludeEntries: cfg.Input.ExcludeEntries,
		ExternalTypes:  cfg.Analysis.ExternalTypes,
		PoolSize:       cfg.Analysis.PoolSize,
		FlowMaxDepth:   cfg.Analysis.FlowMaxDepth,
		FlowMaxEdges:   cfg.Analysis.FlowMaxEdges,
		Catalog:        components.DefaultCatalog().WithOverrides(overrides),
	}
}
