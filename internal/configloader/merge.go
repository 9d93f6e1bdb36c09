package configloader

import (
	"maps"

	"github.com/yaklabco/codefix/pkg/config"
)

// merge combines two configurations, override taking precedence:
//   - scalars: override wins when non-zero
//   - maps: merged key by key
//   - slices: override replaces base when non-nil
//
// A false boolean in override cannot turn off a true one in base.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.NewLine != "" {
		result.NewLine = override.NewLine
	}
	if override.DryRun {
		result.DryRun = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	if override.Strategies != nil {
		result.Strategies = make(map[string]config.StrategyConfig, len(base.Strategies)+len(override.Strategies))
		maps.Copy(result.Strategies, base.Strategies)
		for name, sc := range override.Strategies {
			if sc.Enabled == nil {
				if _, ok := result.Strategies[name]; ok {
					continue
				}
			}
			result.Strategies[name] = sc
		}
	}

	if override.Groups != nil {
		result.Groups = override.Groups
	}
	if override.DisableCodes != nil {
		result.DisableCodes = override.DisableCodes
	}
	if override.TypesPackages != nil {
		result.TypesPackages = override.TypesPackages
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}
	result := configs[0]
	for _, c := range configs[1:] {
		result = merge(result, c)
	}
	return result
}
