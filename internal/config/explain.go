package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path and the source
// that set it.
//
// Any key of the effective config is accepted, for example:
//
//	window_radius
//	workspaces.count
//	animation.easing
//	overview.min_row_height
//	tiling.default_layout
//	tiling.layouts.<name>.mode
//	tiling.layouts.<name>.tile_region.type
//	logging.level
//	x11.hotkeys.overview
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Otherwise infer from category.
	if name := layoutNameFromPath(path); name != "" {
		return value, Source{Kind: SourceBuiltin, Name: res.LayoutBases[name]}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func layoutNameFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 3 || parts[0] != "tiling" || parts[1] != "layouts" {
		return ""
	}
	return parts[2]
}

// lookupValue walks the YAML form of cfg so that paths match the keys users
// write in their files.
func lookupValue(cfg *Config, path string) (any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var cur any = tree
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown config path %q", path)
		}
		cur, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("unknown config path %q", path)
		}
	}
	return cur, nil
}
