package content

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load loads the world catalog.
// Search order: customPath -> ~/.gemsrush/worlds.yaml -> ./configs/worlds.yaml -> embedded default
func Load(customPath string) (Catalog, error) {
	// Custom path is explicit: errors are reported, not skipped.
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Catalog{}, fmt.Errorf("content: failed to read catalog %s: %w", customPath, err)
		}
		catalog, err := Parse(data)
		if err != nil {
			return Catalog{}, fmt.Errorf("content: failed to parse catalog %s: %w", customPath, err)
		}
		return catalog, nil
	}

	// Try user catalog directory
	if userPath := userCatalogPath("worlds.yaml"); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if catalog, err := Parse(data); err == nil {
				return catalog, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "worlds.yaml")); err == nil {
		if catalog, err := Parse(data); err == nil {
			return catalog, nil
		}
	}

	return Default()
}

// Default returns the embedded shipping catalog.
func Default() (Catalog, error) {
	catalog, err := Parse(defaultWorldsYAML)
	if err != nil {
		return Catalog{}, fmt.Errorf("content: embedded catalog is invalid: %w", err)
	}
	return catalog, nil
}

// userCatalogPath returns the path to the user catalog file, or empty if
// home is unavailable.
func userCatalogPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gemsrush", filename)
}
