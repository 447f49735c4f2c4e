package content

import (
	_ "embed"
)

//go:embed defaults/worlds.yaml
var defaultWorldsYAML []byte
