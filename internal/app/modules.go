package app

import (
	"io"

	"github.com/vk/jobrun/internal/config"
	"github.com/vk/jobrun/internal/registry"
	"github.com/vk/jobrun/modules/local"
	"github.com/vk/jobrun/modules/remote"
)

// coreModules is the definitive list of all backend modules that are
// compiled into the jobrun binary, configured from the launcher config.
func coreModules(outW io.Writer, cfg *config.Config) []registry.Module {
	remoteCfg := cfg.Backend("remote")
	return []registry.Module{
		&local.Module{Out: outW},
		&remote.Module{
			Endpoint:     remoteCfg.Endpoint,
			PollInterval: remoteCfg.Poll(),
		},
	}
}
