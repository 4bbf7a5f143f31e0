package root

import (
	"github.com/PancyStudios/ChiiBot/pkg/config"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
)

// openBackend opens the storage configured for the bot. Only warnings and
// errors are logged so command output stays readable.
func openBackend() (storage.Backend, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Get().SetMinLevel(logger.LevelWarn)

	backend, err := storage.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = backend.Close()
	}
	return backend, cleanup, nil
}
