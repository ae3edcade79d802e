package appconfig

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/go-bip48/internal/config"
	"github.com/vulpemventures/go-bip48/internal/core/application"
	"github.com/vulpemventures/go-bip48/internal/core/domain"
	"github.com/vulpemventures/go-bip48/internal/core/ports"
	cypher "github.com/vulpemventures/go-bip48/internal/infrastructure/mnemonic-cypher/aes256"
	store "github.com/vulpemventures/go-bip48/internal/infrastructure/mnemonic-store/in-memory"
	dbbadger "github.com/vulpemventures/go-bip48/internal/infrastructure/storage/db/badger"
	"github.com/vulpemventures/go-bip48/internal/infrastructure/storage/db/inmemory"
)

// AppConfig is the struct holding all configuration options for the
// coordinator application service. This data structure acts also as a factory
// of the service and the portable services used by it.
// Public config args:
//   - RepoManagerType - (required) One of the supported repository manager types.
//   - RepoManagerConfig - (optional) Custom config args for the repository manager based on its type.
type AppConfig struct {
	Version string
	Commit  string
	Date    string

	RepoManagerType   string
	RepoManagerConfig interface{}

	rm             ports.RepoManager
	coordinatorSvc *application.CoordinatorService
}

func (c *AppConfig) Validate() error {
	if len(c.RepoManagerType) == 0 {
		return fmt.Errorf("missing repo manager type")
	}
	if _, ok := config.SupportedDbs[c.RepoManagerType]; !ok {
		return fmt.Errorf(
			"repo manager type not supported, must be one of: %s",
			config.SupportedDbs,
		)
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}

	domain.MnemonicCypher = cypher.NewAES256Cypher()
	domain.MnemonicStore = store.NewInMemoryMnemonicStore()
	return nil
}

func (c *AppConfig) RepoManager() ports.RepoManager {
	return c.rm
}

func (c *AppConfig) CoordinatorService() *application.CoordinatorService {
	return c.coordinatorService()
}

func (c *AppConfig) repoManager() (ports.RepoManager, error) {
	if c.rm != nil {
		return c.rm, nil
	}

	switch c.RepoManagerType {
	case "inmemory":
		c.rm = inmemory.NewRepoManager()
		return c.rm, nil
	case "badger":
		if c.RepoManagerConfig == nil {
			return nil, fmt.Errorf("missing repo manager config args")
		}
		datadir, ok := c.RepoManagerConfig.(string)
		if !ok {
			return nil, fmt.Errorf("invalid repo manager config type, must be string")
		}
		rm, err := dbbadger.NewRepoManager(datadir, log.New())
		if err != nil {
			return nil, err
		}
		c.rm = rm
		return c.rm, nil
	default:
		return nil, fmt.Errorf("unknown repo manager type")
	}
}

func (c *AppConfig) coordinatorService() *application.CoordinatorService {
	if c.coordinatorSvc != nil {
		return c.coordinatorSvc
	}

	rm, _ := c.repoManager()
	c.coordinatorSvc = application.NewCoordinatorService(rm, c.buildInfo())
	return c.coordinatorSvc
}

func (c *AppConfig) buildInfo() application.BuildInfo {
	version := "dev"
	if c.Version != "" {
		version = c.Version
	}
	commit := "none"
	if c.Commit != "" {
		commit = c.Commit
	}
	date := "unknown"
	if c.Date != "" {
		date = c.Date
	}
	return application.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}
