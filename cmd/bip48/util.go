package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appconfig "github.com/vulpemventures/go-bip48/internal/app-config"
	"github.com/vulpemventures/go-bip48/internal/config"
	"github.com/vulpemventures/go-bip48/internal/core/application"
	"github.com/vulpemventures/go-bip48/internal/core/domain"
)

var (
	colorRed = string("\033[31m")
)

func getCoordinatorService() (
	*application.CoordinatorService, func(), error,
) {
	appCfg := &appconfig.AppConfig{
		Version:           version,
		Commit:            commit,
		Date:              date,
		RepoManagerType:   config.GetString(config.DatabaseTypeKey),
		RepoManagerConfig: filepath.Join(config.GetDatadir(), config.DbLocation),
	}
	if err := appCfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid app config: %s", err)
	}

	cleanup := func() { appCfg.RepoManager().Close() }
	return appCfg.CoordinatorService(), cleanup, nil
}

// coordinatorParams assembles the account params from env config and the
// command flags.
func coordinatorParams(threshold, totalCosigners uint32) domain.CoordinatorParams {
	return domain.CoordinatorParams{
		Threshold:      threshold,
		TotalCosigners: totalCosigners,
		CoinType:       config.GetCoinType(),
		Account:        uint32(config.GetInt(config.AccountKey)),
		ScriptType:     config.GetScriptType(),
		NetworkName:    config.GetString(config.NetworkKey),
	}
}

func toUint32Slice(list []uint) []uint32 {
	indexes := make([]uint32, 0, len(list))
	for _, v := range list {
		indexes = append(indexes, uint32(v))
	}
	return indexes
}

func jsonResponse(msg interface{}) (string, error) {
	buf, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %s", err)
	}
	return string(buf), nil
}

func printErr(err error) {
	msg := fmt.Sprintf("%s%s", colorRed, capitalize(err.Error()))
	fmt.Fprintln(os.Stderr, msg)
}

func capitalize(s string) string {
	ss := strings.ToUpper(s[0:1])
	ss += s[1:]
	return ss
}

func formatVersion() string {
	return fmt.Sprintf(
		"\nVersion: %s\nCommit: %s\nDate: %s", version, commit, date,
	)
}
