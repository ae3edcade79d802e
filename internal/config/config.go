package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"
	multisig "github.com/vulpemventures/go-bip48/pkg/wallet/multi-sig"
)

const (
	// DatadirKey is the key to customize the bip48 datadir.
	DatadirKey = "DATADIR"
	// DatabaseTypeKey is the key to customize the type of database to use.
	DatabaseTypeKey = "DATABASE_TYPE"
	// NetworkKey is the key to customize the Bitcoin network.
	NetworkKey = "NETWORK"
	// LogLevelKey is the key to customize the log level to catch more specific
	// or more high level logs.
	LogLevelKey = "LOG_LEVEL"
	// CoinTypeKey is the key to use a custom coin type for the account
	// derivation path, instead of the default [0|1] (depending on network).
	CoinTypeKey = "COIN_TYPE"
	// AccountKey is the key to customize the account number of the derivation
	// path.
	AccountKey = "ACCOUNT"
	// ScriptTypeKey is the key to customize the multisig script type.
	ScriptTypeKey = "SCRIPT_TYPE"

	// DbLocation is the folder inside the datadir containing db files.
	DbLocation = "db"
)

var (
	vip *viper.Viper

	defaultDatadir    = btcutil.AppDataDir("bip48", false)
	defaultDbType     = "badger"
	defaultLogLevel   = 4
	defaultNetwork    = "mainnet"
	defaultAccount    = 0
	defaultScriptType = "p2wsh"

	supportedNetworks = map[string]*chaincfg.Params{
		"mainnet": &chaincfg.MainNetParams,
		"testnet": &chaincfg.TestNet3Params,
		"regtest": &chaincfg.RegressionNetParams,
	}
	coinTypeByNetwork = map[string]int{
		"mainnet": 0,
		"testnet": 1,
		"regtest": 1,
	}
	SupportedDbs = supportedType{
		"badger":   {},
		"inmemory": {},
	}
)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("BIP48")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(DatabaseTypeKey, defaultDbType)
	vip.SetDefault(NetworkKey, defaultNetwork)
	vip.SetDefault(LogLevelKey, defaultLogLevel)
	vip.SetDefault(AccountKey, defaultAccount)
	vip.SetDefault(ScriptTypeKey, defaultScriptType)

	if err := validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}

	if err := initDatadir(); err != nil {
		log.Fatalf("config: error while creating datadir: %s", err)
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	net := GetString(NetworkKey)
	if len(net) == 0 {
		return fmt.Errorf("network must not be null")
	}
	if _, ok := supportedNetworks[net]; !ok {
		nets := make([]string, 0, len(supportedNetworks))
		for net := range supportedNetworks {
			nets = append(nets, net)
		}
		return fmt.Errorf("unknown network, must be one of: %v", nets)
	}

	dbType := GetString(DatabaseTypeKey)
	if _, ok := SupportedDbs[dbType]; !ok {
		return fmt.Errorf("unsupported database type, must be one of %s", SupportedDbs)
	}

	scriptType := GetString(ScriptTypeKey)
	if _, ok := multisig.ScriptTypes[scriptType]; !ok {
		types := make([]string, 0, len(multisig.ScriptTypes))
		for tt := range multisig.ScriptTypes {
			types = append(types, tt)
		}
		return fmt.Errorf("unknown script type, must be one of: %v", types)
	}

	return nil
}

func GetDatadir() string {
	return filepath.Join(GetString(DatadirKey), GetString(NetworkKey))
}

func GetNetwork() *chaincfg.Params {
	return supportedNetworks[GetString(NetworkKey)]
}

// GetCoinType returns the custom coin type if set, otherwise the default one
// for the configured network.
func GetCoinType() uint32 {
	if IsSet(CoinTypeKey) {
		return uint32(GetInt(CoinTypeKey))
	}
	return uint32(coinTypeByNetwork[GetString(NetworkKey)])
}

func GetScriptType() multisig.ScriptType {
	return multisig.ScriptTypes[GetString(ScriptTypeKey)]
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func Set(key string, val interface{}) {
	vip.Set(key, val)
}

func Unset(key string) {
	vip.Set(key, nil)
}

func IsSet(key string) bool {
	return vip.IsSet(key)
}

func initDatadir() error {
	datadir := GetDatadir()
	return makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}
