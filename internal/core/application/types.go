package application

import (
	"github.com/vulpemventures/go-bip48/internal/core/domain"
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type CoordinatorStatus struct {
	IsInitialized bool
	IsUnlocked    bool
	IsComplete    bool
}

type CoordinatorInfo struct {
	Network        string
	DerivationPath string
	AccountXpub    string
	Threshold      uint32
	TotalCosigners uint32
	ScriptType     string
	WatchOnly      bool
	Cosigners      []CosignerInfo
	BuildInfo      BuildInfo
}

type CosignerInfo domain.Cosigner
