package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vulpemventures/go-bip48/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	rootCmd = &cobra.Command{
		Use:   "bip48",
		Short: "CLI for BIP48 multisig account setup",
		Long: "This CLI lets you coordinate the setup of a BIP48 multisig " +
			"account: create your own identity, exchange account xpubs with " +
			"the other cosigners and cross-check the derived addresses",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
		},
		Version: formatVersion(),
	}
)

func init() {
	rootCmd.AddCommand(
		genSeedCmd, initCmd, unlockCmd, lockCmd, changePwdCmd, statusCmd,
		infoCmd, xpubCmd, cosignerCmd, addressCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
