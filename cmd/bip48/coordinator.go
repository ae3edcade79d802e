package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	multisig "github.com/vulpemventures/go-bip48/pkg/wallet/multi-sig"
)

var (
	mnemonic       string
	password       string
	oldPassword    string
	newPassword    string
	accountXpub    string
	derivationPath string
	threshold      uint32
	totalCosigners uint32

	genSeedCmd = &cobra.Command{
		Use:   "genseed",
		Short: "generate a random mnemonic",
		Long: "this command lets you generate a new random mnemonic to " +
			"initialize a new coordinator from scratch",
		RunE: coordinatorGenSeed,
	}
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "initialize the coordinator",
		Long: "this command lets you initialize the coordinator for a new " +
			"multisig account with the given mnemonic (or let me create one " +
			"for you) encrypted with your choosen password, or in watch-only " +
			"mode with an account xpub. Network, coin type, account number " +
			"and script type are taken from env config, unless --path is given",
		RunE: coordinatorInit,
	}
	unlockCmd = &cobra.Command{
		Use:   "unlock",
		Short: "unlock the coordinator",
		Long: "this command lets you verify your password by decrypting the " +
			"stored mnemonic with it",
		RunE: coordinatorUnlock,
	}
	lockCmd = &cobra.Command{
		Use:   "lock",
		Short: "lock the coordinator",
		Long:  "this command lets you wipe the plaintext mnemonic from memory",
		RunE:  coordinatorLock,
	}
	changePwdCmd = &cobra.Command{
		Use:   "changepassword",
		Short: "change the coordinator password",
		Long: "this command lets you change the encryption password of the " +
			"stored mnemonic",
		RunE: coordinatorChangePwd,
	}
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "get coordinator status",
		Long: "this command returns info about the status of the coordinator, " +
			"like if it's initialized, unlocked or if every cosigner has been " +
			"registered",
		RunE: coordinatorStatus,
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "get info about the multisig account",
		Long: "this command returns info about the multisig account (network, " +
			"derivation path, threshold, script type) and the registered " +
			"cosigners",
		RunE: coordinatorInfo,
	}
	xpubCmd = &cobra.Command{
		Use:   "xpub",
		Short: "get the account xpub to share with the other cosigners",
		Long: "this command returns the extended public key of the multisig " +
			"account, the only info the other parties need to know about you",
		RunE: coordinatorXpub,
	}
)

func init() {
	initCmd.Flags().StringVar(
		&mnemonic, "mnemonic", "", "space separated word list as coordinator seed",
	)
	initCmd.Flags().StringVar(&password, "password", "", "encryption password")
	initCmd.Flags().StringVar(
		&accountXpub, "xpub", "", "account xpub for watch-only initialization",
	)
	initCmd.Flags().Uint32Var(
		&threshold, "threshold", 0, "number of required signatures",
	)
	initCmd.Flags().Uint32Var(
		&totalCosigners, "cosigners", 0, "total number of cosigners",
	)
	initCmd.Flags().StringVar(
		&derivationPath, "path", "",
		"account derivation path, overrides coin type, account and script "+
			"type from env config",
	)
	initCmd.MarkFlagRequired("threshold")
	initCmd.MarkFlagRequired("cosigners")

	unlockCmd.Flags().StringVar(&password, "password", "", "encryption password")
	unlockCmd.MarkFlagRequired("password")

	lockCmd.Flags().StringVar(&password, "password", "", "encryption password")
	lockCmd.MarkFlagRequired("password")

	changePwdCmd.Flags().StringVar(&oldPassword, "old-password", "", "current password")
	changePwdCmd.Flags().StringVar(&newPassword, "new-password", "", "new password")
	changePwdCmd.MarkFlagRequired("old-password")
	changePwdCmd.MarkFlagRequired("new-password")
}

func coordinatorGenSeed(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getCoordinatorService()
	if err != nil {
		return err
	}
	defer cleanup()

	newMnemonic, err := svc.GenSeed(context.Background())
	if err != nil {
		printErr(err)
		return nil
	}

	fmt.Println(strings.Join(newMnemonic, " "))
	return nil
}

func coordinatorInit(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getCoordinatorService()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	params := coordinatorParams(threshold, totalCosigners)

	if len(derivationPath) > 0 {
		coinType, account, scriptType, err := multisig.ParseDerivationPathForAccount(
			derivationPath,
		)
		if err != nil {
			printErr(err)
			return nil
		}
		params.CoinType = coinType
		params.Account = account
		params.ScriptType = scriptType
	}

	if len(accountXpub) > 0 {
		if err := svc.CreateWatchOnlyCoordinator(
			ctx, accountXpub, params,
		); err != nil {
			printErr(err)
			return nil
		}

		fmt.Println("watch-only coordinator initialized")
		return nil
	}

	if len(password) <= 0 {
		printErr(fmt.Errorf("missing either --password or --xpub"))
		return nil
	}

	mnemonicToGenerate := len(mnemonic) == 0
	if mnemonicToGenerate {
		newMnemonic, err := svc.GenSeed(ctx)
		if err != nil {
			printErr(err)
			return nil
		}
		mnemonic = strings.Join(newMnemonic, " ")
	}

	if err := svc.CreateCoordinator(
		ctx, strings.Fields(mnemonic), password, params,
	); err != nil {
		printErr(err)
		return nil
	}

	if mnemonicToGenerate {
		fmt.Println(mnemonic)
		return nil
	}

	fmt.Println("coordinator initialized")
	return nil
}

func coordinatorUnlock(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getCoordinatorService()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Unlock(context.Background(), password); err != nil {
		printErr(err)
		return nil
	}

	fmt.Println("coordinator unlocked")
	return nil
}

func coordinatorLock(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getCoordinatorService()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Lock(context.Background(), password); err != nil {
		printErr(err)
		return nil
	}

	fmt.Println("coordinator locked")
	return nil
}

func coordinatorChangePwd(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getCoordinatorService()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.ChangePassword(
		context.Background(), oldPassword, newPassword,
	); err != nil {
		printErr(err)
		return nil
	}

	fmt.Println("coordinator password updated")
	return nil
}

func coordinatorStatus(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getCoordinatorService()
	if err != nil {
		return err
	}
	defer cleanup()

	status := svc.GetStatus(context.Background())

	jsonReply, err := jsonResponse(status)
	if err != nil {
		printErr(err)
		return nil
	}

	fmt.Println(jsonReply)
	return nil
}

func coordinatorInfo(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getCoordinatorService()
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := svc.GetInfo(context.Background())
	if err != nil {
		printErr(err)
		return nil
	}

	jsonReply, err := jsonResponse(info)
	if err != nil {
		printErr(err)
		return nil
	}

	fmt.Println(jsonReply)
	return nil
}

func coordinatorXpub(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getCoordinatorService()
	if err != nil {
		return err
	}
	defer cleanup()

	xpub, err := svc.GetAccountExtendedPublicKey(context.Background())
	if err != nil {
		printErr(err)
		return nil
	}

	fmt.Println(xpub)
	return nil
}
