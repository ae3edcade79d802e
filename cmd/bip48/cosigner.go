package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cosignerAddCmd = &cobra.Command{
		Use:   "add <xpub>",
		Short: "register a cosigner",
		Long: "this command lets you register the account xpub shared by a " +
			"remote cosigner. Cosigners are indexed in registration order, " +
			"which every party must follow to derive matching addresses",
		Args: cobra.ExactArgs(1),
		RunE: cosignerAdd,
	}
	cosignerListCmd = &cobra.Command{
		Use:   "list",
		Short: "list the registered cosigners",
		Long: "this command returns the registered cosigners with their " +
			"indexes, the local party being always the number 0",
		RunE: cosignerList,
	}
	cosignerCmd = &cobra.Command{
		Use:   "cosigner",
		Short: "manage the cosigners of the multisig account",
		Long: "this command lets you register the other parties of the " +
			"multisig account and list those already registered",
	}
)

func init() {
	cosignerCmd.AddCommand(cosignerAddCmd, cosignerListCmd)
}

func cosignerAdd(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getCoordinatorService()
	if err != nil {
		return err
	}
	defer cleanup()

	cosigner, err := svc.AddCosigner(context.Background(), args[0])
	if err != nil {
		printErr(err)
		return nil
	}

	fmt.Printf("cosigner registered with index %d\n", cosigner.Index)
	return nil
}

func cosignerList(cmd *cobra.Command, args []string) error {
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

	jsonReply, err := jsonResponse(info.Cosigners)
	if err != nil {
		printErr(err)
		return nil
	}

	fmt.Println(jsonReply)
	return nil
}
