package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addressIndexes   []uint
	addressChange    bool
	addressesToCheck []string

	addressDeriveCmd = &cobra.Command{
		Use:   "derive",
		Short: "derive multisig addresses",
		Long: "this command derives the multisig addresses at the given " +
			"indexes, to be shared with the other parties for cross-checking. " +
			"It requires every cosigner to be registered",
		RunE: addressDerive,
	}
	addressVerifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "verify addresses derived by another party",
		Long: "this command cross-checks the addresses shared by another " +
			"party against the independently derived ones at the same indexes",
		RunE: addressVerify,
	}
	addressCmd = &cobra.Command{
		Use:   "address",
		Short: "derive and verify multisig addresses",
		Long: "this command lets you derive the addresses of the multisig " +
			"account and verify those derived by the other parties",
	}
)

func init() {
	addressDeriveCmd.Flags().UintSliceVar(
		&addressIndexes, "indexes", []uint{0}, "derivation indexes",
	)
	addressDeriveCmd.Flags().BoolVar(
		&addressChange, "change", false, "derive on the change branch",
	)

	addressVerifyCmd.Flags().StringSliceVar(
		&addressesToCheck, "addresses", nil, "addresses to verify",
	)
	addressVerifyCmd.Flags().UintSliceVar(
		&addressIndexes, "indexes", nil, "derivation indexes, in address order",
	)
	addressVerifyCmd.Flags().BoolVar(
		&addressChange, "change", false, "verify on the change branch",
	)
	addressVerifyCmd.MarkFlagRequired("addresses")
	addressVerifyCmd.MarkFlagRequired("indexes")

	addressCmd.AddCommand(addressDeriveCmd, addressVerifyCmd)
}

func addressDerive(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getCoordinatorService()
	if err != nil {
		return err
	}
	defer cleanup()

	addresses, err := svc.GetVerificationAddresses(
		context.Background(), toUint32Slice(addressIndexes), addressChange,
	)
	if err != nil {
		printErr(err)
		return nil
	}

	jsonReply, err := jsonResponse(addresses)
	if err != nil {
		printErr(err)
		return nil
	}

	fmt.Println(jsonReply)
	return nil
}

func addressVerify(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getCoordinatorService()
	if err != nil {
		return err
	}
	defer cleanup()

	ok, err := svc.VerifyAddresses(
		context.Background(), addressesToCheck,
		toUint32Slice(addressIndexes), addressChange,
	)
	if err != nil {
		printErr(err)
		return nil
	}

	if !ok {
		fmt.Println("addresses do not match")
		return nil
	}

	fmt.Println("addresses match")
	return nil
}
