package cmd

import (
	"fmt"

	"github.com/ballotchain/ballot-node/client"
	"github.com/spf13/cobra"
)

var KeysCommand = &cobra.Command{
	Use:   "keys",
	Short: "Manage secp256k1 keys of voters and the election owner",
}

var KeysNew = &cobra.Command{
	Use:   "new",
	Short: "Generate a new private key",
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := client.GenerateKey()
		if err != nil {
			return err
		}

		fmt.Printf("Private key: %s\nAddress: %s\n", signer.Hex(), signer.Address())
		return nil
	},
}

var KeysAddress = &cobra.Command{
	Use:   "address",
	Short: "Show the address of a private key",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := cmd.Flags().GetString("key")
		if err != nil {
			return err
		}

		signer, err := client.KeyFromHex(key)
		if err != nil {
			return err
		}

		fmt.Println(signer.Address())
		return nil
	},
}

func init() {
	KeysCommand.AddCommand(KeysNew, KeysAddress)
}
