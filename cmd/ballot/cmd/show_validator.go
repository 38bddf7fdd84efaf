package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmOS "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/privval"
)

var ShowValidator = &cobra.Command{
	Use:   "show_validator",
	Short: "Show this node's validator public key",
	RunE:  showValidator,
}

func showValidator(cmd *cobra.Command, args []string) error {
	keyFilePath := cfg.PrivValidatorKeyFile()
	if !tmOS.FileExists(keyFilePath) {
		return errors.Errorf("private validator file %s does not exist", keyFilePath)
	}

	pv := privval.LoadFilePV(keyFilePath, cfg.PrivValidatorStateFile())
	pubKey, err := pv.GetPubKey()
	if err != nil {
		return err
	}

	bz, err := tmjson.Marshal(pubKey)
	if err != nil {
		return err
	}

	fmt.Println(string(bz))
	return nil
}
