package cmd

import (
	"fmt"

	"github.com/ballotchain/ballot-node/core/types"
	"github.com/spf13/cobra"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmTypes "github.com/tendermint/tendermint/types"
)

var VerifyGenesis = &cobra.Command{
	Use:   "verify_genesis",
	Short: "Verify genesis file",
	RunE:  verifyGenesis,
}

func verifyGenesis(cmd *cobra.Command, args []string) error {
	genesis, err := getGenesis()
	if err != nil {
		return err
	}

	if _, err := appStateFromGenesis(genesis); err != nil {
		return err
	}

	fmt.Printf("Genesis is ok\n")

	return nil
}

func getGenesis() (*tmTypes.GenesisDoc, error) {
	return tmTypes.GenesisDocFromFile(cfg.GenesisFile())
}

func appStateFromGenesis(genesis *tmTypes.GenesisDoc) (types.AppState, error) {
	var appState types.AppState
	if err := tmjson.Unmarshal(genesis.AppState, &appState); err != nil {
		return appState, err
	}

	return appState, appState.Verify()
}
