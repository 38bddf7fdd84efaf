package cmd

import (
	"fmt"
	"time"

	"github.com/ballotchain/ballot-node/core/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	tmOS "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
)

var InitCommand = &cobra.Command{
	Use:   "init",
	Short: "Initialize config, keys and genesis of a new election network",
	RunE:  initNetwork,
}

func initNetwork(cmd *cobra.Command, args []string) error {
	ownerHex, err := cmd.Flags().GetString("owner")
	if err != nil {
		return err
	}
	names, err := cmd.Flags().GetStringSlice("candidates")
	if err != nil {
		return err
	}
	chainID, err := cmd.Flags().GetString("chain-id")
	if err != nil {
		return err
	}
	enforceWindow, err := cmd.Flags().GetBool("enforce-window")
	if err != nil {
		return err
	}

	owner, err := types.ParseAddress(ownerHex)
	if err != nil {
		return errors.Wrap(err, "owner")
	}

	genesisFile := cfg.GenesisFile()
	if tmOS.FileExists(genesisFile) {
		return errors.Errorf("genesis file %s already exists", genesisFile)
	}

	pv := privval.LoadOrGenFilePV(cfg.PrivValidatorKeyFile(), cfg.PrivValidatorStateFile())
	nodeKey, err := p2p.LoadOrGenNodeKey(cfg.NodeKeyFile())
	if err != nil {
		return err
	}

	validators, err := localValidators(pv)
	if err != nil {
		return err
	}

	genesis, err := makeGenesis(newElection(owner, names, enforceWindow), chainID, time.Now().UTC(), 1, validators, true)
	if err != nil {
		return err
	}

	if err := genesis.SaveAs(genesisFile); err != nil {
		return err
	}

	fmt.Printf("Node %s initialized, genesis written to %s\n", nodeKey.ID(), genesisFile)
	return nil
}

func newElection(owner types.Address, names []string, enforceWindow bool) types.AppState {
	appState := types.AppState{
		Owner:                 owner,
		ElectionStatus:        types.ElectionInactive.String(),
		EnforceElectionWindow: enforceWindow,
	}
	for i, name := range names {
		appState.Candidates = append(appState.Candidates, types.Candidate{
			ID:   uint32(i + 1),
			Name: name,
		})
	}
	return appState
}
