package cmd

import (
	"time"

	"github.com/ballotchain/ballot-node/core/types"
	"github.com/ballotchain/ballot-node/version"
	"github.com/pkg/errors"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tendermint/privval"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmTypes "github.com/tendermint/tendermint/types"
)

const (
	blockMaxBytes   int64 = 10000000
	blockMaxGas     int64 = 100000
	blockTimeIotaMs int64 = 1000

	evidenceMaxAgeNumBlocks = 1000
	evidenceMaxAgeDuration  = 24 * time.Hour

	validatorPower = 10
)

// makeGenesis composes a genesis document around an election state. The chain starts at initialHeight.
func makeGenesis(appState types.AppState, chainID string, genesisTime time.Time, initialHeight int64, validators []tmTypes.GenesisValidator, indent bool) (*tmTypes.GenesisDoc, error) {
	if err := appState.Verify(); err != nil {
		return nil, errors.Wrap(err, "verify app state")
	}

	var (
		appStateJSON []byte
		err          error
	)
	if indent {
		appStateJSON, err = tmjson.MarshalIndent(appState, "", "	")
	} else {
		appStateJSON, err = tmjson.Marshal(appState)
	}
	if err != nil {
		return nil, errors.Wrap(err, "marshal app state")
	}

	genesis := &tmTypes.GenesisDoc{
		GenesisTime:   genesisTime,
		ChainID:       chainID,
		InitialHeight: initialHeight,
		ConsensusParams: &tmproto.ConsensusParams{
			Block: tmproto.BlockParams{
				MaxBytes:   blockMaxBytes,
				MaxGas:     blockMaxGas,
				TimeIotaMs: blockTimeIotaMs,
			},
			Evidence: tmproto.EvidenceParams{
				MaxAgeNumBlocks: evidenceMaxAgeNumBlocks,
				MaxAgeDuration:  evidenceMaxAgeDuration,
				MaxBytes:        1048576,
			},
			Validator: tmproto.ValidatorParams{
				PubKeyTypes: []string{
					tmTypes.ABCIPubKeyTypeEd25519,
				},
			},
			Version: tmproto.VersionParams{
				AppVersion: version.AppVer,
			},
		},
		Validators: validators,
		AppState:   appStateJSON,
	}

	if err := genesis.ValidateAndComplete(); err != nil {
		return nil, errors.Wrap(err, "validate genesis")
	}

	return genesis, nil
}

// localValidators makes this node the only genesis validator
func localValidators(pv *privval.FilePV) ([]tmTypes.GenesisValidator, error) {
	pubKey, err := pv.GetPubKey()
	if err != nil {
		return nil, err
	}

	return []tmTypes.GenesisValidator{{
		Address: pubKey.Address(),
		PubKey:  pubKey,
		Power:   validatorPower,
		Name:    cfg.Moniker,
	}}, nil
}
