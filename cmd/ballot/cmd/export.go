package cmd

import (
	"crypto/sha256"
	"io"
	"log"
	"os"
	"time"

	"github.com/ballotchain/ballot-node/core/appdb"
	"github.com/ballotchain/ballot-node/core/state"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/privval"
)

var ExportCommand = &cobra.Command{
	Use:   "export",
	Short: "Ballot export command",
	RunE:  export,
}

func export(cmd *cobra.Command, args []string) error {
	height, err := cmd.Flags().GetUint64("height")
	if err != nil {
		return err
	}
	chainID, err := cmd.Flags().GetString("chain-id")
	if err != nil {
		return err
	}
	genesisTime, err := cmd.Flags().GetDuration("genesis-time")
	if err != nil {
		return err
	}
	indent, err := cmd.Flags().GetBool("indent")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	log.Println("Start exporting...")

	if err := storages.InitStorages(cfg.DBBackend, cfg.StateMemAvailable); err != nil {
		return errors.Wrap(err, "cannot load db")
	}
	defer storages.Close()

	db := appdb.NewAppDB(storages.AppDB())
	if height == 0 {
		height = db.GetLastHeight()
	}

	currentState, err := state.NewCheckStateAtHeight(height, storages.StateDB())
	if err != nil {
		return errors.Wrapf(err, "cannot open state at height %d, last available height %d", height, db.GetLastHeight())
	}

	exportTimeStart := time.Now()
	appState := currentState.Export()
	log.Printf("State has been exported. Took %s\n", time.Since(exportTimeStart))

	validators, err := localValidators(privval.LoadFilePV(cfg.PrivValidatorKeyFile(), cfg.PrivValidatorStateFile()))
	if err != nil {
		return err
	}

	genesis, err := makeGenesis(appState, chainID, time.Unix(0, 0).Add(genesisTime).UTC(), int64(height)+1, validators, indent)
	if err != nil {
		return err
	}
	log.Printf("Validate genesis OK\n")

	if err := genesis.SaveAs(output); err != nil {
		return errors.Wrap(err, "failed to save genesis file")
	}

	hash, err := getFileSha256Hash(output)
	if err != nil {
		return err
	}
	log.Printf("Finish with sha256 hash: \n%x\n", hash)

	return nil
}

func getFileSha256Hash(file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}

	return h.Sum(nil), nil
}
