package cmd

import (
	"github.com/ballotchain/ballot-node/cmd/utils"
	"github.com/ballotchain/ballot-node/config"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/ballotchain/ballot-node/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg      *config.Config
	storages *utils.Storage
)

var RootCmd = &cobra.Command{
	Use:   "ballot",
	Short: "Ballot Node",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// console commands parse their own flags and load the config afterwards
		if cmd.DisableFlagParsing {
			return nil
		}
		return loadConfig(cmd)
	},
}

func loadConfig(cmd *cobra.Command) error {
	homeDir, err := cmd.Flags().GetString("home-dir")
	if err != nil {
		return err
	}
	configDir, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	storages = utils.NewStorage(homeDir, configDir)

	v := viper.New()
	v.SetConfigFile(storages.GetBallotConfigPath())
	cfg = config.GetConfig(storages.GetBallotHome())

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(err, "read config")
	}

	if err := v.Unmarshal(cfg); err != nil {
		return errors.Wrap(err, "decode config")
	}

	if err := cfg.ValidateBasic(); err != nil {
		return err
	}

	isTestnet, _ := cmd.Flags().GetBool("testnet")
	if isTestnet {
		types.CurrentChainID = types.ChainTestnet
		version.Version += "-testnet"
	}

	return nil
}
