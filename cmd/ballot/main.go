package main

import (
	"github.com/ballotchain/ballot-node/cmd/ballot/cmd"
)

func main() {
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.RunNode,
		cmd.InitCommand,
		cmd.ShowNodeId,
		cmd.ShowValidator,
		cmd.VerifyGenesis,
		cmd.ExportCommand,
		cmd.KeysCommand,
		cmd.ManagerCommand,
		cmd.ManagerConsole,
		cmd.Version,
	)

	rootCmd.PersistentFlags().String("home-dir", "", "base dir (default is $HOME/.ballot)")
	rootCmd.PersistentFlags().String("config", "", "path to config (default is $(home-dir)/config/config.toml)")
	rootCmd.PersistentFlags().Bool("testnet", false, "use \"true\" for testnet, mainnet is default")

	cmd.RunNode.Flags().Bool("pprof", false, "enable pprof")
	cmd.RunNode.Flags().String("pprof-addr", "0.0.0.0:6060", "pprof listen addr")

	cmd.InitCommand.Flags().String("owner", "", "election owner address, 0x...")
	cmd.InitCommand.Flags().StringSlice("candidates", nil, "comma separated candidate names")
	cmd.InitCommand.Flags().String("chain-id", "ballot-chain", "chain id of the new network")
	cmd.InitCommand.Flags().Bool("enforce-window", false, "accept votes only while the election is active")

	cmd.ExportCommand.Flags().Uint64("height", 0, "export height")
	cmd.ExportCommand.Flags().String("chain-id", "", "chain id of the new network")
	cmd.ExportCommand.Flags().Duration("genesis-time", 0, "genesis time, as a duration since unix epoch")
	cmd.ExportCommand.Flags().Bool("indent", false, "indent app state json")
	cmd.ExportCommand.Flags().String("output", "genesis.json", "path of the written genesis")

	cmd.ManagerCommand.Flags().String("key", "", "hex private key used to sign transactions")
	cmd.ManagerCommand.Flags().String("rpc-addr", "", "node rpc address (default is rpc.laddr from config)")
	cmd.ManagerConsole.Flags().String("key", "", "hex private key used to sign transactions")
	cmd.ManagerConsole.Flags().String("rpc-addr", "", "node rpc address (default is rpc.laddr from config)")

	cmd.KeysAddress.Flags().String("key", "", "hex private key")

	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
