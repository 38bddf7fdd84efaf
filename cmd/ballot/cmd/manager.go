package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ballotchain/ballot-node/cli/service"
	"github.com/ballotchain/ballot-node/client"
	"github.com/spf13/cobra"
)

var ManagerCommand = &cobra.Command{
	Use:                "manager",
	Short:              "Ballot manager execute command",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		newArgs := setParentFlags(cmd, args)
		console, err := newConsole(cmd)
		if err != nil {
			return err
		}

		err = console.Execute(newArgs)
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		return nil
	},
}

var ManagerConsole = &cobra.Command{
	Use:                "console",
	Short:              "Ballot CLI manager",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = setParentFlags(cmd, args)
		console, err := newConsole(cmd)
		if err != nil {
			return err
		}

		console.Cli(cmd.Context())
		return nil
	},
}

func newConsole(cmd *cobra.Command) (*service.ManagerConsole, error) {
	if err := loadConfig(cmd); err != nil {
		return nil, err
	}

	rpcAddr, err := cmd.Flags().GetString("rpc-addr")
	if err != nil {
		return nil, err
	}
	if rpcAddr == "" {
		rpcAddr = cfg.RPC.ListenAddress
	}

	c, err := client.NewHTTP(rpcAddr)
	if err != nil {
		return nil, err
	}

	key, err := cmd.Flags().GetString("key")
	if err != nil {
		return nil, err
	}

	var signer *client.Signer
	if key != "" {
		if signer, err = client.KeyFromHex(key); err != nil {
			return nil, err
		}
	}

	return service.ConfigureManagerConsole(c, signer, os.Stdout), nil
}

// setParentFlags consumes --name=value arguments known to the command or its parent
func setParentFlags(cmd *cobra.Command, args []string) (newArgs []string) {
	for _, arg := range args {
		split := strings.SplitN(arg, "=", 2)
		if len(split) == 2 && strings.HasPrefix(split[0], "--") {
			name := strings.TrimLeft(split[0], "-")
			if cmd.Flags().Lookup(name) != nil && cmd.Flags().Set(name, split[1]) == nil {
				continue
			}
			if cmd.Parent().PersistentFlags().Set(name, split[1]) == nil {
				continue
			}
		}
		newArgs = append(newArgs, arg)
	}
	return newArgs
}
