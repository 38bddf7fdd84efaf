package cmd

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" // nolint: gosec // securely exposed on separate, optional port
	"os"
	"os/signal"
	"syscall"

	"github.com/ballotchain/ballot-node/api"
	"github.com/ballotchain/ballot-node/config"
	"github.com/ballotchain/ballot-node/core/ballot"
	"github.com/ballotchain/ballot-node/core/statistics"
	"github.com/ballotchain/ballot-node/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	abciTypes "github.com/tendermint/tendermint/abci/types"
	tmCfg "github.com/tendermint/tendermint/config"
	tmLog "github.com/tendermint/tendermint/libs/log"
	tmNode "github.com/tendermint/tendermint/node"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
	"github.com/tendermint/tendermint/proxy"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// RunNode is the command that allows the CLI to start a node.
var RunNode = &cobra.Command{
	Use:   "node",
	Short: "Run the Ballot node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runNode(cmd)
	},
}

func runNode(cmd *cobra.Command) error {
	logger := log.NewLogger(cfg)

	// check open files limits
	if err := checkRlimits(); err != nil {
		return err
	}

	pprofOn, err := cmd.Flags().GetBool("pprof")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if pprofOn {
		pprofAddr, err := cmd.Flags().GetString("pprof-addr")
		if err != nil {
			return err
		}
		enablePprof(ctx, g, pprofAddr, logger)
	}

	if err := storages.InitStorages(cfg.DBBackend, cfg.StateMemAvailable); err != nil {
		return errors.Wrap(err, "init storages")
	}

	tmConfig := config.GetTmConfig(cfg)

	app := ballot.NewBallotBlockchain(storages, cfg, logger)
	if cfg.Instrumentation.Prometheus {
		app.SetStatisticData(statistics.New(prometheus.DefaultRegisterer))
	}

	// start TM node
	node, err := startTendermintNode(app, tmConfig, logger)
	if err != nil {
		_ = app.Close()
		return err
	}
	app.SetTmNode(node)

	if !cfg.ValidatorMode {
		hub := api.NewHub(logger.With("module", "hub"))
		app.RegisterObserver(hub)

		srv := api.New(app, app.RpcClient(), hub, cfg, logger.With("module", "api")).
			WithStatistics(app.StatisticData(), prometheus.DefaultGatherer)
		g.Go(func() error {
			return srv.Run(ctx, cfg.APIListenAddress)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Stopping node")

		if err := node.Stop(); err != nil {
			return err
		}
		node.Wait()

		return app.Close()
	})

	return g.Wait()
}

func enablePprof(ctx context.Context, g *errgroup.Group, pprofAddr string, logger tmLog.Logger) {
	pprofMux := http.DefaultServeMux
	http.DefaultServeMux = http.NewServeMux()

	server := &http.Server{
		Addr:    pprofAddr,
		Handler: pprofMux,
	}
	g.Go(func() error {
		<-ctx.Done()
		return server.Close()
	})
	g.Go(func() error {
		logger.Info("Starting pprof server", "addr", pprofAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func checkRlimits() error {
	const RequiredOpenFilesLimit = 10000

	var rLimit unix.Rlimit
	err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		return err
	}

	required := RequiredOpenFilesLimit + uint64(cfg.StateMemAvailable)
	if rLimit.Cur < required {
		rLimit.Cur = required
		err = unix.Setrlimit(unix.RLIMIT_NOFILE, &rLimit)
		if err != nil {
			return fmt.Errorf("cannot set RLIMIT_NOFILE to %d", rLimit.Cur)
		}
	}

	return nil
}

func startTendermintNode(app abciTypes.Application, cfg *tmCfg.Config, logger tmLog.Logger) (*tmNode.Node, error) {
	nodeKey, err := p2p.LoadOrGenNodeKey(cfg.NodeKeyFile())
	if err != nil {
		return nil, err
	}

	node, err := tmNode.NewNode(
		cfg,
		privval.LoadOrGenFilePV(cfg.PrivValidatorKeyFile(), cfg.PrivValidatorStateFile()),
		nodeKey,
		proxy.NewLocalClientCreator(app),
		getGenesis,
		tmNode.DefaultDBProvider,
		tmNode.DefaultMetricsProvider(cfg.Instrumentation),
		logger.With("module", "tendermint"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create a node")
	}

	if err = node.Start(); err != nil {
		return nil, errors.Wrap(err, "failed to start node")
	}

	logger.Info("Started node", "nodeInfo", node.Switch().NodeInfo())

	return node, nil
}
