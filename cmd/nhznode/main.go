// Command nhznode is the node's process entrypoint, grounded on the
// teacher's cli/app.New + cli/main.go pattern: a urfave/cli app with a
// single long-running command that loads config, wires logging, builds
// the node, and blocks for an OS signal.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/nhzcoin/nhz/pkg/config"
	"github.com/nhzcoin/nhz/pkg/logging"
	"github.com/nhzcoin/nhz/pkg/node"
)

var version = "dev"

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "nhznode\nVersion: %s\n", version)
	}

	app := cli.NewApp()
	app.Name = "nhznode"
	app.Version = version
	app.Usage = "Nhz full node"
	app.ErrWriter = os.Stdout
	app.Commands = []cli.Command{startCommand()}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func startCommand() cli.Command {
	return cli.Command{
		Name:  "start",
		Usage: "start the node",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "config-path", Value: "./config.yml", Usage: "path to YAML config"},
			cli.BoolFlag{Name: "debug", Usage: "force debug-level logging"},
		},
		Action: runStart,
	}
}

func runStart(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config-path"))
	if err != nil {
		return fmt.Errorf("nhznode: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogPath, ctx.Bool("debug"))
	if err != nil {
		return fmt.Errorf("nhznode: %w", err)
	}
	defer log.Sync()

	store, accounts := newInMemoryLedger()
	dialer := newHTTPDialer(cfg)
	sender := newHTTPSender(cfg)

	n, err := node.New(node.FromFileConfig(cfg), log, store, accounts, dialer, sender)
	if err != nil {
		return fmt.Errorf("nhznode: %w", err)
	}
	n.Start()
	log.Info("node started", zapFields(cfg)...)

	metricsDone := make(chan struct{})
	go refreshMetricsLoop(n, metricsDone)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	close(metricsDone)
	n.Shutdown(10 * time.Second)
	log.Info("node stopped")
	return nil
}

func refreshMetricsLoop(n *node.Node, done <-chan struct{}) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			n.RefreshMetrics()
		}
	}
}
