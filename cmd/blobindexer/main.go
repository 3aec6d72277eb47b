// Command blobindexer runs the blob-carrying transaction indexer core over
// a closed slot range. Only initial-slot and final-slot are visible to the
// core itself; everything else here configures the external collaborators
// the core is handed.
package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/blobscan/blobindexer-go/beaconclient"
	"github.com/blobscan/blobindexer-go/config"
	"github.com/blobscan/blobindexer-go/executionclient"
	"github.com/blobscan/blobindexer-go/indexerclient"
	"github.com/blobscan/blobindexer-go/metrics"
	"github.com/blobscan/blobindexer-go/rangeprocessor"
	"github.com/blobscan/blobindexer-go/reorg"
	"github.com/blobscan/blobindexer-go/slotprocessor"
	"github.com/blobscan/blobindexer-go/types"
)

var (
	beaconURLFlag = &cli.StringFlag{
		Name:     "beacon-url",
		Usage:    "Base URL of the beacon node's HTTP API",
		Required: true,
		EnvVars:  []string{"BLOBINDEXER_BEACON_URL"},
	}
	executionURLFlag = &cli.StringFlag{
		Name:     "execution-url",
		Usage:    "URL of the execution node's JSON-RPC endpoint",
		Required: true,
		EnvVars:  []string{"BLOBINDEXER_EXECUTION_URL"},
	}
	indexerURLFlag = &cli.StringFlag{
		Name:     "indexer-url",
		Usage:    "Base URL of the downstream indexer's HTTP API",
		Required: true,
		EnvVars:  []string{"BLOBINDEXER_INDEXER_URL"},
	}
	initialSlotFlag = &cli.Uint64Flag{
		Name:     "initial-slot",
		Usage:    "First slot of the range to process",
		Required: true,
	}
	finalSlotFlag = &cli.Uint64Flag{
		Name:     "final-slot",
		Usage:    "Last slot of the range to process",
		Required: true,
	}
	httpTimeoutFlag = &cli.DurationFlag{
		Name:  "http-timeout",
		Usage: "Timeout applied to each HTTP/JSON-RPC call",
		Value: config.DefaultHTTPTimeout,
	}
)

func main() {
	app := &cli.App{
		Name:   "blobindexer",
		Usage:  "Index blob-carrying transactions over a slot range",
		Flags:  []cli.Flag{beaconURLFlag, executionURLFlag, indexerURLFlag, initialSlotFlag, finalSlotFlag, httpTimeoutFlag},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("blobindexer exited with error", "err", err)
	}
}

func run(c *cli.Context) error {
	cfg := config.Config{
		BeaconURL:    c.String(beaconURLFlag.Name),
		ExecutionURL: c.String(executionURLFlag.Name),
		IndexerURL:   c.String(indexerURLFlag.Name),
		InitialSlot:  uint32(c.Uint64(initialSlotFlag.Name)),
		FinalSlot:    uint32(c.Uint64(finalSlotFlag.Name)),
		HTTPTimeout:  c.Duration(httpTimeoutFlag.Name),
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	execClient, err := executionclient.Dial(c.Context, cfg.ExecutionURL)
	if err != nil {
		return fmt.Errorf("dial execution client: %w", err)
	}

	beaconClient := beaconclient.NewHTTPClient(cfg.BeaconURL, cfg.HTTPTimeout)
	indexerClient := indexerclient.NewHTTPClient(cfg.IndexerURL, cfg.HTTPTimeout)

	detector := reorg.New(beaconClient, indexerClient)
	processor := slotprocessor.New(beaconClient, execClient, indexerClient, detector)
	driver := rangeprocessor.New(processor, indexerClient)

	log.Info("starting range processing", "initial_slot", cfg.InitialSlot, "final_slot", cfg.FinalSlot)

	return driver.ProcessSlots(c.Context, types.Slot(cfg.InitialSlot), types.Slot(cfg.FinalSlot))
}
