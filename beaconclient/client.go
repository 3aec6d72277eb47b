// Package beaconclient defines the beacon HTTP API surface the core
// consumes. This package declares the interface, the real network client
// (HTTPClient, wired in by cmd/blobindexer), and a thin fake for tests.
package beaconclient

import (
	"context"

	"github.com/blobscan/blobindexer-go/types"
)

// Client is the subset of the beacon HTTP API the core calls. A 404 on any
// of these endpoints is translated by the implementation to a nil result
// and a nil error, since a missing block or header is not an error
// condition by itself.
type Client interface {
	GetBlock(ctx context.Context, id types.BlockID) (*types.BeaconBlock, error)
	GetBlobs(ctx context.Context, id types.BlockID) ([]types.BlobSidecarItem, error)
	GetBlockHeader(ctx context.Context, id types.BlockID) (*types.BlockHeader, error)
}
