// Package executionclient defines the execution JSON-RPC provider surface
// the core consumes. Like beaconclient, only the interface and a fake live
// in the core's test surface. The real client is built on
// github.com/ethereum/go-ethereum/rpc, following the dial pattern in that
// package's DialTransport.
package executionclient

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/blobscan/blobindexer-go/types"
)

// Client is the subset of the execution JSON-RPC API the core calls.
type Client interface {
	// GetBlockWithTxs returns the execution block identified by hash,
	// including each transaction's declared blob versioned hashes. A
	// block that does not exist returns (nil, nil).
	GetBlockWithTxs(ctx context.Context, blockHash common.Hash) (*types.ExecutionBlock, error)
}
