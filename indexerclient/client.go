// Package indexerclient defines the downstream indexer HTTP surface the
// core submits to: an atomic per-slot submission, reorg notification, and
// last-processed-slot persistence.
package indexerclient

import (
	"context"

	"github.com/blobscan/blobindexer-go/types"
)

// Client is the subset of the downstream indexer's HTTP API the core calls.
type Client interface {
	// Index submits one slot's worth of entities atomically: either all
	// of them are accepted, or the call fails and nothing is persisted.
	Index(ctx context.Context, block types.BlockEntity, txs []types.TransactionEntity, blobs []types.BlobEntity) error
	// UpdateSlot persists the last-processed slot.
	UpdateSlot(ctx context.Context, slot types.Slot) error
	// HandleReorgedSlot notifies the downstream indexer that a reorg was
	// detected at slot; re-indexing the affected branch is the
	// downstream's responsibility.
	HandleReorgedSlot(ctx context.Context, slot types.Slot) error
}
