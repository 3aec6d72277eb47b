// Package reorg implements single-step reorg detection. It keeps the last
// successfully observed block header and, on a parent_root mismatch against
// the next slot's header, delegates recovery to the downstream indexer's
// HandleReorgedSlot. It does not compute reorg depth or a common ancestor
// itself.
package reorg

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/blobscan/blobindexer-go/beaconclient"
	"github.com/blobscan/blobindexer-go/indexerclient"
	"github.com/blobscan/blobindexer-go/metrics"
	"github.com/blobscan/blobindexer-go/types"
)

// Detector owns last, the previously observed head. It assumes the caller
// drives it in strictly increasing slot order; reverse traversal should not
// use it at all.
type Detector struct {
	beacon  beaconclient.Client
	indexer indexerclient.Client
	last    *types.BlockRef
}

func New(beacon beaconclient.Client, indexer indexerclient.Client) *Detector {
	return &Detector{beacon: beacon, indexer: indexer}
}

// Check fetches the header at slot and, if a previous head is known and its
// parent_root doesn't match that head's root, notifies the downstream
// indexer of a reorg at slot. The observed header unconditionally becomes
// the new last-known head on success, regardless of whether a reorg fired.
// If no header exists at slot, Check returns without updating state or
// erroring.
func (d *Detector) Check(ctx context.Context, slot types.Slot) error {
	header, err := d.beacon.GetBlockHeader(ctx, types.AtSlot(slot))
	if err != nil {
		return fmt.Errorf("fetch block header for slot %d: %w", uint32(slot), err)
	}
	if header == nil {
		return nil
	}

	if d.last != nil && header.ParentRoot != d.last.Root {
		log.Warn("reorg detected", "slot", slot, "old_root", d.last.Root, "new_root", header.Root, "parent_root", header.ParentRoot)
		metrics.ReorgsDetected.Inc()
		if err := d.indexer.HandleReorgedSlot(ctx, slot); err != nil {
			return fmt.Errorf("handle reorged slot %d: %w", uint32(slot), err)
		}
	}

	d.last = &types.BlockRef{Root: header.Root, Slot: header.Slot}
	return nil
}

// Last returns the currently remembered head, or nil if none has been
// observed yet. Exposed for tests.
func (d *Detector) Last() *types.BlockRef {
	return d.last
}
