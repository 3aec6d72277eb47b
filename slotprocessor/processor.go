// Package slotprocessor implements the per-slot pipeline that fetches the
// beacon block, execution block, and blob sidecar, correlates them via
// blobcore, assembles entities, and submits them to the downstream indexer.
package slotprocessor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/blobscan/blobindexer-go/beaconclient"
	"github.com/blobscan/blobindexer-go/blobcore"
	"github.com/blobscan/blobindexer-go/errs"
	"github.com/blobscan/blobindexer-go/executionclient"
	"github.com/blobscan/blobindexer-go/indexerclient"
	"github.com/blobscan/blobindexer-go/reorg"
	"github.com/blobscan/blobindexer-go/types"
)

// OutcomeKind discriminates the three shapes process_slot can return.
type OutcomeKind int

const (
	Indexed OutcomeKind = iota
	Skipped
	Failed
)

// Outcome is the structured result of processing one slot.
type Outcome struct {
	Kind   OutcomeKind
	Slot   types.Slot
	Reason string // set when Kind == Skipped
	Err    error  // set when Kind == Failed
}

func indexed(slot types.Slot) Outcome { return Outcome{Kind: Indexed, Slot: slot} }
func skipped(slot types.Slot, reason string) Outcome {
	return Outcome{Kind: Skipped, Slot: slot, Reason: reason}
}
func failed(slot types.Slot, err error) Outcome {
	return Outcome{Kind: Failed, Slot: slot, Err: err}
}

// Processor owns the per-slot pipeline. It is stateless across calls except
// via the reorg detector it composes.
type Processor struct {
	beacon    beaconclient.Client
	execution executionclient.Client
	indexer   indexerclient.Client
	reorg     *reorg.Detector
}

func New(beacon beaconclient.Client, execution executionclient.Client, indexer indexerclient.Client, detector *reorg.Detector) *Processor {
	return &Processor{beacon: beacon, execution: execution, indexer: indexer, reorg: detector}
}

// ProcessSlot runs the pipeline for one slot, short-circuiting to a Skipped
// outcome when the beacon block, its execution payload, its blob
// commitments, or the sidecar is absent; a missing execution block is a
// Failed outcome instead. enableReorgDetection
// should be true for forward (live) traversal and false for historical
// backfill.
func (p *Processor) ProcessSlot(ctx context.Context, slot types.Slot, enableReorgDetection bool) Outcome {
	if enableReorgDetection {
		if err := p.reorg.Check(ctx, slot); err != nil {
			return failed(slot, err)
		}
	}

	beaconBlock, err := p.beacon.GetBlock(ctx, types.AtSlot(slot))
	if err != nil {
		return failed(slot, fmt.Errorf("fetch beacon block: %w", err))
	}
	if beaconBlock == nil {
		log.Debug("skipping slot", "slot", slot, "reason", "no beacon block")
		return skipped(slot, "no beacon block")
	}

	if beaconBlock.ExecutionPayload == nil {
		log.Debug("skipping slot", "slot", slot, "reason", "no execution payload")
		return skipped(slot, "no execution payload")
	}

	if len(beaconBlock.KZGCommitments) == 0 {
		log.Debug("skipping slot", "slot", slot, "reason", "no blob commitments")
		return skipped(slot, "no blob commitments")
	}

	executionBlock, err := p.execution.GetBlockWithTxs(ctx, beaconBlock.ExecutionPayload.BlockHash)
	if err != nil {
		return failed(slot, errs.Transient(uint32(slot), "fetch execution block", err))
	}
	if executionBlock == nil {
		return failed(slot, errs.Permanent(uint32(slot), "execution block not found", nil))
	}

	txToVHs := blobcore.TxHashToVersionedHashes(executionBlock)
	if len(txToVHs) == 0 {
		return failed(slot, errs.Consistency(uint32(slot), "beacon/execution mismatch", nil))
	}

	sidecar, err := p.beacon.GetBlobs(ctx, types.AtSlot(slot))
	if err != nil {
		return failed(slot, fmt.Errorf("fetch blob sidecar: %w", err))
	}
	if sidecar == nil {
		log.Debug("skipping slot", "slot", slot, "reason", "no sidecar")
		return skipped(slot, "no sidecar")
	}
	if len(sidecar) == 0 {
		log.Debug("skipping slot", "slot", slot, "reason", "empty sidecar")
		return skipped(slot, "empty sidecar")
	}

	vhToBlob, err := blobcore.VersionedHashToBlob(sidecar)
	if err != nil {
		return failed(slot, errs.Consistency(uint32(slot), "malformed sidecar", err))
	}

	blockEntity := types.BlockEntity{
		Hash:      executionBlock.Hash,
		Slot:      slot,
		Number:    executionBlock.Number,
		Timestamp: executionBlock.Timestamp,
	}

	var txEntities []types.TransactionEntity
	var blobEntities []types.BlobEntity
	for _, tx := range executionBlock.Transactions {
		vhs, ok := txToVHs[tx.Hash]
		if !ok {
			continue
		}
		txEntities = append(txEntities, types.TransactionEntity{
			Hash:        tx.Hash,
			BlockNumber: executionBlock.Number,
			From:        tx.From,
			To:          tx.To,
		})
		for i, vh := range vhs {
			item, ok := vhToBlob[vh]
			if !ok {
				return failed(slot, errs.Consistency(uint32(slot),
					fmt.Sprintf("sidecar missing for blob %d of tx %s", i, tx.Hash), nil))
			}
			blobEntities = append(blobEntities, types.BlobEntity{
				VersionedHash: vh,
				Commitment:    item.Commitment,
				Data:          item.Blob,
				Index:         i,
				TxHash:        tx.Hash,
			})
		}
	}

	if err := p.indexer.Index(ctx, blockEntity, txEntities, blobEntities); err != nil {
		return failed(slot, err)
	}

	log.Info("indexed slot", "slot", slot, "block", blockEntity.Hash, "txs", len(txEntities), "blobs", len(blobEntities))
	return indexed(slot)
}
