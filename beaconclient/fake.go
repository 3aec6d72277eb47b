package beaconclient

import (
	"context"
	"sync"

	"github.com/blobscan/blobindexer-go/types"
)

// Fake is an in-memory Client used by tests for the slot-processing core
// and its composing components: a small hand-written test double rather
// than a mocking framework.
type Fake struct {
	mu      sync.Mutex
	Blocks  map[types.Slot]*types.BeaconBlock
	Blobs   map[types.Slot][]types.BlobSidecarItem
	Headers map[types.Slot]*types.BlockHeader

	// Errs, keyed by slot, force the corresponding call to fail instead
	// of returning the fixture (or nil for a 404).
	BlockErr  map[types.Slot]error
	BlobsErr  map[types.Slot]error
	HeaderErr map[types.Slot]error
}

func NewFake() *Fake {
	return &Fake{
		Blocks:    make(map[types.Slot]*types.BeaconBlock),
		Blobs:     make(map[types.Slot][]types.BlobSidecarItem),
		Headers:   make(map[types.Slot]*types.BlockHeader),
		BlockErr:  make(map[types.Slot]error),
		BlobsErr:  make(map[types.Slot]error),
		HeaderErr: make(map[types.Slot]error),
	}
}

func (f *Fake) slotOf(id types.BlockID) types.Slot {
	return id.Slot
}

func (f *Fake) GetBlock(_ context.Context, id types.BlockID) (*types.BeaconBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot := f.slotOf(id)
	if err := f.BlockErr[slot]; err != nil {
		return nil, err
	}
	return f.Blocks[slot], nil
}

func (f *Fake) GetBlobs(_ context.Context, id types.BlockID) ([]types.BlobSidecarItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot := f.slotOf(id)
	if err := f.BlobsErr[slot]; err != nil {
		return nil, err
	}
	items, ok := f.Blobs[slot]
	if !ok {
		return nil, nil
	}
	return items, nil
}

func (f *Fake) GetBlockHeader(_ context.Context, id types.BlockID) (*types.BlockHeader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot := f.slotOf(id)
	if err := f.HeaderErr[slot]; err != nil {
		return nil, err
	}
	return f.Headers[slot], nil
}
