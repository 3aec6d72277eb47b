package indexerclient

import (
	"context"
	"sync"

	"github.com/blobscan/blobindexer-go/types"
)

// IndexCall records one invocation of Index, for assertions in tests.
type IndexCall struct {
	Block types.BlockEntity
	Txs   []types.TransactionEntity
	Blobs []types.BlobEntity
}

// Fake is an in-memory Client for tests. Every successful call is recorded
// in order; a call that returns its configured error is not recorded.
type Fake struct {
	mu sync.Mutex

	IndexCalls      []IndexCall
	UpdateSlotCalls []types.Slot
	ReorgCalls      []types.Slot

	IndexErr      error
	UpdateSlotErr error
	ReorgErr      error
}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) Index(_ context.Context, block types.BlockEntity, txs []types.TransactionEntity, blobs []types.BlobEntity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.IndexErr != nil {
		return f.IndexErr
	}
	f.IndexCalls = append(f.IndexCalls, IndexCall{Block: block, Txs: txs, Blobs: blobs})
	return nil
}

func (f *Fake) UpdateSlot(_ context.Context, slot types.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateSlotErr != nil {
		return f.UpdateSlotErr
	}
	f.UpdateSlotCalls = append(f.UpdateSlotCalls, slot)
	return nil
}

func (f *Fake) HandleReorgedSlot(_ context.Context, slot types.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReorgErr != nil {
		return f.ReorgErr
	}
	f.ReorgCalls = append(f.ReorgCalls, slot)
	return nil
}
