package executionclient

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/blobscan/blobindexer-go/types"
)

// Fake is an in-memory Client for tests.
type Fake struct {
	mu     sync.Mutex
	Blocks map[common.Hash]*types.ExecutionBlock
	Errs   map[common.Hash]error
}

func NewFake() *Fake {
	return &Fake{
		Blocks: make(map[common.Hash]*types.ExecutionBlock),
		Errs:   make(map[common.Hash]error),
	}
}

func (f *Fake) GetBlockWithTxs(_ context.Context, blockHash common.Hash) (*types.ExecutionBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Errs[blockHash]; err != nil {
		return nil, err
	}
	return f.Blocks[blockHash], nil
}
