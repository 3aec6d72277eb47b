package rangeprocessor

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blobscan/blobindexer-go/beaconclient"
	"github.com/blobscan/blobindexer-go/blobcore"
	"github.com/blobscan/blobindexer-go/errs"
	"github.com/blobscan/blobindexer-go/executionclient"
	"github.com/blobscan/blobindexer-go/indexerclient"
	"github.com/blobscan/blobindexer-go/reorg"
	"github.com/blobscan/blobindexer-go/slotprocessor"
	"github.com/blobscan/blobindexer-go/types"
)

func commitmentFixture(b byte) types.Commitment {
	var c types.Commitment
	for i := range c {
		c[i] = b
	}
	return c
}

func setupNoCommitmentsSlot(beacon *beaconclient.Fake, slot types.Slot) {
	beacon.Blocks[slot] = &types.BeaconBlock{
		Slot:             slot,
		ExecutionPayload: &types.ExecutionPayloadRef{BlockHash: common.BigToHash(common.Big1)},
	}
}

func TestProcessSlotsForwardRange(t *testing.T) {
	beacon := beaconclient.NewFake()
	execution := executionclient.NewFake()
	idx := indexerclient.NewFake()
	for s := types.Slot(10); s <= 12; s++ {
		setupNoCommitmentsSlot(beacon, s)
	}
	p := slotprocessor.New(beacon, execution, idx, reorg.New(beacon, idx))
	d := New(p, idx)

	err := d.ProcessSlots(context.Background(), 10, 12)
	require.NoError(t, err)
	require.Len(t, idx.UpdateSlotCalls, 1)
	assert.Equal(t, types.Slot(12), idx.UpdateSlotCalls[0])
}

func TestProcessSlotsSingleSlotRange(t *testing.T) {
	beacon := beaconclient.NewFake()
	execution := executionclient.NewFake()
	idx := indexerclient.NewFake()
	setupNoCommitmentsSlot(beacon, 50)
	p := slotprocessor.New(beacon, execution, idx, reorg.New(beacon, idx))
	d := New(p, idx)

	err := d.ProcessSlots(context.Background(), 50, 50)
	require.NoError(t, err)
	assert.Equal(t, []types.Slot{50}, idx.UpdateSlotCalls)
}

func TestProcessSlotsReverseRangeOrderAndNoReorg(t *testing.T) {
	beacon := beaconclient.NewFake()
	execution := executionclient.NewFake()
	idx := indexerclient.NewFake()
	for s := types.Slot(198); s <= 200; s++ {
		setupNoCommitmentsSlot(beacon, s)
	}
	p := slotprocessor.New(beacon, execution, idx, reorg.New(beacon, idx))
	d := New(p, idx)

	err := d.ProcessSlots(context.Background(), 200, 198)
	require.NoError(t, err)
	// reverse traversal disables reorg detection: no header ever fetched.
	assert.Empty(t, idx.ReorgCalls)
	require.Len(t, idx.UpdateSlotCalls, 1)
	assert.Equal(t, types.Slot(198), idx.UpdateSlotCalls[0])
}

func TestProcessSlotsAbortsOnPermanentFailureAndPersistsPriorSlot(t *testing.T) {
	beacon := beaconclient.NewFake()
	execution := executionclient.NewFake()
	idx := indexerclient.NewFake()
	setupNoCommitmentsSlot(beacon, 10)
	// slot 11: beacon/execution mismatch -> ConsistencyViolation, permanent.
	commitment := commitmentFixture(0x05)
	blockHash := common.BigToHash(common.Big2)
	beacon.Blocks[11] = &types.BeaconBlock{
		Slot:             11,
		ExecutionPayload: &types.ExecutionPayloadRef{BlockHash: blockHash},
		KZGCommitments:   []types.Commitment{commitment},
	}
	execution.Blocks[blockHash] = &types.ExecutionBlock{Hash: blockHash, Transactions: nil}
	setupNoCommitmentsSlot(beacon, 12)

	p := slotprocessor.New(beacon, execution, idx, reorg.New(beacon, idx))
	d := New(p, idx)

	err := d.ProcessSlots(context.Background(), 10, 12)
	require.Error(t, err)
	var fsp *FailedSlotsProcessing
	require.ErrorAs(t, err, &fsp)
	assert.Equal(t, types.Slot(11), fsp.FailedSlot)

	require.Len(t, idx.UpdateSlotCalls, 1)
	assert.Equal(t, types.Slot(10), idx.UpdateSlotCalls[0])
}

// flakyBeacon fails GetBlock with a transient error for the first
// failuresLeft calls, then delegates to the wrapped fake.
type flakyBeacon struct {
	*beaconclient.Fake
	failuresLeft int
	attempts     int
}

func (f *flakyBeacon) GetBlock(ctx context.Context, id types.BlockID) (*types.BeaconBlock, error) {
	f.attempts++
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return nil, errs.Transient(uint32(id.Slot), "timeout", errors.New("i/o timeout"))
	}
	return f.Fake.GetBlock(ctx, id)
}

// TestProcessSlotsRetriesTransientThenSucceeds covers two timeouts followed
// by a successful attempt within the backoff budget.
func TestProcessSlotsRetriesTransientThenSucceeds(t *testing.T) {
	inner := beaconclient.NewFake()
	setupNoCommitmentsSlot(inner, 5)
	beacon := &flakyBeacon{Fake: inner, failuresLeft: 2}
	execution := executionclient.NewFake()
	idx := indexerclient.NewFake()

	p := slotprocessor.New(beacon, execution, idx, reorg.New(beacon, idx))
	d := New(p, idx)

	err := d.ProcessSlots(context.Background(), 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, beacon.attempts)
}

func TestProcessSlotsSurfacesPersistErrorOnFullCompletion(t *testing.T) {
	beacon := beaconclient.NewFake()
	execution := executionclient.NewFake()
	idx := indexerclient.NewFake()
	setupNoCommitmentsSlot(beacon, 1)
	idx.UpdateSlotErr = errors.New("disk full")

	p := slotprocessor.New(beacon, execution, idx, reorg.New(beacon, idx))
	d := New(p, idx)

	err := d.ProcessSlots(context.Background(), 1, 1)
	require.Error(t, err)
}

func TestErrsIsRetryableDefaultsUntaggedToTransient(t *testing.T) {
	assert.True(t, errs.IsRetryable(errors.New("plain error")))
}
