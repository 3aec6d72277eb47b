package reorg

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blobscan/blobindexer-go/beaconclient"
	"github.com/blobscan/blobindexer-go/indexerclient"
	"github.com/blobscan/blobindexer-go/types"
)

func TestCheckNoHeaderIsNoOp(t *testing.T) {
	beacon := beaconclient.NewFake()
	idx := indexerclient.NewFake()
	d := New(beacon, idx)

	err := d.Check(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, d.Last())
	assert.Empty(t, idx.ReorgCalls)
}

func TestCheckFirstHeaderSetsStateWithoutReorg(t *testing.T) {
	beacon := beaconclient.NewFake()
	idx := indexerclient.NewFake()
	rootA := common.HexToHash("0xaa")
	beacon.Headers[10] = &types.BlockHeader{Slot: 10, Root: rootA, ParentRoot: common.HexToHash("0x00")}
	d := New(beacon, idx)

	require.NoError(t, d.Check(context.Background(), 10))
	require.NotNil(t, d.Last())
	assert.Equal(t, rootA, d.Last().Root)
	assert.Empty(t, idx.ReorgCalls)
}

func TestCheckDetectsReorgOnParentMismatch(t *testing.T) {
	beacon := beaconclient.NewFake()
	idx := indexerclient.NewFake()
	rootA := common.HexToHash("0xaa")
	rootB := common.HexToHash("0xbb")
	root11 := common.HexToHash("0x11")
	beacon.Headers[10] = &types.BlockHeader{Slot: 10, Root: rootA, ParentRoot: common.HexToHash("0x00")}
	beacon.Headers[11] = &types.BlockHeader{Slot: 11, Root: root11, ParentRoot: rootB}
	d := New(beacon, idx)

	require.NoError(t, d.Check(context.Background(), 10))
	require.NoError(t, d.Check(context.Background(), 11))

	require.Len(t, idx.ReorgCalls, 1)
	assert.Equal(t, types.Slot(11), idx.ReorgCalls[0])
	// last is updated unconditionally, regardless of the reorg.
	assert.Equal(t, root11, d.Last().Root)
}

func TestCheckNoReorgWhenParentMatches(t *testing.T) {
	beacon := beaconclient.NewFake()
	idx := indexerclient.NewFake()
	rootA := common.HexToHash("0xaa")
	root11 := common.HexToHash("0x11")
	beacon.Headers[10] = &types.BlockHeader{Slot: 10, Root: rootA, ParentRoot: common.HexToHash("0x00")}
	beacon.Headers[11] = &types.BlockHeader{Slot: 11, Root: root11, ParentRoot: rootA}
	d := New(beacon, idx)

	require.NoError(t, d.Check(context.Background(), 10))
	require.NoError(t, d.Check(context.Background(), 11))

	assert.Empty(t, idx.ReorgCalls)
	assert.Equal(t, root11, d.Last().Root)
}

func TestCheckPropagatesHandleReorgError(t *testing.T) {
	beacon := beaconclient.NewFake()
	idx := indexerclient.NewFake()
	rootA := common.HexToHash("0xaa")
	rootB := common.HexToHash("0xbb")
	beacon.Headers[10] = &types.BlockHeader{Slot: 10, Root: rootA}
	beacon.Headers[11] = &types.BlockHeader{Slot: 11, Root: common.HexToHash("0x11"), ParentRoot: rootB}
	idx.ReorgErr = assertErr
	d := New(beacon, idx)

	require.NoError(t, d.Check(context.Background(), 10))
	err := d.Check(context.Background(), 11)
	require.Error(t, err)
}

var assertErr = errBoom{}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
