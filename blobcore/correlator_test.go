package blobcore

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blobscan/blobindexer-go/types"
)

func commitmentFixture(b byte) types.Commitment {
	var c types.Commitment
	for i := range c {
		c[i] = b
	}
	return c
}

func TestVersionedHashDeterministic(t *testing.T) {
	c := commitmentFixture(0x07)
	assert.Equal(t, VersionedHash(c), VersionedHash(c))
}

func TestVersionedHashVersionByte(t *testing.T) {
	vh := VersionedHash(commitmentFixture(0x42))
	assert.Equal(t, byte(0x01), vh[0])
}

func TestVersionedHashDiffersByCommitment(t *testing.T) {
	a := VersionedHash(commitmentFixture(0x01))
	b := VersionedHash(commitmentFixture(0x02))
	assert.NotEqual(t, a, b)
}

func TestTxHashToVersionedHashesSkipsNonBlobTx(t *testing.T) {
	c1 := commitmentFixture(0x11)
	vh1 := VersionedHash(c1)
	txWithBlob := types.Transaction{Hash: common.HexToHash("0xaa"), BlobVersionedHashes: []types.VersionedHash{vh1}}
	txWithout := types.Transaction{Hash: common.HexToHash("0xbb")}

	block := &types.ExecutionBlock{Transactions: []types.Transaction{txWithBlob, txWithout}}
	got := TxHashToVersionedHashes(block)

	require.Len(t, got, 1)
	assert.Equal(t, []types.VersionedHash{vh1}, got[txWithBlob.Hash])
}

func TestTxHashToVersionedHashesEmptyWhenNoBlobTx(t *testing.T) {
	block := &types.ExecutionBlock{Transactions: []types.Transaction{{Hash: common.HexToHash("0xbb")}}}
	got := TxHashToVersionedHashes(block)
	assert.Empty(t, got)
}

func TestVersionedHashToBlobKeysByVersionedHash(t *testing.T) {
	c1 := commitmentFixture(0x01)
	c2 := commitmentFixture(0x02)
	items := []types.BlobSidecarItem{
		{Index: 0, Commitment: c1, Blob: []byte("one")},
		{Index: 1, Commitment: c2, Blob: []byte("two")},
	}

	got, err := VersionedHashToBlob(items)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, items[0], got[VersionedHash(c1)])
	assert.Equal(t, items[1], got[VersionedHash(c2)])
}

func TestVersionedHashToBlobRejectsDuplicates(t *testing.T) {
	c := commitmentFixture(0x09)
	items := []types.BlobSidecarItem{
		{Index: 0, Commitment: c, Blob: []byte("one")},
		{Index: 1, Commitment: c, Blob: []byte("dup")},
	}

	_, err := VersionedHashToBlob(items)
	require.Error(t, err)
}
