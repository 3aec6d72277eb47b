// Package blobcore implements the pure functions that tie a beacon block's
// KZG commitments to the versioned hashes declared on execution-layer
// transactions, and to the blob bytes delivered in the sidecar. Nothing
// here performs I/O; every failure is permanent by construction, since it
// can only stem from malformed input.
package blobcore

import (
	"crypto/sha256"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"

	"github.com/blobscan/blobindexer-go/types"
)

// VersionedHash computes v || trunc(hash(commitment), 31) for a single KZG
// commitment. It delegates the hashing to the same routine go-ethereum's
// EVM uses to validate blob transactions, so a commitment hashes to the
// same versioned hash here as it would on-chain.
func VersionedHash(commitment types.Commitment) types.VersionedHash {
	kc := kzg4844.Commitment(commitment)
	hasher := sha256.New()
	vh := kzg4844.CalcBlobHashV1(hasher, &kc)
	return types.VersionedHash(vh)
}

// TxHashToVersionedHashes walks an execution block's transactions and
// returns a map from transaction hash to the ordered list of versioned
// hashes that transaction declares. Transactions that declare none are
// omitted. Returns an empty map if no transaction in the block declares
// any blob versioned hashes.
func TxHashToVersionedHashes(block *types.ExecutionBlock) map[common.Hash][]types.VersionedHash {
	out := make(map[common.Hash][]types.VersionedHash)
	for _, tx := range block.Transactions {
		if len(tx.BlobVersionedHashes) == 0 {
			continue
		}
		vhs := make([]types.VersionedHash, len(tx.BlobVersionedHashes))
		copy(vhs, tx.BlobVersionedHashes)
		out[tx.Hash] = vhs
	}
	return out
}

// VersionedHashToBlob computes the versioned hash of every sidecar item's
// commitment and indexes the items by it. Two items sharing a versioned
// hash indicates a malformed sidecar and is reported as an error rather
// than silently overwriting one with the other.
func VersionedHashToBlob(items []types.BlobSidecarItem) (map[types.VersionedHash]types.BlobSidecarItem, error) {
	out := make(map[types.VersionedHash]types.BlobSidecarItem, len(items))
	for _, item := range items {
		vh := VersionedHash(item.Commitment)
		if _, dup := out[vh]; dup {
			return nil, fmt.Errorf("duplicate versioned hash %x at sidecar index %d", vh, item.Index)
		}
		out[vh] = item
	}
	return out, nil
}
