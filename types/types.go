// Package types holds the data model shared by the slot-processing core:
// the beacon/execution/sidecar views fetched per slot, and the entities
// assembled from them for submission to the downstream indexer.
package types

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// Slot identifies a fixed-duration beacon chain time unit.
type Slot uint32

// BlockIDKind tags the three ways a block can be addressed on the beacon API.
type BlockIDKind int

const (
	BlockIDHead BlockIDKind = iota
	BlockIDFinalized
	BlockIDSlot
)

// BlockID addresses a beacon block or header by head, finalized checkpoint,
// or an explicit slot. It serializes to the wire form the beacon API expects.
type BlockID struct {
	Kind BlockIDKind
	Slot Slot
}

func Head() BlockID            { return BlockID{Kind: BlockIDHead} }
func Finalized() BlockID       { return BlockID{Kind: BlockIDFinalized} }
func AtSlot(slot Slot) BlockID { return BlockID{Kind: BlockIDSlot, Slot: slot} }

// String renders the BlockID the way the beacon HTTP API expects it as a
// path parameter: "head", "finalized", or a decimal slot number.
func (b BlockID) String() string {
	switch b.Kind {
	case BlockIDHead:
		return "head"
	case BlockIDFinalized:
		return "finalized"
	default:
		return strconv.FormatUint(uint64(b.Slot), 10)
	}
}

// BlockRef is the minimal identity of a beacon block the Reorg Detector
// keeps between slots: its root and the slot it belongs to.
type BlockRef struct {
	Root common.Hash
	Slot Slot
}

// BlockHeader is the consensus-layer header view used by the Reorg Detector.
type BlockHeader struct {
	Slot       Slot
	Root       common.Hash
	ParentRoot common.Hash
}

// ExecutionPayloadRef is the subset of a beacon block's execution payload
// the core needs: the hash that must match the paired execution block.
type ExecutionPayloadRef struct {
	BlockHash common.Hash
}

// BeaconBlock is the consensus-layer view of a slot.
type BeaconBlock struct {
	Slot             Slot
	ParentRoot       common.Hash
	ExecutionPayload *ExecutionPayloadRef // nil if the slot had no execution payload (pre-merge or empty slot)
	KZGCommitments   []Commitment         // nil/empty if the block carries no blobs
}

// Commitment is a KZG polynomial commitment, 48 bytes per EIP-4844.
type Commitment [48]byte

// VersionedHash is the 32-byte value derived from a commitment:
// v || trunc(hash(commitment), 31).
type VersionedHash common.Hash

// Transaction is the execution-layer view of one transaction, carrying the
// versioned hashes it declares for any blobs it references.
type Transaction struct {
	Hash                common.Hash
	From                common.Address
	To                  *common.Address
	BlobVersionedHashes []VersionedHash
}

// ExecutionBlock is the execution-layer view of a slot.
type ExecutionBlock struct {
	Hash         common.Hash
	Number       uint64
	Timestamp    uint64
	Transactions []Transaction
}

// BlobSidecarItem is one entry of the blob sidecar delivered alongside a
// beacon block: its position, its commitment, and the opaque blob bytes.
type BlobSidecarItem struct {
	Index      uint64
	Commitment Commitment
	Blob       []byte
}

// BlockEntity is the block-level record submitted to the downstream indexer.
type BlockEntity struct {
	Hash      common.Hash
	Slot      Slot
	Number    uint64
	Timestamp uint64
}

// TransactionEntity is the transaction-level record submitted downstream.
type TransactionEntity struct {
	Hash        common.Hash
	BlockNumber uint64
	From        common.Address
	To          *common.Address
}

// BlobEntity is the blob-level record submitted downstream. Index is the
// blob's position within its owning transaction's versioned-hash list, not
// its position in the sidecar.
type BlobEntity struct {
	VersionedHash VersionedHash
	Commitment    Commitment
	Data          []byte
	Index         int
	TxHash        common.Hash
}

func (s Slot) String() string { return fmt.Sprintf("%d", uint32(s)) }
