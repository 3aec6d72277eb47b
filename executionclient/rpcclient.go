package executionclient

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/blobscan/blobindexer-go/types"
)

// RPCClient is the real Client, talking eth_getBlockByHash over JSON-RPC.
// It dials an HTTP, WS, IPC, or stdio endpoint from a single URL, the same
// way go-ethereum's rpc.DialTransport does.
type RPCClient struct {
	rpc *gethrpc.Client
}

// Dial connects to an execution node's JSON-RPC endpoint.
func Dial(ctx context.Context, rawURL string) (*RPCClient, error) {
	c, err := gethrpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("dial execution rpc: %w", err)
	}
	return &RPCClient{rpc: c}, nil
}

// rpcBlock mirrors the subset of eth_getBlockByHash's JSON response this
// client needs; full-block decoding is left to the caller's JSON tags.
type rpcBlock struct {
	Hash         common.Hash    `json:"hash"`
	Number       hexutil.Uint64 `json:"number"`
	Timestamp    hexutil.Uint64 `json:"timestamp"`
	Transactions []rpcBlockTx   `json:"transactions"`
}

type rpcBlockTx struct {
	Hash                common.Hash     `json:"hash"`
	From                common.Address  `json:"from"`
	To                  *common.Address `json:"to"`
	BlobVersionedHashes []common.Hash   `json:"blobVersionedHashes"`
}

func (c *RPCClient) GetBlockWithTxs(ctx context.Context, blockHash common.Hash) (*types.ExecutionBlock, error) {
	var raw *rpcBlock
	if err := c.rpc.CallContext(ctx, &raw, "eth_getBlockByHash", blockHash, true); err != nil {
		return nil, fmt.Errorf("eth_getBlockByHash %s: %w", blockHash, err)
	}
	if raw == nil {
		return nil, nil
	}

	txs := make([]types.Transaction, len(raw.Transactions))
	for i, t := range raw.Transactions {
		vhs := make([]types.VersionedHash, len(t.BlobVersionedHashes))
		for j, h := range t.BlobVersionedHashes {
			vhs[j] = types.VersionedHash(h)
		}
		txs[i] = types.Transaction{
			Hash:                t.Hash,
			From:                t.From,
			To:                  t.To,
			BlobVersionedHashes: vhs,
		}
	}

	return &types.ExecutionBlock{
		Hash:         raw.Hash,
		Number:       uint64(raw.Number),
		Timestamp:    uint64(raw.Timestamp),
		Transactions: txs,
	}, nil
}
