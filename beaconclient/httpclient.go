package beaconclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/blobscan/blobindexer-go/errs"
	"github.com/blobscan/blobindexer-go/types"
)

// HTTPClient is the real Client, talking to a standard beacon-node HTTP
// API (the `/eth/v2/beacon/blocks/{id}`, `/eth/v1/beacon/blob_sidecars/{id}`,
// and `/eth/v1/beacon/headers/{id}` family of endpoints).
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

func (c *HTTPClient) get(ctx context.Context, path string, slot types.Slot, out interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, errs.Permanent(uint32(slot), "build request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, errs.Transient(uint32(slot), "fetch "+path, err)
	}
	defer resp.Body.Close()

	if errs.IsNotFound(resp.StatusCode) {
		return false, nil
	}
	if resp.StatusCode >= 300 {
		kind := errs.ClassifyHTTP(resp.StatusCode, nil)
		return false, errs.New(kind, uint32(slot), fmt.Sprintf("beacon node returned %s for %s", resp.Status, path), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, errs.Permanent(uint32(slot), "decode response for "+path, err)
	}
	return true, nil
}

type beaconBlockResponse struct {
	Data struct {
		Message struct {
			Slot   string `json:"slot"`
			Body   struct {
				ParentRoot       string `json:"parent_root"`
				ExecutionPayload *struct {
					BlockHash string `json:"block_hash"`
				} `json:"execution_payload"`
				BlobKZGCommitments []string `json:"blob_kzg_commitments"`
			} `json:"body"`
		} `json:"message"`
	} `json:"data"`
}

func (c *HTTPClient) GetBlock(ctx context.Context, id types.BlockID) (*types.BeaconBlock, error) {
	var resp beaconBlockResponse
	ok, err := c.get(ctx, "/eth/v2/beacon/blocks/"+id.String(), id.Slot, &resp)
	if err != nil || !ok {
		return nil, err
	}

	block := &types.BeaconBlock{
		Slot:       id.Slot,
		ParentRoot: common.HexToHash(resp.Data.Message.Body.ParentRoot),
	}
	if p := resp.Data.Message.Body.ExecutionPayload; p != nil {
		block.ExecutionPayload = &types.ExecutionPayloadRef{BlockHash: common.HexToHash(p.BlockHash)}
	}
	for _, raw := range resp.Data.Message.Body.BlobKZGCommitments {
		var commitment types.Commitment
		copy(commitment[:], common.FromHex(raw))
		block.KZGCommitments = append(block.KZGCommitments, commitment)
	}
	return block, nil
}

type blobSidecarsResponse struct {
	Data []struct {
		Index         string `json:"index"`
		KZGCommitment string `json:"kzg_commitment"`
		Blob          string `json:"blob"`
	} `json:"data"`
}

func (c *HTTPClient) GetBlobs(ctx context.Context, id types.BlockID) ([]types.BlobSidecarItem, error) {
	var resp blobSidecarsResponse
	ok, err := c.get(ctx, "/eth/v1/beacon/blob_sidecars/"+id.String(), id.Slot, &resp)
	if err != nil || !ok {
		return nil, err
	}

	items := make([]types.BlobSidecarItem, 0, len(resp.Data))
	for _, d := range resp.Data {
		var commitment types.Commitment
		copy(commitment[:], common.FromHex(d.KZGCommitment))
		var index uint64
		fmt.Sscanf(d.Index, "%d", &index)
		items = append(items, types.BlobSidecarItem{
			Index:      index,
			Commitment: commitment,
			Blob:       common.FromHex(d.Blob),
		})
	}
	return items, nil
}

type beaconHeaderResponse struct {
	Data struct {
		Root   string `json:"root"`
		Header struct {
			Message struct {
				Slot       string `json:"slot"`
				ParentRoot string `json:"parent_root"`
			} `json:"message"`
		} `json:"header"`
	} `json:"data"`
}

func (c *HTTPClient) GetBlockHeader(ctx context.Context, id types.BlockID) (*types.BlockHeader, error) {
	var resp beaconHeaderResponse
	ok, err := c.get(ctx, "/eth/v1/beacon/headers/"+id.String(), id.Slot, &resp)
	if err != nil || !ok {
		return nil, err
	}

	return &types.BlockHeader{
		Slot:       id.Slot,
		Root:       common.HexToHash(resp.Data.Root),
		ParentRoot: common.HexToHash(resp.Data.Header.Message.ParentRoot),
	}, nil
}
