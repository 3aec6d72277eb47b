package indexerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/blobscan/blobindexer-go/errs"
	"github.com/blobscan/blobindexer-go/types"
)

// HTTPClient is the real Client, posting to a blobscan-style indexing API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

type indexRequest struct {
	Block types.BlockEntity         `json:"block"`
	Txs   []types.TransactionEntity `json:"transactions"`
	Blobs []types.BlobEntity        `json:"blobs"`
}

func (c *HTTPClient) Index(ctx context.Context, block types.BlockEntity, txs []types.TransactionEntity, blobs []types.BlobEntity) error {
	body, err := json.Marshal(indexRequest{Block: block, Txs: txs, Blobs: blobs})
	if err != nil {
		return errs.Permanent(uint32(block.Slot), "marshal index request", err)
	}
	return c.post(ctx, "/blocks/txs/blobs", uint32(block.Slot), body)
}

func (c *HTTPClient) UpdateSlot(ctx context.Context, slot types.Slot) error {
	body, err := json.Marshal(map[string]uint32{"slot": uint32(slot)})
	if err != nil {
		return errs.Permanent(uint32(slot), "marshal update-slot request", err)
	}
	return c.post(ctx, "/slots", uint32(slot), body)
}

func (c *HTTPClient) HandleReorgedSlot(ctx context.Context, slot types.Slot) error {
	return c.post(ctx, fmt.Sprintf("/slots/%d/reorged", uint32(slot)), uint32(slot), nil)
}

func (c *HTTPClient) post(ctx context.Context, path string, slot uint32, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errs.Permanent(slot, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Transient(slot, "submit to indexer", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		kind := errs.ClassifyHTTP(resp.StatusCode, nil)
		return errs.New(kind, slot, fmt.Sprintf("indexer returned %s for %s", resp.Status, path), nil)
	}
	return nil
}
