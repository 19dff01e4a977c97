// internal/rpc/client.go - Sequencer node JSON-RPC client
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	methodGetTips               = "node_getTips"
	methodGetArchiveSiblingPath = "node_getArchiveSiblingPath"
)

// ErrMissingField is returned when an RPC response parses as JSON but the
// field the caller needs is absent or explicitly null. Callers match it with
// errors.Is; it is never retried at this layer.
var ErrMissingField = errors.New("missing field in RPC response")

type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type tipsResult struct {
	Proven *struct {
		Number *uint64 `json:"number"`
	} `json:"proven"`
}

func (c *Client) post(ctx context.Context, method string, params []any) ([]byte, int, error) {
	if params == nil {
		params = []any{}
	}

	jsonData, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal JSON-RPC request: %w", err)
	}

	c.logger.Debug("Making JSON-RPC request", "url", c.endpoint, "method", method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build JSON-RPC request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("JSON-RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read JSON-RPC response: %w", err)
	}

	c.logger.Debug("JSON-RPC response received", "status", resp.StatusCode, "body_length", len(body))

	return body, resp.StatusCode, nil
}

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	body, status, err := c.post(ctx, method, params)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("JSON-RPC HTTP %d: %s", status, string(body))
	}

	var response rpcResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse JSON-RPC response: %w", err)
	}

	if response.Error != nil {
		return nil, fmt.Errorf("node returned error %d: %s", response.Error.Code, response.Error.Message)
	}

	return response.Result, nil
}

// Ping issues the tips query as a reachability probe. Any response whose body
// parses as JSON counts as reachable, including a JSON-RPC error envelope and
// non-200 statuses: a node answering at all is up, whether or not it likes
// the request yet.
func (c *Client) Ping(ctx context.Context) error {
	body, status, err := c.post(ctx, methodGetTips, nil)
	if err != nil {
		return err
	}

	if !json.Valid(body) {
		return fmt.Errorf("endpoint answered HTTP %d with a non-JSON body", status)
	}

	return nil
}

// ProvenTip fetches the current chain tips and extracts the proven block
// height. Not retried; a missing or null proven number is ErrMissingField.
func (c *Client) ProvenTip(ctx context.Context) (uint64, error) {
	result, err := c.call(ctx, methodGetTips, nil)
	if err != nil {
		return 0, err
	}

	if isNull(result) {
		return 0, fmt.Errorf("%s result: %w", methodGetTips, ErrMissingField)
	}

	var tips tipsResult
	if err := json.Unmarshal(result, &tips); err != nil {
		return 0, fmt.Errorf("failed to parse %s result: %w", methodGetTips, err)
	}

	if tips.Proven == nil || tips.Proven.Number == nil {
		return 0, fmt.Errorf("proven block number: %w", ErrMissingField)
	}

	return *tips.Proven.Number, nil
}

// ArchiveSiblingPath fetches the sync proof for height. The node expects the
// height as a decimal string, twice.
func (c *Client) ArchiveSiblingPath(ctx context.Context, height uint64) (string, error) {
	h := strconv.FormatUint(height, 10)

	result, err := c.call(ctx, methodGetArchiveSiblingPath, []any{h, h})
	if err != nil {
		return "", err
	}

	if isNull(result) {
		return "", fmt.Errorf("%s result: %w", methodGetArchiveSiblingPath, ErrMissingField)
	}

	var proof string
	if err := json.Unmarshal(result, &proof); err != nil {
		return "", fmt.Errorf("failed to parse %s result: %w", methodGetArchiveSiblingPath, err)
	}

	if proof == "" {
		return "", fmt.Errorf("%s proof payload: %w", methodGetArchiveSiblingPath, ErrMissingField)
	}

	return proof, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
