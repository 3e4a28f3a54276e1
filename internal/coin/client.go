package coin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL = "https://coin-without-bugs.vkforms.ru/merchant/"
	defaultTimeout = 10 * time.Second

	transferQueueSize = 1024
)

type transferRequest struct {
	traceID string
	toID    int64
	amount  int64
}

// Client talks to the external coin ledger with merchant credentials.
// Outgoing transfers are queued and drained one request at a time by
// RunTransfers.
type Client struct {
	baseURL    string
	merchantID int64
	key        string
	payload    int64

	httpClient *http.Client
	transfers  chan transferRequest
}

func NewClient(merchantID int64, key string, payload int64) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		merchantID: merchantID,
		key:        key,
		payload:    payload,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		transfers: make(chan transferRequest, transferQueueSize),
	}
}

func (c *Client) request(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	params["merchantId"] = c.merchantID
	params["key"] = c.key

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+method, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Error    json.RawMessage `json:"error"`
		Response json.RawMessage `json:"response"`
	}

	err = json.NewDecoder(resp.Body).Decode(&payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}

	if len(payload.Error) > 0 && string(payload.Error) != "null" {
		return nil, fmt.Errorf("ledger error on %s: %s", method, payload.Error)
	}

	return payload.Response, nil
}

// ListTransactions fetches the recent transactions of the requested
// direction. The feed overlaps between polls; callers dedup.
func (c *Client) ListTransactions(ctx context.Context, dir Direction) ([]Transaction, error) {
	raw, err := c.request(ctx, "tx", map[string]any{
		"tx": []int{int(dir)},
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var raws []rawTransaction

	err = json.Unmarshal(raw, &raws)
	if err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	txs := make([]Transaction, 0, len(raws))

	for _, r := range raws {
		t, err := r.transaction()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", r.ID, err)
		}

		txs = append(txs, t)
	}

	return txs, nil
}

// QueueTransfer enqueues an outgoing transfer without blocking. A full
// queue drops the transfer and logs it; the debit already happened, so
// this is surfaced loudly.
func (c *Client) QueueTransfer(toID, amount int64) {
	req := transferRequest{
		traceID: uuid.NewString(),
		toID:    toID,
		amount:  amount,
	}

	select {
	case c.transfers <- req:
		slog.Info("transfer queued",
			"trace_id", req.traceID, "to_id", toID, "amount", amount)
	default:
		slog.Error("transfer queue full, transfer dropped",
			"trace_id", req.traceID, "to_id", toID, "amount", amount)
	}
}

// RunTransfers drains the transfer queue, sending one request at a
// time until ctx is done.
func (c *Client) RunTransfers(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-c.transfers:
			_, err := c.request(ctx, "send", map[string]any{
				"toId":   req.toID,
				"amount": req.amount,
			})
			if err != nil {
				slog.Error("transfer failed",
					"trace_id", req.traceID, "to_id", req.toID,
					"amount", req.amount, "error", err)
				continue
			}

			slog.Info("transfer sent",
				"trace_id", req.traceID, "to_id", req.toID, "amount", req.amount)
		}
	}
}

// DepositURL builds the payment link a user opens to send coins to
// the merchant: merchant id, amount and payload tag as hex-joined
// path segments. A non-fixed link lets the user edit the amount.
func (c *Client) DepositURL(amount int64, fixed bool) string {
	segments := strconv.FormatInt(c.merchantID, 16) +
		"_" + strconv.FormatInt(amount, 16) +
		"_" + strconv.FormatInt(c.payload, 16)

	if !fixed {
		segments += "_1"
	}

	return "vk.com/coin#m" + segments
}
