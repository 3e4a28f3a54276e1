package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// LongPoll consumes the group's long-poll update feed. Wait blocks
// until the server returns new events or its wait window elapses.
type LongPoll struct {
	client  *Client
	groupID int64
	wait    int

	server string
	key    string
	ts     string

	httpClient *http.Client
}

func NewLongPoll(client *Client, groupID int64, wait time.Duration) *LongPoll {
	waitSec := int(wait / time.Second)
	if waitSec <= 0 {
		waitSec = 25
	}

	return &LongPoll{
		client:  client,
		groupID: groupID,
		wait:    waitSec,
		httpClient: &http.Client{
			// Must exceed the server-side wait window; the long-poll
			// contract is that the server responds within it.
			Timeout: time.Duration(waitSec+10) * time.Second,
		},
	}
}

func (lp *LongPoll) refreshServer(ctx context.Context) error {
	params := url.Values{}
	params.Set("group_id", strconv.FormatInt(lp.groupID, 10))

	raw, err := lp.client.Request(ctx, "groups.getLongPollServer", params)
	if err != nil {
		return fmt.Errorf("get long poll server: %w", err)
	}

	var resp struct {
		Server string `json:"server"`
		Key    string `json:"key"`
		TS     string `json:"ts"`
	}

	err = json.Unmarshal(raw, &resp)
	if err != nil {
		return fmt.Errorf("decode long poll server: %w", err)
	}

	lp.server = resp.Server
	lp.key = resp.Key
	lp.ts = resp.TS

	return nil
}

// Wait blocks on the long-poll server for the next batch of updates.
// Feed resynchronization (stale ts, expired key) is handled internally.
func (lp *LongPoll) Wait(ctx context.Context) ([]Update, error) {
	if lp.server == "" {
		err := lp.refreshServer(ctx)
		if err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("act", "a_check")
	params.Set("key", lp.key)
	params.Set("ts", lp.ts)
	params.Set("wait", strconv.Itoa(lp.wait))

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, lp.server+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build long poll request: %w", err)
	}

	resp, err := lp.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("long poll wait: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Failed  int             `json:"failed"`
		TS      string          `json:"ts"`
		Updates json.RawMessage `json:"updates"`
	}

	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("decode long poll response: %w", err)
	}

	switch body.Failed {
	case 0:
		lp.ts = body.TS
	case 1:
		// History is out of sync; adopt the new ts and retry next Wait.
		lp.ts = body.TS
		return nil, nil
	default:
		// Key expired or data lost; re-request the server.
		lp.server = ""
		return nil, nil
	}

	updates, err := ParseUpdates(body.Updates)
	if err != nil {
		return nil, fmt.Errorf("parse updates: %w", err)
	}

	return updates, nil
}
