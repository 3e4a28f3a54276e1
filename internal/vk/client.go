package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiVersion = "5.74"
	apiBaseURL = "https://api.vk.com/method/"

	defaultTimeout = 10 * time.Second
)

// APIError is an error object returned by the VK API itself,
// as opposed to a transport failure.
type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}

// Client is a minimal VK API client authorized with a group token.
// Every call returns an explicit result; failures are never swallowed.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: apiBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Request performs a single API method call and returns the raw
// "response" payload.
func (c *Client) Request(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}

	params.Set("access_token", c.token)
	params.Set("v", apiVersion)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+method,
		strings.NewReader(params.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	var body struct {
		Error    *APIError       `json:"error"`
		Response json.RawMessage `json:"response"`
	}

	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}

	if body.Error != nil {
		return nil, fmt.Errorf("call %s: %w", method, body.Error)
	}

	return body.Response, nil
}

// Execute submits a batched-call script via the execute method.
func (c *Client) Execute(ctx context.Context, code string) error {
	params := url.Values{}
	params.Set("code", code)

	_, err := c.Request(ctx, "execute", params)
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	return nil
}

// GroupMembers returns ids of the group's members.
func (c *Client) GroupMembers(ctx context.Context, groupID int64) ([]int64, error) {
	params := url.Values{}
	params.Set("group_id", fmt.Sprintf("%d", groupID))

	raw, err := c.Request(ctx, "groups.getMembers", params)
	if err != nil {
		return nil, fmt.Errorf("get members: %w", err)
	}

	var resp struct {
		Count int64   `json:"count"`
		Items []int64 `json:"items"`
	}

	err = json.Unmarshal(raw, &resp)
	if err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}

	return resp.Items, nil
}
