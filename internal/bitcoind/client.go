// Package bitcoind is a minimal bitcoind JSON-RPC client covering the
// calls payjoin-cli needs, plus the FeeRate unit type.
package bitcoind

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/payjoinlabs/payjoin-cli/internal/logger"
)

const requestTimeout = 30 * time.Second

// Client talks to a bitcoind node over JSON-RPC 1.0.
type Client struct {
	client *resty.Client
	log    *logger.Logger
}

// NewClient builds a client for the node at host. When cookiePath is
// non-empty the credentials are read from the bitcoind auth cookie file
// ("user:password" on one line) and take precedence over user/password.
func NewClient(host *url.URL, user, password, cookiePath string, log *logger.Logger) (*Client, error) {
	if cookiePath != "" {
		cookieUser, cookiePassword, err := readCookie(cookiePath)
		if err != nil {
			return nil, err
		}
		user, password = cookieUser, cookiePassword
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(host.String(), "/")).
		SetBasicAuth(user, password).
		SetTimeout(requestTimeout)

	return &Client{client: cli, log: log}, nil
}

func readCookie(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read cookie file: %w", err)
	}

	user, password, ok := strings.Cut(strings.TrimSpace(string(data)), ":")
	if !ok {
		return "", "", fmt.Errorf("cookie file %q is not in user:password form", path)
	}
	return user, password, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	if params == nil {
		params = []any{}
	}

	var rpcResp rpcResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(rpcRequest{
			JSONRPC: "1.0",
			ID:      uuid.NewString(),
			Method:  method,
			Params:  params,
		}).
		SetResult(&rpcResp).
		SetError(&rpcResp).
		Post("/")
	if err != nil {
		return fmt.Errorf("%s request: %w", method, err)
	}

	if rpcResp.Error != nil {
		return fmt.Errorf("%s: rpc error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if resp.IsError() {
		return fmt.Errorf("%s: unexpected status %s", method, resp.Status())
	}

	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
	}
	return nil
}

// BlockchainInfo is the subset of getblockchaininfo payjoin-cli cares
// about.
type BlockchainInfo struct {
	Chain  string `json:"chain"`
	Blocks int64  `json:"blocks"`
}

// GetBlockchainInfo doubles as the connectivity and credentials probe run
// before any payjoin session is created.
func (c *Client) GetBlockchainInfo(ctx context.Context) (*BlockchainInfo, error) {
	var info BlockchainInfo
	if err := c.call(ctx, "getblockchaininfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetNewAddress returns a fresh receive address from the node wallet.
func (c *Client) GetNewAddress(ctx context.Context) (string, error) {
	var address string
	if err := c.call(ctx, "getnewaddress", nil, &address); err != nil {
		return "", err
	}
	return address, nil
}
