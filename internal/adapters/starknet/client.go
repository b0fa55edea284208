package starknet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

// JSON-RPC error codes the client interprets
const (
	codeContractNotFound   = 20
	codeTxnHashNotFound    = 29
	codeInvalidTxnHash     = 25
	codeInvalidTxnNonce    = 52
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 10 * time.Second
)

// RPCClient is a Starknet JSON-RPC transport with retry and error
// classification. It is shared by every ledger operation.
type RPCClient struct {
	log      *slog.Logger
	url      string
	rpc      *rpc.Client
	attempts uint64
	interval time.Duration

	chainMu sync.Mutex
	chainID *felt.Felt
}

// NewRPCClient dials the configured node. HTTP dialing is lazy so an
// unreachable node surfaces on the first request, not here.
func NewRPCClient(cfg *config.RuntimeConfig, log *slog.Logger) (*RPCClient, error) {
	c, err := rpc.DialContext(context.Background(), cfg.Network.RPCURL)
	if err != nil {
		return nil, &domain.LedgerError{Method: "dial", Kind: domain.ErrLedgerUnavailable, Err: err}
	}
	return &RPCClient{
		log:      log.With("component", "RPCClient"),
		url:      cfg.Network.RPCURL,
		rpc:      c,
		attempts: cfg.RetryAttempts,
		interval: defaultInitialInterval,
	}, nil
}

// Close releases the underlying connection
func (c *RPCClient) Close() {
	c.rpc.Close()
}

// Call performs one JSON-RPC request and decodes the result into result.
// Transient transport failures are retried with exponential backoff; node
// errors and undecodable results are returned at once.
func (c *RPCClient) Call(ctx context.Context, result any, method string, args ...any) error {
	var raw json.RawMessage
	attempt := 0
	op := func() error {
		attempt++
		err := c.rpc.CallContext(ctx, &raw, method, args...)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}

		lerr := classify(method, err)
		if !isTransient(err) {
			return backoff.Permanent(lerr)
		}
		c.log.Debug("transient rpc failure", "method", method, "attempt", attempt, "error", err)
		return lerr
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.interval
	b.MaxInterval = defaultMaxInterval
	b.MaxElapsedTime = 0

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, c.attempts), ctx)); err != nil {
		return err
	}

	if result == nil {
		return nil
	}
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return &domain.LedgerError{Method: method, Kind: domain.ErrLedgerProtocol, Err: fmt.Errorf("invalid result: %w", err)}
	}
	return nil
}

// ChainID returns the chain id, probing the node once per process
func (c *RPCClient) ChainID(ctx context.Context) (*felt.Felt, error) {
	c.chainMu.Lock()
	defer c.chainMu.Unlock()

	if c.chainID != nil {
		return c.chainID, nil
	}

	var id felt.Felt
	if err := c.Call(ctx, &id, "starknet_chainId"); err != nil {
		return nil, err
	}
	c.chainID = &id
	c.log.Debug("fetched chain id", "chain_id", id.String(), "url", c.url)
	return c.chainID, nil
}

// classify maps a transport or node failure onto the ledger error taxonomy
func classify(method string, err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return &domain.LedgerError{
			Method: method,
			Kind:   domain.ErrLedgerProtocol,
			Code:   rpcErr.ErrorCode(),
			Err:    describeRPCError(err),
		}
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return &domain.LedgerError{Method: method, Kind: domain.ErrLedgerUnavailable, Code: httpErr.StatusCode, Err: err}
	}

	if isMalformed(err) {
		return &domain.LedgerError{Method: method, Kind: domain.ErrLedgerProtocol, Err: err}
	}

	return &domain.LedgerError{Method: method, Kind: domain.ErrLedgerUnavailable, Err: err}
}

// isTransient reports whether a failed request may succeed when repeated
func isTransient(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return false
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == 429
	}

	return !isMalformed(err)
}

// isMalformed reports whether the node answered with a payload that is not a
// valid JSON-RPC response
func isMalformed(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.Is(err, rpc.ErrNoResult) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// describeRPCError appends the error data the node attached, if any
func describeRPCError(err error) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		return fmt.Errorf("%w: %v", err, dataErr.ErrorData())
	}
	return err
}

// rpcCode returns the JSON-RPC error code carried by err, or 0
func rpcCode(err error) int {
	var lerr *domain.LedgerError
	if errors.As(err, &lerr) && errors.Is(lerr.Kind, domain.ErrLedgerProtocol) {
		return lerr.Code
	}
	return 0
}
