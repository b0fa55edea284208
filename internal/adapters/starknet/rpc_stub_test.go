package starknet

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
)

// rpcRequest is a decoded JSON-RPC request seen by the stub node
type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// rpcReply is what a stub handler answers: either a result or an error object
type rpcReply struct {
	Result any
	Code   int
	Msg    string
	Status int // non-zero answers with a bare HTTP status
	Raw    string
}

// stubNode is an httptest Starknet node driven by per-method handlers
type stubNode struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]func(req rpcRequest) rpcReply
	calls    map[string]int
	requests map[string][]rpcRequest
}

func newStubNode(t *testing.T) *stubNode {
	t.Helper()
	n := &stubNode{
		t:        t,
		handlers: map[string]func(rpcRequest) rpcReply{},
		calls:    map[string]int{},
		requests: map[string][]rpcRequest{},
	}
	n.handle("starknet_chainId", func(rpcRequest) rpcReply {
		return rpcReply{Result: "0x534e5f474f45524c49"}
	})
	n.server = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.server.Close)
	return n
}

func (n *stubNode) handle(method string, h func(req rpcRequest) rpcReply) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = h
}

func (n *stubNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func (n *stubNode) lastRequest(method string) rpcRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	reqs := n.requests[method]
	require.NotEmpty(n.t, reqs, "no %s request recorded", method)
	return reqs[len(reqs)-1]
}

func (n *stubNode) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method]++
	n.requests[req.Method] = append(n.requests[req.Method], req)
	h, ok := n.handlers[req.Method]
	n.mu.Unlock()

	reply := rpcReply{Code: -32601, Msg: "method not found"}
	if ok {
		reply = h(req)
	}

	if reply.Status != 0 {
		w.WriteHeader(reply.Status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if reply.Raw != "" {
		_, _ = io.WriteString(w, reply.Raw)
		return
	}

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if reply.Code != 0 {
		resp["error"] = map[string]any{"code": reply.Code, "message": reply.Msg}
	} else {
		resp["result"] = reply.Result
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func stubConfig(url string) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Network: config.NetworkConfig{
			RPCURL:      url,
			ExplorerURL: "https://explorer.test",
		},
		Account: config.AccountConfig{
			Address:    "0x1234",
			PrivateKey: "0x1",
		},
		PollInterval:    time.Millisecond,
		FinalityTimeout: time.Second,
		RetryAttempts:   3,
	}
}

func newTestRPCClient(t *testing.T, cfg *config.RuntimeConfig) *RPCClient {
	t.Helper()
	c, err := NewRPCClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	c.interval = time.Millisecond
	t.Cleanup(c.Close)
	return c
}

func newTestLedger(t *testing.T, node *stubNode) *LedgerClient {
	t.Helper()
	cfg := stubConfig(node.server.URL)
	l, err := NewLedgerClient(cfg, newTestRPCClient(t, cfg), NewClassHasher(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return l
}

func decodeParam[T any](t *testing.T, req rpcRequest, i int) T {
	t.Helper()
	require.Greater(t, len(req.Params), i)
	var v T
	require.NoError(t, json.Unmarshal(req.Params[i], &v))
	return v
}
