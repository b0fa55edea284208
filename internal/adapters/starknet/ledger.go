package starknet

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

const blockLatest = "latest"

// LedgerClient implements usecase.LedgerClient against a Starknet node.
// Every transaction is a v1 transaction signed by the configured account.
type LedgerClient struct {
	log          *slog.Logger
	rpc          *RPCClient
	signer       *StarkSigner
	hasher       *ClassHasher
	cairoVersion int
	explorerURL  string

	// submissions from one account are serialised so concurrent pipelines
	// never reuse a nonce
	nonceMu   sync.Mutex
	lastNonce *felt.Felt

	newSalt func() (*felt.Felt, error)
}

// Ensure LedgerClient implements the interface
var _ usecase.LedgerClient = (*LedgerClient)(nil)

// NewLedgerClient wires the transport with the signer identity. The signer is
// optional here; operations that submit transactions fail with
// domain.ErrMissingSigner when it is absent.
func NewLedgerClient(cfg *config.RuntimeConfig, rpcClient *RPCClient, hasher *ClassHasher, log *slog.Logger) (*LedgerClient, error) {
	var signer *StarkSigner
	if cfg.Account.Address != "" && cfg.Account.PrivateKey != "" {
		s, err := NewStarkSigner(cfg.Account.Address, cfg.Account.PrivateKey)
		if err != nil {
			return nil, err
		}
		signer = s
	}

	return &LedgerClient{
		log:          log.With("component", "LedgerClient"),
		rpc:          rpcClient,
		signer:       signer,
		hasher:       hasher,
		cairoVersion: cfg.Network.CairoVersion,
		explorerURL:  cfg.Network.ExplorerURL,
		newSalt:      randomSalt,
	}, nil
}

// ChainID returns the chain id of the node
func (l *LedgerClient) ChainID(ctx context.Context) (*felt.Felt, error) {
	return l.rpc.ChainID(ctx)
}

// Account describes the configured signer
func (l *LedgerClient) Account(ctx context.Context) (*usecase.AccountInfo, error) {
	if l.signer == nil {
		return nil, domain.ErrMissingSigner
	}
	chainID, err := l.rpc.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	return &usecase.AccountInfo{
		Address:   l.signer.Address(),
		PublicKey: l.signer.PublicKey(),
		ChainID:   chainID,
	}, nil
}

// SubmitDeclare sends a v1 declare transaction for a Cairo 0 class
func (l *LedgerClient) SubmitDeclare(ctx context.Context, artifact *models.ContractArtifact, maxFee *felt.Felt) (*usecase.SubmittedDeclare, error) {
	if l.signer == nil {
		return nil, domain.ErrMissingSigner
	}

	classHash, err := l.hasher.ClassHash(artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to compute class hash of %s: %w", artifact.Name, err)
	}
	program, err := compressProgram(artifact.Program)
	if err != nil {
		return nil, fmt.Errorf("failed to encode program of %s: %w", artifact.Name, err)
	}

	var result declareResult
	err = l.withNonce(ctx, func(chainID, nonce *felt.Felt) error {
		txHash := DeclareTransactionHash(l.signer.Address(), classHash, maxFee, chainID, nonce)
		sig, err := l.signer.Sign(txHash)
		if err != nil {
			return err
		}

		tx := declareTxn{
			Type:          "DECLARE",
			SenderAddress: l.signer.Address(),
			MaxFee:        maxFee,
			Version:       "0x1",
			Signature:     sig.Felts(),
			Nonce:         nonce,
			ContractClass: deprecatedClass{
				Program:           program,
				EntryPointsByType: nonNilEntryPoints(artifact.EntryPointsByType),
				ABI:               artifact.ABI,
			},
		}
		return l.rpc.Call(ctx, &result, "starknet_addDeclareTransaction", tx)
	})
	if err != nil {
		return nil, err
	}

	if result.ClassHash != nil && !result.ClassHash.Equal(classHash) {
		l.log.Warn("node reported a different class hash", "contract", artifact.Name,
			"local", classHash.String(), "node", result.ClassHash.String())
	}

	l.logSubmitted("declare", artifact.Name, result.TransactionHash)
	return &usecase.SubmittedDeclare{
		ClassHash: lo.Ternary(result.ClassHash != nil, result.ClassHash, classHash),
		TxHash:    result.TransactionHash,
	}, nil
}

// SubmitDeploy deploys a declared class through the Universal Deployer
func (l *LedgerClient) SubmitDeploy(ctx context.Context, classHash *felt.Felt, ctorArgs []*felt.Felt, maxFee *felt.Felt) (*usecase.SubmittedDeploy, error) {
	if l.signer == nil {
		return nil, domain.ErrMissingSigner
	}

	salt, err := l.newSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	txHash, err := l.execute(ctx, deployContractCall(classHash, salt, ctorArgs), maxFee)
	if err != nil {
		return nil, err
	}

	address := udcDeployedAddress(l.signer.Address(), classHash, salt, ctorArgs)
	l.logSubmitted("deploy", classHash.String(), txHash)
	return &usecase.SubmittedDeploy{Address: address, TxHash: txHash, Salt: salt}, nil
}

// SubmitInvoke executes one call through the account
func (l *LedgerClient) SubmitInvoke(ctx context.Context, address *felt.Felt, function string, args []*felt.Felt, maxFee *felt.Felt) (*felt.Felt, error) {
	if l.signer == nil {
		return nil, domain.ErrMissingSigner
	}

	call := Call{To: address, Selector: SelectorFromName(function), Calldata: args}
	txHash, err := l.execute(ctx, call, maxFee)
	if err != nil {
		return nil, err
	}
	l.logSubmitted("invoke", function, txHash)
	return txHash, nil
}

// SubmitCall runs a read-only call against the latest block
func (l *LedgerClient) SubmitCall(ctx context.Context, address *felt.Felt, function string, args []*felt.Felt) ([]*felt.Felt, error) {
	req := functionCall{
		ContractAddress:    address,
		EntryPointSelector: SelectorFromName(function),
		Calldata:           lo.Ternary(args == nil, []*felt.Felt{}, args),
	}

	var result []*felt.Felt
	if err := l.rpc.Call(ctx, &result, "starknet_call", req, blockLatest); err != nil {
		return nil, err
	}
	return result, nil
}

// ClassHashAt returns the class deployed at address, or nil when no contract
// lives there
func (l *LedgerClient) ClassHashAt(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	var classHash *felt.Felt
	err := l.rpc.Call(ctx, &classHash, "starknet_getClassHashAt", blockLatest, address)
	if rpcCode(err) == codeContractNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return classHash, nil
}

// TransactionReceipt fetches the receipt of a transaction. A transaction the
// node does not know yet yields a NOT_RECEIVED receipt rather than an error.
func (l *LedgerClient) TransactionReceipt(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
	var r *receipt
	err := l.rpc.Call(ctx, &r, "starknet_getTransactionReceipt", txHash)
	if code := rpcCode(err); code == codeTxnHashNotFound || code == codeInvalidTxnHash {
		r, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	if r == nil {
		return &models.Receipt{
			TransactionHash: txHash.String(),
			Status:          models.TransactionStatusNotReceived,
		}, nil
	}
	return r.toModel(txHash), nil
}

// execute signs and sends an __execute__ invoke with a single call
func (l *LedgerClient) execute(ctx context.Context, call Call, maxFee *felt.Felt) (*felt.Felt, error) {
	calldata := ExecuteCalldata([]Call{call}, l.cairoVersion)

	var result invokeResult
	err := l.withNonce(ctx, func(chainID, nonce *felt.Felt) error {
		txHash := InvokeTransactionHash(l.signer.Address(), calldata, maxFee, chainID, nonce)
		sig, err := l.signer.Sign(txHash)
		if err != nil {
			return err
		}

		tx := invokeTxn{
			Type:          "INVOKE",
			SenderAddress: l.signer.Address(),
			Calldata:      calldata,
			MaxFee:        maxFee,
			Version:       "0x1",
			Signature:     sig.Felts(),
			Nonce:         nonce,
		}
		return l.rpc.Call(ctx, &result, "starknet_addInvokeTransaction", tx)
	})
	if err != nil {
		return nil, err
	}
	return result.TransactionHash, nil
}

// withNonce runs submit with the next account nonce while holding the nonce
// lock. The node nonce lags behind transactions that are not yet in a block,
// so the last nonce used by this process is taken into account.
func (l *LedgerClient) withNonce(ctx context.Context, submit func(chainID, nonce *felt.Felt) error) error {
	chainID, err := l.rpc.ChainID(ctx)
	if err != nil {
		return err
	}

	l.nonceMu.Lock()
	defer l.nonceMu.Unlock()

	var nonce felt.Felt
	if err := l.rpc.Call(ctx, &nonce, "starknet_getNonce", blockLatest, l.signer.Address()); err != nil {
		return err
	}

	next := &nonce
	if l.lastNonce != nil && l.lastNonce.BigInt().Cmp(nonce.BigInt()) >= 0 {
		next = new(felt.Felt).Add(l.lastNonce, felt.FromUint64(1))
	}

	if err := submit(chainID, next); err != nil {
		if rpcCode(err) == codeInvalidTxnNonce {
			l.lastNonce = nil
		}
		return err
	}
	l.lastNonce = next
	return nil
}

func (l *LedgerClient) logSubmitted(kind, subject string, txHash *felt.Felt) {
	if txHash == nil {
		return
	}
	l.log.Info("transaction submitted", "kind", kind, "subject", subject,
		"tx", txHash.String(), "url", TransactionURL(l.explorerURL, txHash))
}

// TransactionURL links a transaction on the block explorer
func TransactionURL(explorerURL string, txHash *felt.Felt) string {
	return fmt.Sprintf("%s/tx/%s", explorerURL, txHash.Padded())
}

// compressProgram encodes a program the way the node expects it in a
// deprecated contract class: gzip, then base64
func compressProgram(program []byte) (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(program); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func nonNilEntryPoints(eps models.EntryPointsByType) models.EntryPointsByType {
	orEmpty := func(in []models.EntryPoint) []models.EntryPoint {
		return lo.Ternary(in == nil, []models.EntryPoint{}, in)
	}
	return models.EntryPointsByType{
		Constructor: orEmpty(eps.Constructor),
		External:    orEmpty(eps.External),
		L1Handler:   orEmpty(eps.L1Handler),
	}
}

// randomSalt draws a salt below 2^251
func randomSalt() (*felt.Felt, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, err
	}
	b[0] &= 0x03
	return felt.FromBytes(b[:]), nil
}
