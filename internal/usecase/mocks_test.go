package usecase_test

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// MockLedgerClient is a mock implementation of LedgerClient
type MockLedgerClient struct {
	mock.Mock
}

func (m *MockLedgerClient) ChainID(ctx context.Context) (*felt.Felt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}

func (m *MockLedgerClient) Account(ctx context.Context) (*usecase.AccountInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AccountInfo), args.Error(1)
}

func (m *MockLedgerClient) SubmitDeclare(ctx context.Context, artifact *models.ContractArtifact, maxFee *felt.Felt) (*usecase.SubmittedDeclare, error) {
	args := m.Called(ctx, artifact, maxFee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SubmittedDeclare), args.Error(1)
}

func (m *MockLedgerClient) SubmitDeploy(ctx context.Context, classHash *felt.Felt, ctorArgs []*felt.Felt, maxFee *felt.Felt) (*usecase.SubmittedDeploy, error) {
	args := m.Called(ctx, classHash, ctorArgs, maxFee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SubmittedDeploy), args.Error(1)
}

func (m *MockLedgerClient) SubmitInvoke(ctx context.Context, address *felt.Felt, function string, fnArgs []*felt.Felt, maxFee *felt.Felt) (*felt.Felt, error) {
	args := m.Called(ctx, address, function, fnArgs, maxFee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}

func (m *MockLedgerClient) SubmitCall(ctx context.Context, address *felt.Felt, function string, fnArgs []*felt.Felt) ([]*felt.Felt, error) {
	args := m.Called(ctx, address, function, fnArgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*felt.Felt), args.Error(1)
}

func (m *MockLedgerClient) ClassHashAt(ctx context.Context, address *felt.Felt) (*felt.Felt, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*felt.Felt), args.Error(1)
}

func (m *MockLedgerClient) TransactionReceipt(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

// MockFinalityPoller is a mock implementation of FinalityPoller
type MockFinalityPoller struct {
	mock.Mock
}

func (m *MockFinalityPoller) AwaitFinality(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

func (m *MockProgressSink) stages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Stage
	}
	return out
}

// fakeIndex resolves names from a fixed set of sources
type fakeIndex struct {
	sources map[string][]string
	err     error
}

func (f *fakeIndex) Resolve(_ context.Context, name string) (*models.ContractSource, error) {
	paths := f.sources[name]
	if len(paths) != 1 {
		return nil, &domain.ContractLookupError{Name: name, Matches: paths}
	}
	return &models.ContractSource{Name: name, Path: paths[0]}, nil
}

func (f *fakeIndex) List(context.Context) ([]*models.ContractSource, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.ContractSource
	for name, paths := range f.sources {
		if len(paths) == 1 {
			out = append(out, &models.ContractSource{Name: name, Path: paths[0]})
		}
	}
	return out, nil
}

func (f *fakeIndex) Duplicates(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []string
	for name, paths := range f.sources {
		if len(paths) > 1 {
			out = append(out, name)
		}
	}
	return out, nil
}

// fakeCompiler produces artifacts in memory. Contracts listed in failures
// fail to compile.
type fakeCompiler struct {
	mu       sync.Mutex
	buildDir string
	built    map[string]*models.ContractArtifact
	failures map[string]bool
	compiled []string
}

func newFakeCompiler(buildDir string) *fakeCompiler {
	return &fakeCompiler{buildDir: buildDir, built: map[string]*models.ContractArtifact{}, failures: map[string]bool{}}
}

func (f *fakeCompiler) Compile(_ context.Context, source *models.ContractSource) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compiled = append(f.compiled, source.Name)
	if f.failures[source.Name] {
		return "", &domain.CompilationError{Name: source.Name, Stderr: "syntax error"}
	}
	f.built[source.Name] = &models.ContractArtifact{
		Name:    source.Name,
		Path:    f.ArtifactPath(source.Name),
		Program: []byte(fmt.Sprintf(`{"main_scope": %q}`, source.Name)),
	}
	return f.ArtifactPath(source.Name), nil
}

func (f *fakeCompiler) ArtifactPath(name string) string {
	return filepath.Join(f.buildDir, name+".json")
}

func (f *fakeCompiler) LoadArtifact(_ context.Context, name string) (*models.ContractArtifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	artifact, ok := f.built[name]
	if !ok {
		return nil, fmt.Errorf("failed to read artifact: %w", fs.ErrNotExist)
	}
	return artifact, nil
}

// fakeHasher derives a class hash from the artifact name
type fakeHasher struct{}

func (fakeHasher) ClassHash(artifact *models.ContractArtifact) (*felt.Felt, error) {
	return felt.FromBytes([]byte(artifact.Name)), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(t *testing.T) *config.RuntimeConfig {
	t.Helper()
	root := t.TempDir()
	return &config.RuntimeConfig{
		ProjectRoot:    root,
		SourceDir:      filepath.Join(root, "src"),
		BuildDir:       filepath.Join(root, "build"),
		DeploymentsDir: filepath.Join(root, "deployments"),
		MaxFee:         felt.FromUint64(1000),
		Concurrency:    2,
		NonInteractive: true,
	}
}
