package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/sourcegraph/conc/iter"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
)

// CompileResult is the outcome of compiling one contract
type CompileResult struct {
	Name         string
	Source       string
	ArtifactPath string
	Err          error
}

// CompileContracts is the use case for building contract artifacts
type CompileContracts struct {
	config   *config.RuntimeConfig
	resolver *ResolveContract
	index    ContractIndex
	compiler ArtifactCompiler
	log      *slog.Logger
	sink     ProgressSink
}

// NewCompileContracts creates a new CompileContracts use case
func NewCompileContracts(
	cfg *config.RuntimeConfig,
	resolver *ResolveContract,
	index ContractIndex,
	compiler ArtifactCompiler,
	log *slog.Logger,
	sink ProgressSink,
) *CompileContracts {
	return &CompileContracts{
		config:   cfg,
		resolver: resolver,
		index:    index,
		compiler: compiler,
		log:      log.With("component", "CompileContracts"),
		sink:     sink,
	}
}

// Compile builds the artifact of a single contract
func (uc *CompileContracts) Compile(ctx context.Context, name string) (*CompileResult, error) {
	source, err := uc.resolver.Run(ctx, name)
	if err != nil {
		return nil, err
	}
	return uc.compileSource(ctx, source)
}

// CompileAll builds every indexed contract. A failure is recorded on the
// contract's result and the remaining contracts are still compiled. A stem
// shared by several sources gets a result carrying its lookup error.
func (uc *CompileContracts) CompileAll(ctx context.Context) ([]*CompileResult, error) {
	sources, err := uc.index.List(ctx)
	if err != nil {
		return nil, err
	}
	duplicates, err := uc.index.Duplicates(ctx)
	if err != nil {
		return nil, err
	}

	total := len(sources) + len(duplicates)
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompiling),
		Total:   total,
		Message: fmt.Sprintf("Compiling %d contracts", len(sources)),
		Spinner: true,
	})

	mapper := iter.Mapper[*models.ContractSource, *CompileResult]{MaxGoroutines: uc.config.Concurrency}
	results := mapper.Map(sources, func(source **models.ContractSource) *CompileResult {
		result, err := uc.compileSource(ctx, *source)
		if err != nil {
			uc.log.Error("compilation failed", "contract", (*source).Name, "error", err)
			return &CompileResult{Name: (*source).Name, Source: (*source).Path, Err: err}
		}
		return result
	})

	for _, name := range duplicates {
		_, err := uc.index.Resolve(ctx, name)
		if err == nil {
			err = &domain.ContractLookupError{Name: name}
		}
		uc.log.Error("ambiguous contract name", "contract", name, "error", err)
		results = append(results, &CompileResult{Name: name, Err: err})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompleted),
		Current: len(results),
		Total:   total,
		Message: "Compilation finished",
	})
	return results, nil
}

// EnsureArtifact returns the artifact of name, compiling it first when it has
// not been built yet
func (uc *CompileContracts) EnsureArtifact(ctx context.Context, name string) (*models.ContractArtifact, error) {
	artifact, err := uc.compiler.LoadArtifact(ctx, name)
	if err == nil {
		return artifact, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	uc.log.Debug("artifact missing, compiling", "contract", name)
	if _, err := uc.Compile(ctx, name); err != nil {
		return nil, err
	}
	return uc.compiler.LoadArtifact(ctx, name)
}

func (uc *CompileContracts) compileSource(ctx context.Context, source *models.ContractSource) (*CompileResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompiling),
		Message: fmt.Sprintf("Compiling %s", source.Name),
		Spinner: true,
	})

	path, err := uc.compiler.Compile(ctx, source)
	if err != nil {
		return nil, err
	}

	uc.log.Info("compiled contract", "contract", source.Name, "artifact", path)
	return &CompileResult{Name: source.Name, Source: source.Path, ArtifactPath: path}, nil
}
