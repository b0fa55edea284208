package usecase

import (
	"context"

	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

// ClassHashResult pairs the local class hash with the recorded one
type ClassHashResult struct {
	Name      string
	ClassHash *felt.Felt
	Recorded  string // Empty when the class-hash registry has no entry
}

// Matches reports whether the registry holds the computed hash
func (r *ClassHashResult) Matches() bool {
	recorded, err := felt.FromString(r.Recorded)
	return err == nil && recorded.Equal(r.ClassHash)
}

// ComputeClassHash is the use case for computing a class hash offline
type ComputeClassHash struct {
	compile      *CompileContracts
	hasher       ClassHasher
	declarations DeclarationStore
}

// NewComputeClassHash creates a new ComputeClassHash use case
func NewComputeClassHash(compile *CompileContracts, hasher ClassHasher, declarations DeclarationStore) *ComputeClassHash {
	return &ComputeClassHash{
		compile:      compile,
		hasher:       hasher,
		declarations: declarations,
	}
}

// Run computes the class hash of name from its artifact
func (uc *ComputeClassHash) Run(ctx context.Context, name string) (*ClassHashResult, error) {
	artifact, err := uc.compile.EnsureArtifact(ctx, name)
	if err != nil {
		return nil, err
	}
	classHash, err := uc.hasher.ClassHash(artifact)
	if err != nil {
		return nil, err
	}

	result := &ClassHashResult{Name: name, ClassHash: classHash}
	if declarations, err := uc.declarations.Load(ctx); err == nil {
		result.Recorded = declarations[name]
	}
	return result, nil
}
