package models

import (
	"encoding/json"

	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

// ContractSource is an indexed contract source file
type ContractSource struct {
	Name string // File stem
	Path string // Path relative to the project root
}

// EntryPoint is one compiled entry point of a Cairo 0 class
type EntryPoint struct {
	Selector *felt.Felt `json:"selector"`
	Offset   *felt.Felt `json:"offset"`
}

// EntryPointsByType groups entry points by kind
type EntryPointsByType struct {
	Constructor []EntryPoint `json:"CONSTRUCTOR"`
	External    []EntryPoint `json:"EXTERNAL"`
	L1Handler   []EntryPoint `json:"L1_HANDLER"`
}

// ContractArtifact is a compiled Cairo 0 contract class. Program and ABI are
// kept as raw documents so hashing sees exactly what the compiler wrote.
type ContractArtifact struct {
	Name              string            `json:"-"`
	Path              string            `json:"-"`
	ABI               json.RawMessage   `json:"abi"`
	EntryPointsByType EntryPointsByType `json:"entry_points_by_type"`
	Program           json.RawMessage   `json:"program"`
}
