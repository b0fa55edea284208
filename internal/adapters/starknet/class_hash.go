package starknet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// program is the part of a Cairo 0 program the class hash reads directly
type program struct {
	Builtins []string `json:"builtins"`
	Data     []string `json:"data"`
}

// ClassHasher computes Cairo 0 class hashes without talking to the node
type ClassHasher struct{}

// NewClassHasher creates a class hasher
func NewClassHasher() *ClassHasher {
	return &ClassHasher{}
}

// ClassHash computes the deprecated (Cairo 0) class hash of an artifact
func (ClassHasher) ClassHash(artifact *models.ContractArtifact) (*felt.Felt, error) {
	return Cairo0ClassHash(artifact)
}

// Cairo0ClassHash hashes the entry points, builtins, hinted class hash and
// bytecode of a compiled Cairo 0 class
func Cairo0ClassHash(artifact *models.ContractArtifact) (*felt.Felt, error) {
	var prog program
	if err := json.Unmarshal(artifact.Program, &prog); err != nil {
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}

	builtins := make([]*felt.Felt, len(prog.Builtins))
	for i, b := range prog.Builtins {
		builtins[i] = felt.FromBytes([]byte(b))
	}

	data, err := felt.ParseAll(prog.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid program data: %w", err)
	}

	hinted, err := HintedClassHash(artifact.ABI, artifact.Program)
	if err != nil {
		return nil, err
	}

	eps := artifact.EntryPointsByType
	return PedersenArray(
		new(felt.Felt), // API version
		entryPointsHash(eps.External),
		entryPointsHash(eps.L1Handler),
		entryPointsHash(eps.Constructor),
		PedersenArray(builtins...),
		hinted,
		PedersenArray(data...),
	), nil
}

func entryPointsHash(eps []models.EntryPoint) *felt.Felt {
	elems := make([]*felt.Felt, 0, 2*len(eps))
	for _, ep := range eps {
		selector, offset := ep.Selector, ep.Offset
		if selector == nil {
			selector = new(felt.Felt)
		}
		if offset == nil {
			offset = new(felt.Felt)
		}
		elems = append(elems, selector, offset)
	}
	return PedersenArray(elems...)
}

// HintedClassHash is the Starknet keccak of {"abi": ..., "program": ...}
// serialized like cairo-lang does: debug info cleared, empty attribute
// fields and nulls dropped, hints in numeric order.
func HintedClassHash(abi, rawProgram json.RawMessage) (*felt.Felt, error) {
	serialized, err := hintedClassJSON(abi, rawProgram)
	if err != nil {
		return nil, err
	}
	return StarknetKeccak(serialized), nil
}

func hintedClassJSON(abi, rawProgram json.RawMessage) ([]byte, error) {
	prog, err := decodeWithNumbers(rawProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}
	progObj, ok := prog.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("program is not a JSON object")
	}

	var abiVal any = []any{}
	if len(bytes.TrimSpace(abi)) > 0 {
		if abiVal, err = decodeWithNumbers(abi); err != nil {
			return nil, fmt.Errorf("failed to parse abi: %w", err)
		}
	}

	_, hasCompilerVersion := progObj["compiler_version"]
	hasCompilerVersion = hasCompilerVersion && progObj["compiler_version"] != nil

	for key, val := range progObj {
		switch key {
		case "debug_info":
			progObj[key] = nil
		case "hints":
			hints, err := orderHints(val)
			if err != nil {
				return nil, err
			}
			progObj[key] = hints
		default:
			stripped := stripProgramValue(key, val, key == "identifiers" && !hasCompilerVersion)
			if stripped == nil {
				delete(progObj, key)
				continue
			}
			progObj[key] = stripped
		}
	}
	if _, ok := progObj["debug_info"]; !ok {
		progObj["debug_info"] = nil
	}

	doc := map[string]any{
		"abi":     stripProgramValue("", abiVal, false),
		"program": progObj,
	}
	return pythonJSON(doc)
}

// stripProgramValue removes nulls and the empty attributes,
// accessible_scopes and flow_tracking_data arrays. legacyTypes rewrites
// cairo_type strings to the pre-0.10 "a : felt" spelling.
func stripProgramValue(key string, v any, legacyTypes bool) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			stripped := stripProgramValue(k, child, legacyTypes)
			if stripped == nil {
				delete(val, k)
				continue
			}
			val[k] = stripped
		}
		return val
	case []any:
		if len(val) == 0 && isDroppedWhenEmpty(key) {
			return nil
		}
		for i, child := range val {
			val[i] = stripProgramValue("", child, legacyTypes)
		}
		return val
	case string:
		if legacyTypes && key == "cairo_type" {
			return strings.ReplaceAll(val, ": ", " : ")
		}
		return val
	default:
		return v
	}
}

func isDroppedWhenEmpty(key string) bool {
	switch key {
	case "attributes", "accessible_scopes", "flow_tracking_data":
		return true
	}
	return false
}

// orderHints rebuilds the hints object keyed by ascending program counter
func orderHints(v any) (any, error) {
	hints, ok := v.(map[string]any)
	if !ok {
		return v, nil
	}

	pcs := make([]int, 0, len(hints))
	keys := make(map[int]string, len(hints))
	for k := range hints {
		pc, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("invalid hint key %q: %w", k, err)
		}
		pcs = append(pcs, pc)
		keys[pc] = k
	}
	sort.Ints(pcs)

	ordered := orderedmap.New[string, any]()
	for _, pc := range pcs {
		key := keys[pc]
		ordered.Set(key, stripProgramValue("", hints[key], false))
	}
	return ordered, nil
}

func decodeWithNumbers(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Ensure the hasher implements the interface
var _ usecase.ClassHasher = (*ClassHasher)(nil)
