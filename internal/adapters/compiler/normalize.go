package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// EntryPointsKey is the artifact section rewritten by NormalizeArtifact
const EntryPointsKey = "entry_points_by_type"

// NormalizeArtifact rewrites every non-negative integer under
// entry_points_by_type as a lowercase 0x hex string and re-encodes the
// document with sorted keys and two-space indentation. Running it on its own
// output returns identical bytes.
func NormalizeArtifact(doc []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	var artifact map[string]any
	if err := dec.Decode(&artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}
	if artifact == nil {
		return nil, fmt.Errorf("artifact is not a JSON object")
	}

	if eps, ok := artifact[EntryPointsKey]; ok {
		artifact[EntryPointsKey] = NormalizeEntryPoints(eps)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		return nil, fmt.Errorf("failed to encode artifact: %w", err)
	}
	return buf.Bytes(), nil
}

// NormalizeEntryPoints walks a decoded JSON value. Maps and slices keep their
// shape; non-negative integer numbers become hex strings; negative integers,
// non-integers, strings, booleans and nulls are returned unchanged.
func NormalizeEntryPoints(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			val[k] = NormalizeEntryPoints(child)
		}
		return val
	case []any:
		for i, child := range val {
			val[i] = NormalizeEntryPoints(child)
		}
		return val
	case json.Number:
		if n, ok := new(big.Int).SetString(val.String(), 10); ok && n.Sign() >= 0 {
			return "0x" + n.Text(16)
		}
		return val
	case int:
		if val >= 0 {
			return fmt.Sprintf("0x%x", val)
		}
		return val
	case int64:
		if val >= 0 {
			return fmt.Sprintf("0x%x", val)
		}
		return val
	case uint64:
		return fmt.Sprintf("0x%x", val)
	default:
		return v
	}
}
