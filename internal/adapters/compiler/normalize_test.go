package compiler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawArtifact = `{
  "abi": [{"name": "balance", "type": "function", "inputs": [], "outputs": [{"name": "res", "type": "felt"}]}],
  "entry_points_by_type": {
    "CONSTRUCTOR": [{"offset": 55, "selector": "0x28ffe4ff0f226a9107253e17a904099aa4f63a02a5621de0576e5aa71bc5194"}],
    "EXTERNAL": [
      {"offset": 0, "selector": "0x362398bec32bc0ebb411203221a35a0301193a96f317ebe5e40be9f60d15320"},
      {"offset": 255, "selector": "0x39e11d48192e4333233c7eb19d10ad67c362bb28580c604d67884c85da39695"}
    ],
    "L1_HANDLER": [],
    "extra": {"nested": [1, -2, 3.5, true, null, "7"]}
  },
  "program": {"data": ["0x40780017fff7fff", 12], "prime": "0x800000000000011000000000000000000000000000000000000000000000001", "debug_info": null, "main_scope": "__main__", "html": "<b>&"}
}`

func decode(t *testing.T, doc []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(doc, &out))
	return out
}

func TestNormalizeArtifact_HexesEntryPoints(t *testing.T) {
	out, err := NormalizeArtifact([]byte(rawArtifact))
	require.NoError(t, err)

	doc := decode(t, out)
	eps := doc["entry_points_by_type"].(map[string]any)

	ctor := eps["CONSTRUCTOR"].([]any)[0].(map[string]any)
	assert.Equal(t, "0x37", ctor["offset"])

	external := eps["EXTERNAL"].([]any)
	assert.Equal(t, "0x0", external[0].(map[string]any)["offset"])
	assert.Equal(t, "0xff", external[1].(map[string]any)["offset"])
	assert.Equal(t, []any{}, eps["L1_HANDLER"])

	nested := eps["extra"].(map[string]any)["nested"].([]any)
	assert.Equal(t, "0x1", nested[0])
	assert.Equal(t, float64(-2), nested[1], "negative integers are untouched")
	assert.Equal(t, 3.5, nested[2], "non-integers are untouched")
	assert.Equal(t, true, nested[3])
	assert.Nil(t, nested[4])
	assert.Equal(t, "7", nested[5], "strings are untouched")
}

func TestNormalizeArtifact_LeavesOtherSectionsAlone(t *testing.T) {
	out, err := NormalizeArtifact([]byte(rawArtifact))
	require.NoError(t, err)

	doc := decode(t, out)
	program := doc["program"].(map[string]any)
	assert.Equal(t, float64(12), program["data"].([]any)[1])
	assert.Equal(t, "<b>&", program["html"])
	assert.Contains(t, string(out), `"html": "<b>&"`, "HTML is not escaped")
}

func TestNormalizeArtifact_Idempotent(t *testing.T) {
	once, err := NormalizeArtifact([]byte(rawArtifact))
	require.NoError(t, err)

	twice, err := NormalizeArtifact(once)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}

func TestNormalizeArtifact_LargeIntegers(t *testing.T) {
	doc := `{"entry_points_by_type": {"EXTERNAL": [{"offset": 123456789012345678901234567890}]}}`
	out, err := NormalizeArtifact([]byte(doc))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"0x18ee90ff6c373e0ee4e3f0ad2"`)
}

func TestNormalizeArtifact_Invalid(t *testing.T) {
	_, err := NormalizeArtifact([]byte(`not json`))
	assert.Error(t, err)

	_, err = NormalizeArtifact([]byte(`null`))
	assert.Error(t, err)
}

func TestNormalizeEntryPoints_GoValues(t *testing.T) {
	in := map[string]any{"a": []any{10, int64(-1), uint64(16), "x"}}
	out := NormalizeEntryPoints(in).(map[string]any)
	assert.Equal(t, []any{"0xa", int64(-1), "0x10", "x"}, out["a"])
}
