package starknet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

// The generator's x coordinate is the public key of private key 1
const generatorX = "0x1ef15c18599971b7beced415a40f0c7deacfd9b0d1819e03d723d8bc943cfca"

func TestStarkSigner_PublicKey(t *testing.T) {
	signer, err := NewStarkSigner("0x1234", "0x1")
	require.NoError(t, err)

	assert.Equal(t, generatorX, signer.PublicKey().String())
	assert.Equal(t, "0x1234", signer.Address().String())
}

func TestStarkSigner_VerifiesKnownSignature(t *testing.T) {
	signer, err := NewStarkSigner("0x1", "0x1")
	require.NoError(t, err)

	sig := &Signature{
		R: felt.MustFromString("0x0411494b501a98abd8262b0da1351e17899a0c4ef23dd2f96fec5ba847310b20"),
		S: felt.MustFromString("0x0405c3191ab3883ef2b763af35bc5f5d15b3b4e99461d70e84c654a351a7c81b"),
	}
	assert.True(t, signer.Verify(felt.FromUint64(2), sig))
	assert.False(t, signer.Verify(felt.FromUint64(3), sig))
}

func TestStarkSigner_SignRoundTrip(t *testing.T) {
	signer, err := NewStarkSigner("0x1", "0x4a1e7a6e1d0f5b2b4f0a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	require.NoError(t, err)

	msg := felt.MustFromString("0x5e7dfbfd6fbe2bbf3bca5ba7b0cd4dcc3bc2e1d5b8d6cf4c0b8a5b8e2d2b1a1")
	for i := 0; i < 3; i++ {
		sig, err := signer.Sign(msg)
		require.NoError(t, err)
		assert.True(t, signer.Verify(msg, sig))
		assert.Len(t, sig.Felts(), 2)
	}
}

func TestStarkSigner_RejectsOversizedHash(t *testing.T) {
	signer, err := NewStarkSigner("0x1", "0x2")
	require.NoError(t, err)

	_, err = signer.Sign(felt.MustFromString("0x800000000000000000000000000000000000000000000000000000000000000"))
	assert.Error(t, err)
}

func TestNewStarkSigner_Invalid(t *testing.T) {
	tests := []struct {
		name, address, key string
	}{
		{"bad address", "nope", "0x1"},
		{"bad key", "0x1", "zz"},
		{"zero key", "0x1", "0x0"},
		{"key above curve order", "0x1", "0x800000000000010ffffffffffffffffb781126dcae7b2321e66a241adc64d2f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStarkSigner(tt.address, tt.key)
			assert.ErrorIs(t, err, domain.ErrMissingSigner)
		})
	}
}
