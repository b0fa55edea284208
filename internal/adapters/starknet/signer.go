package starknet

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	starkcurve "github.com/consensys/gnark-crypto/ecc/stark-curve"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

// ecdsaBound is the exclusive upper bound for message hashes and signature
// components
var ecdsaBound = new(big.Int).Lsh(big.NewInt(1), 251)

// Signature is a Stark-curve ECDSA signature
type Signature struct {
	R *felt.Felt
	S *felt.Felt
}

// Felts returns the signature in transaction order
func (s *Signature) Felts() []*felt.Felt {
	return []*felt.Felt{s.R, s.S}
}

// StarkSigner holds the account identity and signs transaction hashes
type StarkSigner struct {
	address    *felt.Felt
	privateKey *big.Int
	publicKey  starkcurve.G1Affine
	rand       io.Reader
}

// NewStarkSigner parses the account address and private key
func NewStarkSigner(address, privateKey string) (*StarkSigner, error) {
	addr, err := felt.FromString(address)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid account address: %v", domain.ErrMissingSigner, err)
	}
	key, err := felt.FromString(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid private key", domain.ErrMissingSigner)
	}

	priv := key.BigInt()
	if priv.Sign() == 0 || priv.Cmp(fr.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: private key out of range", domain.ErrMissingSigner)
	}

	_, g := starkcurve.Generators()
	var pub starkcurve.G1Affine
	pub.ScalarMultiplication(&g, priv)

	return &StarkSigner{
		address:    addr,
		privateKey: priv,
		publicKey:  pub,
		rand:       rand.Reader,
	}, nil
}

// Address returns the account contract address
func (s *StarkSigner) Address() *felt.Felt {
	return s.address
}

// PublicKey returns the x coordinate of the public key
func (s *StarkSigner) PublicKey() *felt.Felt {
	return felt.New(&s.publicKey.X)
}

// Sign signs a message hash with a random nonce
func (s *StarkSigner) Sign(msgHash *felt.Felt) (*Signature, error) {
	z := msgHash.BigInt()
	if z.Cmp(ecdsaBound) >= 0 {
		return nil, errors.New("message hash out of range")
	}

	n := fr.Modulus()
	_, g := starkcurve.Generators()

	for {
		k, err := rand.Int(s.rand, n)
		if err != nil {
			return nil, fmt.Errorf("failed to draw nonce: %w", err)
		}
		if k.Sign() == 0 {
			continue
		}

		var kG starkcurve.G1Affine
		kG.ScalarMultiplication(&g, k)
		r := kG.X.BigInt(new(big.Int))
		if r.Sign() == 0 || r.Cmp(ecdsaBound) >= 0 {
			continue
		}

		// s = (z + r*priv) / k mod n
		sum := new(big.Int).Mul(r, s.privateKey)
		sum.Add(sum, z)
		sum.Mod(sum, n)
		if sum.Sign() == 0 {
			continue
		}
		sig := new(big.Int).ModInverse(k, n)
		sig.Mul(sig, sum)
		sig.Mod(sig, n)

		// w = 1/s must also fit in 251 bits
		w := new(big.Int).ModInverse(sig, n)
		if w == nil || w.Sign() == 0 || w.Cmp(ecdsaBound) >= 0 {
			continue
		}

		rf, err := felt.FromBigInt(r)
		if err != nil {
			return nil, err
		}
		sf, err := felt.FromBigInt(sig)
		if err != nil {
			return nil, err
		}
		return &Signature{R: rf, S: sf}, nil
	}
}

// Verify checks sig against msgHash for this signer's public key
func (s *StarkSigner) Verify(msgHash *felt.Felt, sig *Signature) bool {
	return verify(&s.publicKey, msgHash, sig)
}

// verify checks the signature against the public key and its negation,
// since only the x coordinate of a key is published
func verify(pub *starkcurve.G1Affine, msgHash *felt.Felt, sig *Signature) bool {
	n := fr.Modulus()
	z := msgHash.BigInt()
	r := sig.R.BigInt()
	sVal := sig.S.BigInt()

	if z.Cmp(ecdsaBound) >= 0 || r.Sign() == 0 || r.Cmp(ecdsaBound) >= 0 || sVal.Sign() == 0 || sVal.Cmp(n) >= 0 {
		return false
	}
	w := new(big.Int).ModInverse(sVal, n)
	if w == nil || w.Cmp(ecdsaBound) >= 0 {
		return false
	}

	u1 := new(big.Int).Mul(z, w)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, n)

	_, g := starkcurve.Generators()
	var a, b starkcurve.G1Affine
	a.ScalarMultiplication(&g, u1)
	b.ScalarMultiplication(pub, u2)

	negB := b
	negB.Y.Neg(&b.Y)

	for _, q := range []*starkcurve.G1Affine{&b, &negB} {
		var acc, qJac starkcurve.G1Jac
		acc.FromAffine(&a)
		qJac.FromAffine(q)
		acc.AddAssign(&qJac)

		var res starkcurve.G1Affine
		res.FromJacobian(&acc)
		if res.X.BigInt(new(big.Int)).Cmp(r) == 0 {
			return true
		}
	}
	return false
}
