package starknet

import (
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	pedersenhash "github.com/consensys/gnark-crypto/ecc/stark-curve/pedersen-hash"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"golang.org/x/crypto/sha3"
)

var (
	// Transaction hash prefixes
	prefixInvoke  = felt.FromBytes([]byte("invoke"))
	prefixDeclare = felt.FromBytes([]byte("declare"))

	// contractAddressPrefix is "STARKNET_CONTRACT_ADDRESS" as a short string
	contractAddressPrefix = felt.FromBytes([]byte("STARKNET_CONTRACT_ADDRESS"))
)

// Pedersen hashes two field elements
func Pedersen(a, b *felt.Felt) *felt.Felt {
	h := pedersenhash.Pedersen(a.Impl(), b.Impl())
	return felt.New(&h)
}

// PedersenArray hashes a sequence: a left fold starting at zero, finished
// with the element count
func PedersenArray(elems ...*felt.Felt) *felt.Felt {
	var digest fp.Element
	for _, e := range elems {
		digest = pedersenhash.Pedersen(&digest, e.Impl())
	}
	count := new(fp.Element).SetUint64(uint64(len(elems)))
	digest = pedersenhash.Pedersen(&digest, count)
	return felt.New(&digest)
}

// StarknetKeccak is keccak256 truncated to 250 bits
func StarknetKeccak(data []byte) *felt.Felt {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	d := h.Sum(nil)
	d[0] &= 0x03
	return felt.FromBytes(d)
}

const (
	defaultEntryPointName   = "__default__"
	defaultL1EntryPointName = "__l1_default__"
)

// SelectorFromName returns the entry point selector of a function name
func SelectorFromName(name string) *felt.Felt {
	if name == defaultEntryPointName || name == defaultL1EntryPointName {
		return new(felt.Felt)
	}
	return StarknetKeccak([]byte(name))
}

// ContractAddress computes the address of a contract deployed by caller
func ContractAddress(caller, classHash, salt *felt.Felt, ctorCalldata []*felt.Felt) *felt.Felt {
	return PedersenArray(
		contractAddressPrefix,
		caller,
		salt,
		classHash,
		PedersenArray(ctorCalldata...),
	)
}

// transactionHashV1 computes the hash of a version 1 invoke or declare
func transactionHashV1(prefix, sender *felt.Felt, calldata []*felt.Felt, maxFee, chainID, nonce *felt.Felt) *felt.Felt {
	return PedersenArray(
		prefix,
		felt.FromUint64(1),
		sender,
		new(felt.Felt),
		PedersenArray(calldata...),
		maxFee,
		chainID,
		nonce,
	)
}

// InvokeTransactionHash computes the v1 invoke transaction hash
func InvokeTransactionHash(sender *felt.Felt, calldata []*felt.Felt, maxFee, chainID, nonce *felt.Felt) *felt.Felt {
	return transactionHashV1(prefixInvoke, sender, calldata, maxFee, chainID, nonce)
}

// DeclareTransactionHash computes the v1 declare transaction hash
func DeclareTransactionHash(sender, classHash, maxFee, chainID, nonce *felt.Felt) *felt.Felt {
	return transactionHashV1(prefixDeclare, sender, []*felt.Felt{classHash}, maxFee, chainID, nonce)
}
