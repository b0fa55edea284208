package starknet

import (
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

// UniversalDeployerAddress is the Universal Deployer Contract used for deploys
var UniversalDeployerAddress = felt.MustFromString("0x041a78e741e5af2fec34b695679bc6891742439f7afb8484ecd7766661ad02bf")

// Call is one contract call inside an account __execute__
type Call struct {
	To       *felt.Felt
	Selector *felt.Felt
	Calldata []*felt.Felt
}

// ExecuteCalldata encodes calls for the account's __execute__ entry point.
// Cairo 0 accounts take a call array followed by the flattened calldata;
// Cairo 1 accounts take each call with its calldata inline.
func ExecuteCalldata(calls []Call, cairoVersion int) []*felt.Felt {
	if cairoVersion == 1 {
		out := []*felt.Felt{felt.FromUint64(uint64(len(calls)))}
		for _, c := range calls {
			out = append(out, c.To, c.Selector, felt.FromUint64(uint64(len(c.Calldata))))
			out = append(out, c.Calldata...)
		}
		return out
	}

	out := []*felt.Felt{felt.FromUint64(uint64(len(calls)))}
	var data []*felt.Felt
	for _, c := range calls {
		out = append(out,
			c.To,
			c.Selector,
			felt.FromUint64(uint64(len(data))),
			felt.FromUint64(uint64(len(c.Calldata))),
		)
		data = append(data, c.Calldata...)
	}
	out = append(out, felt.FromUint64(uint64(len(data))))
	return append(out, data...)
}

// deployContractCall builds the UDC deployContract call. With unique set the
// UDC salts the deployment with the caller address.
func deployContractCall(classHash, salt *felt.Felt, ctorArgs []*felt.Felt) Call {
	calldata := []*felt.Felt{classHash, salt, felt.FromUint64(1), felt.FromUint64(uint64(len(ctorArgs)))}
	return Call{
		To:       UniversalDeployerAddress,
		Selector: SelectorFromName("deployContract"),
		Calldata: append(calldata, ctorArgs...),
	}
}

// udcDeployedAddress is the address the UDC deploys to for a unique deploy
func udcDeployedAddress(deployer, classHash, salt *felt.Felt, ctorArgs []*felt.Felt) *felt.Felt {
	return ContractAddress(UniversalDeployerAddress, classHash, Pedersen(deployer, salt), ctorArgs)
}
