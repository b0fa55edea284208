package domain

import "strings"

// IsAccountContract reports whether a contract must be compiled as an account
// contract. The rule is a naming convention: any contract whose name contains
// "account", in any case, is an account.
func IsAccountContract(name string) bool {
	return strings.Contains(strings.ToLower(name), "account")
}
