package auth

import "strings"

// Identity is the caller as asserted by the identity provider.
// The ledger trusts it as given and never authenticates on its own.
type Identity struct {
	UID      string
	Name     string
	PhotoURL string
}

// Valid reports whether the identity carries a uid.
func (i Identity) Valid() bool {
	return strings.TrimSpace(i.UID) != ""
}

// DisplayName falls back to the uid when the provider sent no name.
func (i Identity) DisplayName() string {
	if name := strings.TrimSpace(i.Name); name != "" {
		return name
	}
	return i.UID
}
