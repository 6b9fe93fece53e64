// internal/nodeid/address.go
package nodeid

// String serializes the Address into its canonical `node.port` form.
func (a Address) String() string {
	if a.IsZero() {
		return ""
	}
	return a.Node + "." + a.Port
}

// Equal checks whether two addresses name the same port.
func (a Address) Equal(other Address) bool {
	return a == other
}

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a == Address{}
}
