// Package did provides the DID value type, its parser, and the assembly of
// DID Documents and DID Resolution Results shared by every chain resolver.
package did

import (
	"fmt"
	"strings"
)

const (
	scheme    = "did"
	separator = ":"
)

// Parse splits a DID string into its method, network and address segments.
//
// When expectedNetwork is empty the DID must have three segments
// (did:<method>:<address>), otherwise four (did:<method>:<network>:<address>)
// with the network segment equal to expectedNetwork. The address is returned
// as-is; checking its format is left to the chain's address validator.
//
// Every failure wraps ErrMalformedDID.
func Parse(did, expectedMethod, expectedNetwork string) (*DID, error) {
	parts := strings.Split(did, separator)

	want := 3
	if expectedNetwork != "" {
		want = 4
	}

	if len(parts) != want {
		return nil, fmt.Errorf("%w: expected %d segments, got %d", ErrMalformedDID, want, len(parts))
	}

	if parts[0] != scheme {
		return nil, fmt.Errorf("%w: scheme must be %q", ErrMalformedDID, scheme)
	}

	if parts[1] != expectedMethod {
		return nil, fmt.Errorf("%w: method %q, expected %q", ErrMalformedDID, parts[1], expectedMethod)
	}

	parsed := &DID{Method: parts[1]}

	if expectedNetwork != "" {
		if parts[2] != expectedNetwork {
			return nil, fmt.Errorf("%w: network %q, expected %q", ErrMalformedDID, parts[2], expectedNetwork)
		}
		parsed.Network = parts[2]
	}

	parsed.Address = parts[len(parts)-1]
	if parsed.Address == "" {
		return nil, fmt.Errorf("%w: empty address", ErrMalformedDID)
	}

	return parsed, nil
}

// Method returns the method segment of a DID without validating the rest.
func Method(did string) (string, error) {
	parts := strings.SplitN(did, separator, 3)
	if len(parts) < 3 || parts[0] != scheme || parts[1] == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedDID, did)
	}

	return parts[1], nil
}

// Network returns the network segment of a did:<method>:<network>:<address> DID.
func Network(did string) (string, error) {
	parts := strings.Split(did, separator)
	if len(parts) != 4 || parts[0] != scheme {
		return "", fmt.Errorf("%w: no network segment in %q", ErrMalformedDID, did)
	}

	return parts[2], nil
}

// String renders the DID back to its string form.
func (d *DID) String() string {
	if d.Network == "" {
		return strings.Join([]string{scheme, d.Method, d.Address}, separator)
	}

	return strings.Join([]string{scheme, d.Method, d.Network, d.Address}, separator)
}
