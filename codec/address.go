// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
)

const (
	AddressLen = 33

	// NamedAddressID prefixes addresses derived from a human readable name.
	NamedAddressID uint8 = 0x0

	addressPrefix = "0x"
)

// Address is the opaque identity of a caller. The zero value is never a
// valid owner.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	var a Address
	a[0] = typeID
	copy(a[1:], id[:])
	return a
}

// NamedAddress deterministically derives an address from [name]. It is how
// plans and the CLI refer to callers without managing keys.
func NamedAddress(name string) Address {
	return CreateAddress(NamedAddressID, ids.ID(hashing.ComputeHash256Array([]byte(name))))
}

// ParseAddress accepts either a 0x-prefixed hex address or a name, in which
// case the address is derived with [NamedAddress].
func ParseAddress(s string) (Address, error) {
	if strings.HasPrefix(s, addressPrefix) {
		return StringToAddress(s)
	}
	if len(s) == 0 {
		return EmptyAddress, ErrInvalidAddress
	}
	return NamedAddress(s), nil
}

// StringToAddress decodes the 0x-prefixed hex form of an address.
func StringToAddress(s string) (Address, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, addressPrefix))
	if err != nil {
		return EmptyAddress, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(b) != AddressLen {
		return EmptyAddress, fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidAddress, AddressLen, len(b))
	}
	return Address(b), nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return addressPrefix + hex.EncodeToString(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := StringToAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
