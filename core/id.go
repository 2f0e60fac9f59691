// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package core

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

// ID is a document-store identifier: 12 bytes, rendered as a 24 character
// hex string. The layout follows the common object-id convention, a big-endian
// unix timestamp followed by a per-process random value and a counter.
type ID [12]byte

// NilID is the zero identifier
var NilID ID

var (
	idProcess [5]byte
	idCounter uint32
)

func init() {
	if _, err := rand.Read(idProcess[:]); err != nil {
		panic(err)
	}
	var seed [4]byte
	if _, err := rand.Read(seed[:]); err != nil {
		panic(err)
	}
	idCounter = binary.BigEndian.Uint32(seed[:])
}

// NewID generates a new unique identifier
func NewID() ID {
	var id ID
	binary.BigEndian.PutUint32(id[0:4], uint32(time.Now().Unix()))
	copy(id[4:9], idProcess[:])
	n := atomic.AddUint32(&idCounter, 1)
	id[9] = byte(n >> 16)
	id[10] = byte(n >> 8)
	id[11] = byte(n)
	return id
}

// ParseID parses a 24 character hex string into an ID
func ParseID(s string) (ID, error) {
	var id ID
	if len(s) != 24 {
		return NilID, fmt.Errorf("invalid identifier '%s': must be 24 hex characters", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return NilID, fmt.Errorf("invalid identifier '%s': %s", s, err.Error())
	}
	copy(id[:], b)
	return id, nil
}

// IsValidID returns true if v is a well-formed identifier, either an ID or
// its 24 character hex string representation.
func IsValidID(v interface{}) bool {
	switch id := v.(type) {
	case ID:
		return true
	case string:
		_, err := ParseID(id)
		return err == nil
	}
	return false
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalJSON renders the identifier as a quoted hex string
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// UnmarshalJSON parses the identifier from a quoted hex string
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid identifier %s", string(data))
	}
	parsed, err := ParseID(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
