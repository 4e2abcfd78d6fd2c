package models

import (
	"encoding/json"
	"strings"
)

type PasswordKind int

const (
	// PasswordHashed holds a bcrypt digest.
	PasswordHashed PasswordKind = iota
	// PasswordPlaintext holds a legacy clear-text value, used by the seeded
	// admin account until someone replaces it.
	PasswordPlaintext
)

const bcryptPrefix = "$2"

// Password is a stored credential. It is persisted as a single JSON string;
// the kind is recovered from the value on load.
type Password struct {
	Kind  PasswordKind
	Value string
}

func HashedPassword(digest string) Password {
	return Password{Kind: PasswordHashed, Value: digest}
}

func PlaintextPassword(value string) Password {
	return Password{Kind: PasswordPlaintext, Value: value}
}

// ParsePassword classifies a stored value by its bcrypt prefix.
func ParsePassword(stored string) Password {
	if strings.HasPrefix(stored, bcryptPrefix) {
		return HashedPassword(stored)
	}
	return PlaintextPassword(stored)
}

func (p Password) IsZero() bool {
	return p.Value == ""
}

func (p Password) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value)
}

func (p *Password) UnmarshalJSON(data []byte) error {
	var stored string
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}

	*p = ParsePassword(stored)
	return nil
}
