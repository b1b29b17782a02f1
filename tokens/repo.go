package tokens

import "errors"

// ErrNoTokens is returned by Load when no pair has been stored.
var ErrNoTokens = errors.New("tokens: no stored pair")

// Store persists the single active token pair. Implementations must be safe
// for concurrent use. Save overwrites any previous pair; Clear removes both
// tokens together and is a no-op when nothing is stored.
type Store interface {
	Save(pair Pair) error
	Load() (Pair, error)
	Clear() error
}
