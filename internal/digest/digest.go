// Package digest provides the one-way answer digests used to keep correct
// answers out of memory after a question bank is loaded.
//
// A digest is a deterrent against reading answers off the screen or out of
// a bank dump. It is not an integrity or authentication mechanism.
package digest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm names accepted by New.
const (
	SHA256     = "sha256"
	SHA3_256   = "sha3-256"
	BLAKE2b256 = "blake2b-256"
)

// Default is the algorithm used when none is configured.
const Default = SHA256

// ErrUnsupportedAlgorithm is returned by New for an unknown algorithm name.
var ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")

// Digester computes a lowercase hex digest of answer text.
type Digester interface {
	// Digest returns the hex-encoded digest of text.
	Digest(ctx context.Context, text string) (string, error)

	// Algorithm returns the algorithm name.
	Algorithm() string
}

// Func adapts a plain function to the Digester interface.
type Func struct {
	Name string
	Fn   func(ctx context.Context, text string) (string, error)
}

func (f Func) Digest(ctx context.Context, text string) (string, error) {
	return f.Fn(ctx, text)
}

func (f Func) Algorithm() string {
	return f.Name
}

// hashDigester wraps a hash constructor from the standard library or x/crypto.
type hashDigester struct {
	name    string
	newHash func() (hash.Hash, error)
}

// New returns a Digester for the named algorithm. Names are case-insensitive.
func New(name string) (Digester, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SHA256:
		return &hashDigester{name: SHA256, newHash: func() (hash.Hash, error) { return sha256.New(), nil }}, nil
	case SHA3_256:
		return &hashDigester{name: SHA3_256, newHash: func() (hash.Hash, error) { return sha3.New256(), nil }}, nil
	case BLAKE2b256:
		return &hashDigester{name: BLAKE2b256, newHash: func() (hash.Hash, error) { return blake2b.New256(nil) }}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
}

// Algorithms lists every name New accepts.
func Algorithms() []string {
	return []string{SHA256, SHA3_256, BLAKE2b256}
}

func (d *hashDigester) Digest(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h, err := d.newHash()
	if err != nil {
		return "", fmt.Errorf("init %s: %w", d.name, err)
	}
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (d *hashDigester) Algorithm() string {
	return d.name
}

// Equal reports whether two hex digests match. Both sides are expected to be
// lowercase; the comparison is byte-exact.
func Equal(a, b string) bool {
	return a != "" && a == b
}
