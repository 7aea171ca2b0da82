package ecgroup

import (
	"bytes"
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ErrNotInvertible is returned when a value is congruent to zero modulo the
// group order and therefore has no modular inverse.
var ErrNotInvertible = errors.New("value has no inverse modulo the group order")

// maxSignAttempts bounds the nonce retry loop in Sign so that a degenerate
// deterministic NonceSource cannot spin forever.
const maxSignAttempts = 64

// Generator wraps an elliptic curve group and exposes the scalar-field
// operations the recovery packages depend on. Callers construct one and pass
// it through explicitly.
type Generator struct {
	curve elliptic.Curve
}

// NewGenerator returns a Generator over the given curve.
func NewGenerator(curve elliptic.Curve) *Generator {
	return &Generator{curve: curve}
}

// Secp256k1 returns a Generator over the secp256k1 curve.
func Secp256k1() *Generator {
	return NewGenerator(secp256k1.S256())
}

// Curve returns the underlying curve.
func (g *Generator) Curve() elliptic.Curve {
	return g.curve
}

// Order returns the order n of the curve's base point. All scalar arithmetic
// performed by the recovery packages is modulo this value.
func (g *Generator) Order() *big.Int {
	return g.curve.Params().N
}

// Inverse returns the modular inverse of x modulo the group order. It fails
// with ErrNotInvertible when x is congruent to zero.
func (g *Generator) Inverse(x *big.Int) (*big.Int, error) {
	n := g.Order()
	reduced := new(big.Int).Mod(x, n)
	if reduced.Sign() == 0 {
		return nil, fmt.Errorf("cannot invert %s: %w", x.Text(10), ErrNotInvertible)
	}
	return reduced.ModInverse(reduced, n), nil
}

// HashToInt converts a message hash to a scalar. Per FIPS 186-4, Section 6.4,
// the left-most bits of the hash are used to match the bit length of the
// group order.
func (g *Generator) HashToInt(hash []byte) *big.Int {
	orderBits := g.Order().BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(hash) > orderBytes {
		hash = hash[:orderBytes]
	}

	ret := new(big.Int).SetBytes(hash)
	excess := len(hash)*8 - orderBits
	if excess > 0 {
		ret.Rsh(ret, uint(excess))
	}
	return ret
}

// Sign produces an ECDSA signature (r, s) over the already-reduced value val
// using the given secret exponent and a nonce drawn from src. Nonces that
// lead to a zero r or s component are rejected and redrawn, as in standard
// ECDSA signing.
func (g *Generator) Sign(secret, val *big.Int, src NonceSource) (r, s *big.Int, err error) {
	n := g.Order()
	if secret == nil || new(big.Int).Mod(secret, n).Sign() == 0 {
		return nil, nil, errors.New("secret exponent must be non-zero modulo the group order")
	}

	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		var k *big.Int
		k, err = src.Nonce(n)
		if err != nil {
			return nil, nil, fmt.Errorf("nonce source failed: %w", err)
		}

		k = new(big.Int).Mod(k, n)
		if k.Sign() == 0 {
			continue
		}
		kInv := new(big.Int).ModInverse(k, n)

		rx, _ := g.curve.ScalarBaseMult(k.Bytes())
		r = new(big.Int).Mod(rx, n)
		if r.Sign() == 0 {
			continue
		}

		// s = k^-1 * (val + secret*r) mod n
		s = new(big.Int).Mul(secret, r)
		s.Add(s, val)
		s.Mul(s, kInv)
		s.Mod(s, n)
		if s.Sign() == 0 {
			continue
		}

		return r, s, nil
	}

	return nil, nil, errors.New("nonce source failed to produce a usable nonce")
}

// PublicKeyMatches reports whether the given secret exponent generates the
// public key encoded in compressedPub (SEC compressed form).
func (g *Generator) PublicKeyMatches(secret *big.Int, compressedPub []byte) bool {
	reduced := new(big.Int).Mod(secret, g.Order())
	if reduced.Sign() == 0 {
		return false
	}
	x, y := g.curve.ScalarBaseMult(reduced.Bytes())
	return bytes.Equal(elliptic.MarshalCompressed(g.curve, x, y), compressedPub)
}
