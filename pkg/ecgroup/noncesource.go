package ecgroup

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// NonceSource supplies per-signature nonces to Sign. Implementations must
// return a scalar in [1, order-1]; Sign redraws on degenerate values.
type NonceSource interface {
	Nonce(order *big.Int) (*big.Int, error)
}

type randomNonce struct{}

// RandomNonce returns the production nonce source: uniformly random scalars
// from crypto/rand using the rejection sampling procedure of FIPS 186-4,
// Appendix B.5.2.
func RandomNonce() NonceSource {
	return randomNonce{}
}

func (randomNonce) Nonce(order *big.Int) (*big.Int, error) {
	b := make([]byte, (order.BitLen()+7)/8)
	for {
		if _, err := io.ReadFull(rand.Reader, b); err != nil {
			return nil, err
		}
		if excess := len(b)*8 - order.BitLen(); excess > 0 {
			b[0] >>= excess
		}
		k := new(big.Int).SetBytes(b)
		if k.Sign() != 0 && k.Cmp(order) < 0 {
			return k, nil
		}
	}
}

type fixedNonce struct {
	k *big.Int
}

// FixedNonce returns a nonce source that always yields k. It exists so that
// tests and fixtures can construct signatures with a chosen nonce; it must
// never be used for real signing, since a repeated nonce is exactly the
// weakness the noncereuse package exploits.
func FixedNonce(k *big.Int) NonceSource {
	return fixedNonce{k: new(big.Int).Set(k)}
}

func (f fixedNonce) Nonce(order *big.Int) (*big.Int, error) {
	if f.k.Sign() <= 0 || f.k.Cmp(order) >= 0 {
		return nil, fmt.Errorf("fixed nonce %s is outside [1, order-1]", f.k.Text(10))
	}
	return new(big.Int).Set(f.k), nil
}
