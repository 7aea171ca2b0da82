package noncereuse

import (
	"fmt"
	"math/big"

	"github.com/keylifter/keylifter/pkg/ecgroup"
)

// RecoverSecretExponent recovers the secret exponent behind a signature whose
// nonce k is known, by solving the signature equation for the secret:
//
//	s = k^-1 * (z + se*r)  =>  se = (s*k - z) * r^-1 mod n
//
// It fails when the r component has no modular inverse; that cannot happen
// for a validly generated signature but is guarded regardless.
func RecoverSecretExponent(gen *ecgroup.Generator, sig *Signature, nonce *big.Int) (*big.Int, error) {
	rInv, err := gen.Inverse(sig.R)
	if err != nil {
		return nil, fmt.Errorf("r component: %w", err)
	}

	se := new(big.Int).Mul(sig.S, nonce)
	se.Sub(se, sig.Z)
	se.Mul(se, rInv)
	se.Mod(se, gen.Order())

	return se, nil
}

// RecoverNonce recovers the nonce shared by two signatures made with the same
// secret exponent over two different signed values. Because r depends only on
// the nonce, such a pair is recognizable by r1 == r2; the pair of signature
// equations
//
//	k*s1 = z1 + se*r1
//	k*s2 = z2 + se*r2
//
// then eliminates se, giving
//
//	k = (r2*z1 - r1*z2) * (s1*r2 - r1*s2)^-1 mod n
//
// ErrMismatchedR is returned when the r components differ and the technique
// does not apply; ErrDegeneratePair when the divisor vanishes (for example
// two identical signatures).
func RecoverNonce(gen *ecgroup.Generator, sig1, sig2 *Signature) (*big.Int, error) {
	if sig1.R.Cmp(sig2.R) != 0 {
		return nil, ErrMismatchedR
	}

	n := gen.Order()

	// numerator: r2*z1 - r1*z2
	num := new(big.Int).Mul(sig2.R, sig1.Z)
	r1z2 := new(big.Int).Mul(sig1.R, sig2.Z)
	num.Sub(num, r1z2)
	num.Mod(num, n)

	// divisor: s1*r2 - r1*s2
	div := new(big.Int).Mul(sig1.S, sig2.R)
	r1s2 := new(big.Int).Mul(sig1.R, sig2.S)
	div.Sub(div, r1s2)

	divInv, err := gen.Inverse(div)
	if err != nil {
		return nil, fmt.Errorf("%w: s1*r2 - r1*s2 has no inverse", ErrDegeneratePair)
	}

	k := new(big.Int).Mul(num, divInv)
	k.Mod(k, n)

	return k, nil
}

// RecoverKeyPair composes the two recoveries: it extracts the shared nonce
// from a colliding signature pair and then the secret exponent from the first
// signature, yielding a full key compromise.
func RecoverKeyPair(gen *ecgroup.Generator, sig1, sig2 *Signature) (secret, nonce *big.Int, err error) {
	nonce, err = RecoverNonce(gen, sig1, sig2)
	if err != nil {
		return nil, nil, err
	}
	secret, err = RecoverSecretExponent(gen, sig1, nonce)
	if err != nil {
		return nil, nil, err
	}
	return secret, nonce, nil
}
