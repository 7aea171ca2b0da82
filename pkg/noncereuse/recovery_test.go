package noncereuse

import (
	"errors"
	"math/big"
	"testing"

	"github.com/keylifter/keylifter/pkg/ecgroup"
)

// signFixed builds a signature over val with a caller-chosen nonce.
func signFixed(t *testing.T, gen *ecgroup.Generator, secret, val, nonce *big.Int) *Signature {
	t.Helper()
	r, s, err := gen.Sign(secret, val, ecgroup.FixedNonce(nonce))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	return &Signature{Z: val, R: r, S: s}
}

func TestRecoverSecretExponentFromKnownNonce(t *testing.T) {
	gen := ecgroup.Secp256k1()

	k := big.NewInt(105)
	secret := big.NewInt(181919191)
	val := big.NewInt(488819181819384)

	sig := signFixed(t, gen, secret, val, k)

	recovered, err := RecoverSecretExponent(gen, sig, k)
	if err != nil {
		t.Fatalf("RecoverSecretExponent failed: %v", err)
	}
	if recovered.Cmp(secret) != 0 {
		t.Errorf("recovered %s, want %s", recovered.Text(10), secret.Text(10))
	}
}

func TestRecoverNonceFromTwoSignatures(t *testing.T) {
	gen := ecgroup.Secp256k1()

	k := big.NewInt(105)
	secret := big.NewInt(181919191)
	val1 := big.NewInt(488819181819384)
	val2 := big.NewInt(588819181819384)

	sig1 := signFixed(t, gen, secret, val1, k)
	sig2 := signFixed(t, gen, secret, val2, k)

	recoveredK, err := RecoverNonce(gen, sig1, sig2)
	if err != nil {
		t.Fatalf("RecoverNonce failed: %v", err)
	}
	if recoveredK.Cmp(k) != 0 {
		t.Errorf("recovered nonce %s, want %s", recoveredK.Text(10), k.Text(10))
	}

	// Feeding the recovered nonce back yields the secret exponent.
	recoveredSE, err := RecoverSecretExponent(gen, sig1, recoveredK)
	if err != nil {
		t.Fatalf("RecoverSecretExponent failed: %v", err)
	}
	if recoveredSE.Cmp(secret) != 0 {
		t.Errorf("recovered secret %s, want %s", recoveredSE.Text(10), secret.Text(10))
	}
}

func TestRecoverKeyPair(t *testing.T) {
	gen := ecgroup.Secp256k1()

	k := big.NewInt(105)
	secret := big.NewInt(181919191)

	sig1 := signFixed(t, gen, secret, big.NewInt(488819181819384), k)
	sig2 := signFixed(t, gen, secret, big.NewInt(588819181819384), k)

	recoveredSE, recoveredK, err := RecoverKeyPair(gen, sig1, sig2)
	if err != nil {
		t.Fatalf("RecoverKeyPair failed: %v", err)
	}
	if recoveredK.Cmp(k) != 0 {
		t.Errorf("recovered nonce %s, want %s", recoveredK.Text(10), k.Text(10))
	}
	if recoveredSE.Cmp(secret) != 0 {
		t.Errorf("recovered secret %s, want %s", recoveredSE.Text(10), secret.Text(10))
	}
}

func TestRecoverNonceMismatchedR(t *testing.T) {
	gen := ecgroup.Secp256k1()

	secret := big.NewInt(181919191)
	sig1 := signFixed(t, gen, secret, big.NewInt(488819181819384), big.NewInt(105))
	sig2 := signFixed(t, gen, secret, big.NewInt(588819181819384), big.NewInt(106))

	if sig1.R.Cmp(sig2.R) == 0 {
		t.Fatal("distinct nonces unexpectedly produced identical r values")
	}

	if _, err := RecoverNonce(gen, sig1, sig2); !errors.Is(err, ErrMismatchedR) {
		t.Errorf("error = %v, want ErrMismatchedR", err)
	}
}

func TestRecoverNonceDegeneratePair(t *testing.T) {
	gen := ecgroup.Secp256k1()

	sig := signFixed(t, gen, big.NewInt(181919191), big.NewInt(488819181819384), big.NewInt(105))

	// An identical pair makes the divisor s1*r2 - r1*s2 vanish.
	if _, err := RecoverNonce(gen, sig, sig); !errors.Is(err, ErrDegeneratePair) {
		t.Errorf("error = %v, want ErrDegeneratePair", err)
	}
}

func TestRecoverSecretExponentNonInvertibleR(t *testing.T) {
	gen := ecgroup.Secp256k1()

	sig := &Signature{
		Z: big.NewInt(488819181819384),
		R: new(big.Int).Set(gen.Order()), // congruent to zero
		S: big.NewInt(12345),
	}

	if _, err := RecoverSecretExponent(gen, sig, big.NewInt(105)); !errors.Is(err, ecgroup.ErrNotInvertible) {
		t.Errorf("error = %v, want ErrNotInvertible", err)
	}
}
