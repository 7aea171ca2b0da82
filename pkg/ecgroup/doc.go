// Package ecgroup provides the scalar-field and signing collaborator used by
// the recovery packages.
//
// A Generator wraps an elliptic curve group and exposes exactly the surface
// the attacks need: the group order, modular inversion, hash truncation, and
// a signing primitive with a caller-injected NonceSource. The curve is always
// passed in explicitly; there is no package-level default generator.
//
//	gen := ecgroup.Secp256k1()
//	r, s, err := gen.Sign(secret, val, ecgroup.RandomNonce())
//
// The NonceSource interface keeps test-only constant nonces type-distinct
// from the random production path:
//
//	r, s, err := gen.Sign(secret, val, ecgroup.FixedNonce(big.NewInt(105)))
package ecgroup
