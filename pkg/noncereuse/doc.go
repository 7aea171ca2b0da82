// Package noncereuse recovers ECDSA secret material from signatures whose
// nonces were reused or disclosed.
//
// Two closed-form recoveries are provided. When the per-signature nonce k of
// a single signature is known, RecoverSecretExponent solves the signature
// equation for the secret exponent directly. When two signatures over
// different messages share a nonce (detectable by their identical r
// components), RecoverNonce eliminates the secret-exponent term between the
// two signature equations and solves for k; RecoverKeyPair composes the two
// steps into a full key compromise.
//
//	gen := ecgroup.Secp256k1()
//	se, k, err := noncereuse.RecoverKeyPair(gen, sig1, sig2)
//
// ScanForNonceReuse applies the pairwise technique across a whole signature
// dump, grouping by r component.
//
// All operations are pure: they take the group generator explicitly, hold no
// state, and are safe to call concurrently.
package noncereuse
