package noncereuse

import "math/big"

// Signature represents an ECDSA signature together with the scalar it signs.
type Signature struct {
	Z *big.Int // signed value (message hash reduced into the scalar field)
	R *big.Int // r component of the signature
	S *big.Int // s component of the signature
}

// RecoveryResult describes one compromised key found by ScanForNonceReuse.
type RecoveryResult struct {
	SecretExponent *big.Int // recovered private scalar
	Nonce          *big.Int // shared nonce of the colliding pair
	SignaturePair  [2]int   // indices of the signatures used
	Verified       bool     // recovered key matched the supplied public key
}
