// Package hdkeychain implements BIP32 hierarchical deterministic extended
// keys with the surface the hdascend package needs: raw chain-code access, a
// secret-exponent accessor, compressed public-key encoding, slash-path
// navigation, and a constructor for rebuilding a private node from recovered
// material.
//
// Derivation follows BIP32 exactly:
//
//   - private parent -> hardened or non-hardened private child
//   - public parent  -> non-hardened public child
//   - public parent  -> hardened child is impossible and rejected
//
// Extended keys serialize to the standard 78-byte base58check form (xprv/xpub
// on MainNet).
package hdkeychain
