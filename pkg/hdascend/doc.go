// Package hdascend reverses BIP32 public (non-hardened) derivation: given an
// extended public node and the private scalar of one of its publicly derived
// descendants, it recovers the node's own private scalar.
//
// Public derivation computes child = (parent + offset) mod n where the offset
// depends only on the parent's compressed public key, its chain code, and the
// child index, none of which are secret. Anyone holding an extended public
// key and any one descendant private key can therefore subtract their way
// back up the tree:
//
//	parent = (child - offset) mod n
//
// AscendOneLevel performs one such step; AscendPath walks an arbitrary
// slash-separated path from the deepest index upward and reconstructs the
// ancestor's full private node. Hardened derivation commits to the parent's
// private key instead and is not invertible this way; hardened indices are
// rejected.
package hdascend
