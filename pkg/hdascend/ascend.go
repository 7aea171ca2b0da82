package hdascend

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/keylifter/keylifter/pkg/ecgroup"
	"github.com/keylifter/keylifter/pkg/hdkeychain"
)

var (
	// ErrHardenedIndex is returned when a hardened child index is passed
	// where only public (non-hardened) derivation can be reversed.
	ErrHardenedIndex = errors.New("hardened derivation cannot be ascended")

	// ErrDegenerateKey is returned by AscendPath when the recovered
	// scalar is zero, which is not a usable private key.
	ErrDegenerateKey = errors.New("recovered secret exponent is zero")
)

// AscendOneLevel recovers the secret exponent of parent from the known
// secret exponent of its publicly derived child at childIndex.
//
// The per-child offset is rebuilt exactly as public derivation builds it:
// HMAC-SHA512 keyed by the parent's chain code over the parent's 33-byte
// compressed public key followed by the big-endian child index, left 32
// bytes taken as a big-endian integer. The parent scalar is then
// (childSecret - offset) mod n.
//
// childIndex must be non-hardened; hardened derivation commits to the
// parent's private key and is rejected with ErrHardenedIndex. The result may
// in principle be zero, which callers should treat as degenerate.
func AscendOneLevel(gen *ecgroup.Generator, parent *hdkeychain.ExtendedKey, childSecret *big.Int, childIndex uint32) (*big.Int, error) {
	if childIndex >= hdkeychain.HardenedKeyStart {
		return nil, fmt.Errorf("%w: index %d", ErrHardenedIndex, childIndex)
	}

	// serP(parentPubKey) || ser32(childIndex)
	pubKey := parent.PubKeyBytes()
	data := make([]byte, len(pubKey)+4)
	copy(data, pubKey)
	binary.BigEndian.PutUint32(data[len(pubKey):], childIndex)

	mac := hmac.New(sha512.New, parent.ChainCode())
	mac.Write(data)
	ilr := mac.Sum(nil)

	offset := new(big.Int).SetBytes(ilr[:len(ilr)/2])

	parentSecret := new(big.Int).Sub(childSecret, offset)
	parentSecret.Mod(parentSecret, gen.Order())
	return parentSecret, nil
}

// AscendPath recovers the full private node for a public extended key, given
// the secret exponent of the descendant reached from it by path (for example
// "0/1/7/9").
//
// Indices are consumed from the deepest level upward: at each step the
// public sub-node for the remaining path prefix acts as the parent in an
// AscendOneLevel call, and the recovered scalar becomes the known secret for
// the next shallower step. The returned node carries node's network, chain
// code, depth, parent fingerprint and child index together with the
// recovered secret exponent, so its serialized private form matches the
// original private node byte for byte.
func AscendPath(gen *ecgroup.Generator, node *hdkeychain.ExtendedKey, descendantSecret *big.Int, path string) (*hdkeychain.ExtendedKey, error) {
	indices, err := hdkeychain.ParsePath(path)
	if err != nil {
		return nil, err
	}

	// Public sub-nodes along the path; chain[i] is the parent for the
	// ascension step that consumes indices[i].
	chain := make([]*hdkeychain.ExtendedKey, len(indices))
	sub := node.Neuter()
	for i, idx := range indices {
		chain[i] = sub
		if i == len(indices)-1 {
			break
		}
		if sub, err = sub.Child(idx); err != nil {
			return nil, fmt.Errorf("deriving sub-node at level %d: %w", i+1, err)
		}
	}

	secret := new(big.Int).Set(descendantSecret)
	for i := len(indices) - 1; i >= 0; i-- {
		if secret, err = AscendOneLevel(gen, chain[i], secret, indices[i]); err != nil {
			return nil, err
		}
	}

	if secret.Sign() == 0 {
		return nil, ErrDegenerateKey
	}

	key := secret.FillBytes(make([]byte, 32))
	return hdkeychain.NewExtendedKey(node.Network(), key, node.ChainCode(),
		node.ParentFingerprint(), node.Depth(), node.ChildIndex(), true), nil
}
