package hdkeychain

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/ripemd160"
)

const (
	// HardenedKeyStart is the first hardened child index. Indices at or
	// above this value require the parent's private key to derive.
	HardenedKeyStart = 0x80000000

	// MinSeedBytes and MaxSeedBytes bound the master seed length.
	MinSeedBytes = 16 // 128 bits
	MaxSeedBytes = 64 // 512 bits

	// serializedKeyLen is the length of a serialized extended key before
	// the checksum: version (4) || depth (1) || parent fingerprint (4) ||
	// child index (4) || chain code (32) || key data (33).
	serializedKeyLen = 78

	maxDepth = 255
)

var (
	// ErrDeriveHardFromPublic is returned when a hardened child is
	// requested from a public extended key.
	ErrDeriveHardFromPublic = errors.New("cannot derive a hardened key from a public key")

	// ErrDeriveBeyondMaxDepth is returned when derivation would exceed
	// the 255-level limit imposed by the depth field.
	ErrDeriveBeyondMaxDepth = errors.New("cannot derive a key with more than 255 indices in its path")

	// ErrInvalidChild is returned when the derived intermediate scalar
	// falls outside the usable range; the next index should be used.
	ErrInvalidChild = errors.New("the extended key at this index is invalid")

	// ErrNotPrivExtKey is returned when private material is requested
	// from a public extended key.
	ErrNotPrivExtKey = errors.New("unable to create private keys from a public extended key")

	// ErrInvalidSeedLen is returned by NewMaster for out-of-range seeds.
	ErrInvalidSeedLen = fmt.Errorf("seed length must be between %d and %d bits", MinSeedBytes*8, MaxSeedBytes*8)

	// ErrUnusableSeed is returned by NewMaster when the seed hashes to an
	// out-of-range master key.
	ErrUnusableSeed = errors.New("unusable seed")

	// ErrInvalidKeyLen, ErrBadChecksum, ErrWrongNetwork and
	// ErrInvalidPrivateKey are returned by ParseExtendedKey.
	ErrInvalidKeyLen     = errors.New("the provided serialized extended key length is invalid")
	ErrBadChecksum       = errors.New("bad extended key checksum")
	ErrWrongNetwork      = errors.New("the extended key is not for the expected network")
	ErrInvalidPrivateKey = errors.New("the extended key carries an out-of-range private key")
)

// masterKey is the HMAC key used to derive a master node from a seed.
var masterKey = []byte("Bitcoin seed")

// Network carries the serialization magic for one network's extended keys.
type Network struct {
	HDPrivateKeyID [4]byte
	HDPublicKeyID  [4]byte
}

// MainNet serializes keys with the familiar xprv/xpub prefixes.
var MainNet = &Network{
	HDPrivateKeyID: [4]byte{0x04, 0x88, 0xad, 0xe4}, // xprv
	HDPublicKeyID:  [4]byte{0x04, 0x88, 0xb2, 0x1e}, // xpub
}

// ExtendedKey is one node of a BIP32 hierarchy, either private (carrying a
// secret exponent) or public-only. Keys are immutable apart from the cached
// public key encoding.
type ExtendedKey struct {
	network    *Network
	key        []byte // private scalar or compressed public key
	pubKey     []byte // cached compressed public key encoding
	chainCode  []byte
	depth      uint8
	parentFP   []byte
	childIndex uint32
	isPrivate  bool
}

// NewExtendedKey assembles an extended key from raw material. key holds the
// private scalar bytes when isPrivate is set, otherwise the compressed public
// key. It performs no validation; it is intended for reconstructing nodes
// whose fields are already known, such as a recovered ancestor.
func NewExtendedKey(network *Network, key, chainCode, parentFP []byte, depth uint8, childIndex uint32, isPrivate bool) *ExtendedKey {
	return &ExtendedKey{
		network:    network,
		key:        key,
		chainCode:  chainCode,
		depth:      depth,
		parentFP:   parentFP,
		childIndex: childIndex,
		isPrivate:  isPrivate,
	}
}

// NewMaster derives a master private extended key from a seed.
func NewMaster(seed []byte, network *Network) (*ExtendedKey, error) {
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, ErrInvalidSeedLen
	}

	// I = HMAC-SHA512(key="Bitcoin seed", data=seed)
	mac := hmac.New(sha512.New, masterKey)
	mac.Write(seed)
	lr := mac.Sum(nil)

	secretKey := lr[:len(lr)/2]
	chainCode := lr[len(lr)/2:]

	secretNum := new(big.Int).SetBytes(secretKey)
	if secretNum.Sign() == 0 || secretNum.Cmp(btcec.S256().N) >= 0 {
		return nil, ErrUnusableSeed
	}

	parentFP := []byte{0x00, 0x00, 0x00, 0x00}
	return NewExtendedKey(network, secretKey, chainCode, parentFP, 0, 0, true), nil
}

// Network returns the network the key serializes for.
func (k *ExtendedKey) Network() *Network { return k.network }

// Depth returns how many derivation levels separate this key from its master.
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// ParentFingerprint returns the first four bytes of the parent's HASH160.
func (k *ExtendedKey) ParentFingerprint() []byte {
	fp := make([]byte, len(k.parentFP))
	copy(fp, k.parentFP)
	return fp
}

// ChildIndex returns the index this key was derived at.
func (k *ExtendedKey) ChildIndex() uint32 { return k.childIndex }

// IsPrivate reports whether the key carries private material.
func (k *ExtendedKey) IsPrivate() bool { return k.isPrivate }

// ChainCode returns a copy of the chain code shared between this node and
// its direct children.
func (k *ExtendedKey) ChainCode() []byte {
	cc := make([]byte, len(k.chainCode))
	copy(cc, k.chainCode)
	return cc
}

// PubKeyBytes returns the compressed SEC encoding of the node's public key.
func (k *ExtendedKey) PubKeyBytes() []byte {
	if !k.isPrivate {
		return k.key
	}

	if len(k.pubKey) == 0 {
		priv, _ := btcec.PrivKeyFromBytes(paddedScalar(k.key))
		k.pubKey = priv.PubKey().SerializeCompressed()
	}
	return k.pubKey
}

// ECPubKey returns the node's public key as a curve point.
func (k *ExtendedKey) ECPubKey() (*btcec.PublicKey, error) {
	return btcec.ParsePubKey(k.PubKeyBytes())
}

// SecretExponent returns the node's private scalar. It fails with
// ErrNotPrivExtKey for public-only nodes.
func (k *ExtendedKey) SecretExponent() (*big.Int, error) {
	if !k.isPrivate {
		return nil, ErrNotPrivExtKey
	}
	return new(big.Int).SetBytes(k.key), nil
}

// Child derives the extended key at index i, one level deeper.
//
// A private parent yields a private child, hardened or not. A public parent
// yields a public child and only for non-hardened indices; hardened
// derivation from a public key fails with ErrDeriveHardFromPublic.
//
// For roughly 1 in 2^127 indices the derived scalar is unusable and
// ErrInvalidChild is returned; callers should move to the next index.
func (k *ExtendedKey) Child(i uint32) (*ExtendedKey, error) {
	if k.depth == maxDepth {
		return nil, ErrDeriveBeyondMaxDepth
	}

	isHardened := i >= HardenedKeyStart
	if isHardened && !k.isPrivate {
		return nil, ErrDeriveHardFromPublic
	}

	// Hardened children commit to the private key, normal children to the
	// public key:
	//   hardened: 0x00 || ser256(parentPrivKey) || ser32(i)
	//   normal:   serP(parentPubKey) || ser32(i)
	keyLen := 33
	data := make([]byte, keyLen+4)
	if isHardened {
		copy(data[1:], paddedScalar(k.key))
	} else {
		copy(data, k.PubKeyBytes())
	}
	binary.BigEndian.PutUint32(data[keyLen:], i)

	mac := hmac.New(sha512.New, k.chainCode)
	mac.Write(data)
	ilr := mac.Sum(nil)

	il := ilr[:len(ilr)/2]
	childChainCode := ilr[len(ilr)/2:]

	ilNum := new(big.Int).SetBytes(il)
	if ilNum.Cmp(btcec.S256().N) >= 0 || ilNum.Sign() == 0 {
		return nil, ErrInvalidChild
	}

	var childKey []byte
	isPrivate := false
	if k.isPrivate {
		// child = (il + parent) mod n
		keyNum := new(big.Int).SetBytes(k.key)
		ilNum.Add(ilNum, keyNum)
		ilNum.Mod(ilNum, btcec.S256().N)
		if ilNum.Sign() == 0 {
			return nil, ErrInvalidChild
		}
		childKey = ilNum.FillBytes(make([]byte, 32))
		isPrivate = true
	} else {
		// childPoint = il*G + parentPoint
		pub, err := btcec.ParsePubKey(k.key)
		if err != nil {
			return nil, err
		}
		_, ilPub := btcec.PrivKeyFromBytes(il)
		childX, childY := btcec.S256().Add(ilPub.X(), ilPub.Y(), pub.X(), pub.Y())
		if childX.Sign() == 0 && childY.Sign() == 0 {
			return nil, ErrInvalidChild
		}

		var fx, fy btcec.FieldVal
		if overflow := fx.SetByteSlice(childX.Bytes()); overflow {
			return nil, ErrInvalidChild
		}
		if overflow := fy.SetByteSlice(childY.Bytes()); overflow {
			return nil, ErrInvalidChild
		}
		childKey = btcec.NewPublicKey(&fx, &fy).SerializeCompressed()
	}

	parentFP := hash160(k.PubKeyBytes())[:4]
	return NewExtendedKey(k.network, childKey, childChainCode, parentFP, k.depth+1, i, isPrivate), nil
}

// DerivePath derives the descendant at a relative slash-separated path such
// as "0/1/7/9". The empty path returns the key itself.
func (k *ExtendedKey) DerivePath(path string) (*ExtendedKey, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	node := k
	for _, i := range indices {
		node, err = node.Child(i)
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}

// Neuter returns the public-only copy of the key: same chain code, depth,
// parent fingerprint and child index, no private material.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	if !k.isPrivate {
		return k
	}
	return NewExtendedKey(k.network, k.PubKeyBytes(), k.ChainCode(), k.ParentFingerprint(), k.depth, k.childIndex, false)
}

// String serializes the key in the standard base58check extended key form.
func (k *ExtendedKey) String() string {
	version := k.network.HDPublicKeyID
	if k.isPrivate {
		version = k.network.HDPrivateKeyID
	}

	var childIndex [4]byte
	binary.BigEndian.PutUint32(childIndex[:], k.childIndex)

	serialized := make([]byte, 0, serializedKeyLen+4)
	serialized = append(serialized, version[:]...)
	serialized = append(serialized, k.depth)
	serialized = append(serialized, k.parentFP...)
	serialized = append(serialized, childIndex[:]...)
	serialized = append(serialized, k.chainCode...)
	if k.isPrivate {
		serialized = append(serialized, 0x00)
		serialized = append(serialized, paddedScalar(k.key)...)
	} else {
		serialized = append(serialized, k.PubKeyBytes()...)
	}

	checkSum := doubleSha256(serialized)[:4]
	serialized = append(serialized, checkSum...)
	return base58.Encode(serialized)
}

// ParseExtendedKey decodes a serialized extended key and checks it belongs
// to the given network.
func ParseExtendedKey(serialized string, network *Network) (*ExtendedKey, error) {
	decoded := base58.Decode(serialized)
	if len(decoded) != serializedKeyLen+4 {
		return nil, ErrInvalidKeyLen
	}

	payload := decoded[:serializedKeyLen]
	checkSum := decoded[serializedKeyLen:]
	if !bytes.Equal(checkSum, doubleSha256(payload)[:4]) {
		return nil, ErrBadChecksum
	}

	version := payload[:4]
	depth := payload[4]
	parentFP := payload[5:9]
	childIndex := binary.BigEndian.Uint32(payload[9:13])
	chainCode := payload[13:45]
	keyData := payload[45:78]

	isPrivate := bytes.Equal(version, network.HDPrivateKeyID[:])
	if !isPrivate && !bytes.Equal(version, network.HDPublicKeyID[:]) {
		return nil, ErrWrongNetwork
	}

	var key []byte
	if isPrivate {
		if keyData[0] != 0x00 {
			return nil, ErrInvalidPrivateKey
		}
		key = keyData[1:]
		keyNum := new(big.Int).SetBytes(key)
		if keyNum.Sign() == 0 || keyNum.Cmp(btcec.S256().N) >= 0 {
			return nil, ErrInvalidPrivateKey
		}
	} else {
		if _, err := btcec.ParsePubKey(keyData); err != nil {
			return nil, err
		}
		key = keyData
	}

	return NewExtendedKey(network, key, chainCode, parentFP, depth, childIndex, isPrivate), nil
}

// paddedScalar left-pads private key material to the 32 bytes the curve
// libraries and the serialization format expect.
func paddedScalar(key []byte) []byte {
	return new(big.Int).SetBytes(key).FillBytes(make([]byte, 32))
}

// hash160 is RIPEMD160(SHA256(b)), used for key fingerprints.
func hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}

func doubleSha256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}
