package hdkeychain

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BIP32 test vector 1 master keys.
const (
	testVec1SeedHex    = "000102030405060708090a0b0c0d0e0f"
	testVec1MasterPriv = "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi"
	testVec1MasterPub  = "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8"
)

func testMaster(t *testing.T) *ExtendedKey {
	t.Helper()
	seed, err := hex.DecodeString(testVec1SeedHex)
	require.NoError(t, err)
	master, err := NewMaster(seed, MainNet)
	require.NoError(t, err)
	return master
}

func TestNewMasterVector1(t *testing.T) {
	master := testMaster(t)

	assert.Equal(t, testVec1MasterPriv, master.String())
	assert.Equal(t, testVec1MasterPub, master.Neuter().String())
	assert.True(t, master.IsPrivate())
	assert.Equal(t, uint8(0), master.Depth())
	assert.Equal(t, []byte{0, 0, 0, 0}, master.ParentFingerprint())
}

func TestNewMasterSeedBounds(t *testing.T) {
	_, err := NewMaster(make([]byte, MinSeedBytes-1), MainNet)
	assert.ErrorIs(t, err, ErrInvalidSeedLen)

	_, err = NewMaster(make([]byte, MaxSeedBytes+1), MainNet)
	assert.ErrorIs(t, err, ErrInvalidSeedLen)
}

func TestChildMetadata(t *testing.T) {
	master := testMaster(t)

	child, err := master.Child(7)
	require.NoError(t, err)

	assert.Equal(t, uint8(1), child.Depth())
	assert.Equal(t, uint32(7), child.ChildIndex())
	assert.True(t, child.IsPrivate())
	assert.Equal(t, hash160(master.PubKeyBytes())[:4], child.ParentFingerprint())
	assert.Len(t, child.ChainCode(), 32)
	assert.Len(t, child.PubKeyBytes(), 33)
}

func TestNeuterChildCommutes(t *testing.T) {
	master := testMaster(t)

	for _, i := range []uint32{0, 1, 7, 9} {
		privChild, err := master.Child(i)
		require.NoError(t, err)

		pubChild, err := master.Neuter().Child(i)
		require.NoError(t, err)

		assert.Equal(t, privChild.Neuter().String(), pubChild.String(),
			"neuter-then-derive and derive-then-neuter must agree at index %d", i)
	}
}

func TestHardenedChildFromPublic(t *testing.T) {
	master := testMaster(t)

	_, err := master.Neuter().Child(HardenedKeyStart)
	assert.ErrorIs(t, err, ErrDeriveHardFromPublic)

	// A private parent can derive hardened children.
	_, err = master.Child(HardenedKeyStart)
	assert.NoError(t, err)
}

func TestSecretExponentOnPublicKey(t *testing.T) {
	master := testMaster(t)

	_, err := master.Neuter().SecretExponent()
	assert.ErrorIs(t, err, ErrNotPrivExtKey)

	se, err := master.SecretExponent()
	require.NoError(t, err)
	assert.Positive(t, se.Sign())
}

func TestDerivePathMatchesChainedChild(t *testing.T) {
	master := testMaster(t)

	byPath, err := master.DerivePath("0/1/7/9")
	require.NoError(t, err)

	node := master
	for _, i := range []uint32{0, 1, 7, 9} {
		node, err = node.Child(i)
		require.NoError(t, err)
	}

	assert.Equal(t, node.String(), byPath.String())
	assert.Equal(t, uint8(4), byPath.Depth())
}

func TestDerivePathEmpty(t *testing.T) {
	master := testMaster(t)

	same, err := master.DerivePath("")
	require.NoError(t, err)
	assert.Equal(t, master.String(), same.String())
}

func TestSerializeParseRoundTrip(t *testing.T) {
	master := testMaster(t)

	node, err := master.DerivePath("0/1")
	require.NoError(t, err)

	for _, key := range []*ExtendedKey{node, node.Neuter()} {
		parsed, err := ParseExtendedKey(key.String(), MainNet)
		require.NoError(t, err)

		assert.Equal(t, key.String(), parsed.String())
		assert.Equal(t, key.IsPrivate(), parsed.IsPrivate())
		assert.Equal(t, key.Depth(), parsed.Depth())
		assert.Equal(t, key.ChildIndex(), parsed.ChildIndex())
		assert.Equal(t, key.ChainCode(), parsed.ChainCode())
		assert.Equal(t, key.ParentFingerprint(), parsed.ParentFingerprint())
		assert.Equal(t, key.PubKeyBytes(), parsed.PubKeyBytes())
	}
}

func TestParseExtendedKeyRejectsGarbage(t *testing.T) {
	_, err := ParseExtendedKey("notakey", MainNet)
	assert.ErrorIs(t, err, ErrInvalidKeyLen)

	master := testMaster(t)
	serialized := master.String()

	// Corrupt one character; the checksum must catch it.
	corrupted := []byte(serialized)
	if corrupted[10] == 'a' {
		corrupted[10] = 'b'
	} else {
		corrupted[10] = 'a'
	}
	_, err = ParseExtendedKey(string(corrupted), MainNet)
	assert.Error(t, err)

	// A foreign network's magic is rejected.
	other := &Network{
		HDPrivateKeyID: [4]byte{0x04, 0x35, 0x83, 0x94}, // tprv
		HDPublicKeyID:  [4]byte{0x04, 0x35, 0x87, 0xcf}, // tpub
	}
	_, err = ParseExtendedKey(serialized, other)
	assert.ErrorIs(t, err, ErrWrongNetwork)
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path    string
		want    []uint32
		wantErr bool
	}{
		{path: "", want: nil},
		{path: "0", want: []uint32{0}},
		{path: "0/1/7/9", want: []uint32{0, 1, 7, 9}},
		{path: "m/0/1", want: []uint32{0, 1}},
		{path: "M/44/0", want: []uint32{44, 0}},
		{path: "0'/1", want: []uint32{HardenedKeyStart, 1}},
		{path: "0h/1H", want: []uint32{HardenedKeyStart, HardenedKeyStart + 1}},
		{path: "2147483647", want: []uint32{2147483647}},
		{path: "2147483648", want: []uint32{HardenedKeyStart}},
		{path: "0//1", wantErr: true},
		{path: "/0", wantErr: true},
		{path: "0/", wantErr: true},
		{path: "a/b", wantErr: true},
		{path: "-1", wantErr: true},
		{path: "4294967296", wantErr: true},
		{path: "2147483648'", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePath(tt.path)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrMalformedPath, "path %q", tt.path)
			continue
		}
		require.NoError(t, err, "path %q", tt.path)
		assert.Equal(t, tt.want, got, "path %q", tt.path)
	}
}
