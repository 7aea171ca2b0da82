package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/keylifter/keylifter/pkg/ecgroup"
	"github.com/keylifter/keylifter/pkg/hdascend"
	"github.com/keylifter/keylifter/pkg/hdkeychain"
	"github.com/keylifter/keylifter/pkg/noncereuse"
)

func main() {
	var (
		signaturesFile = flag.String("signatures", "", "Path to a JSON signature file to scan for nonce reuse")
		publicKey      = flag.String("public-key", "", "Compressed public key in hex for verifying recovered keys")
		knownNonce     = flag.String("nonce", "", "Known nonce (decimal or 0x-hex); recovers the key from the first signature in -signatures")
		xpub           = flag.String("xpub", "", "Serialized extended public key to ascend to")
		childKey       = flag.String("child-key", "", "Known secret exponent (decimal or 0x-hex) of the descendant at -path")
		path           = flag.String("path", "", "Derivation path from the extended public key to the known descendant, e.g. 0/1/7/9")
	)
	flag.Parse()

	gen := ecgroup.Secp256k1()

	switch {
	case *xpub != "":
		if *childKey == "" {
			fatalf("Error: -child-key is required with -xpub\n")
		}
		runAscend(gen, *xpub, *childKey, *path)

	case *signaturesFile != "":
		signatures := loadSignatures(gen, *signaturesFile)
		if *knownNonce != "" {
			runKnownNonce(gen, signatures, *knownNonce)
		} else {
			runScan(gen, signatures, *publicKey)
		}

	default:
		fmt.Fprintf(os.Stderr, "Error: either -signatures or -xpub is required\n")
		flag.Usage()
		os.Exit(1)
	}
}

func runScan(gen *ecgroup.Generator, signatures []*noncereuse.Signature, publicKeyHex string) {
	var compressedPub []byte
	if publicKeyHex != "" {
		pub, err := hex.DecodeString(strings.TrimPrefix(publicKeyHex, "0x"))
		if err != nil {
			fatalf("Error: bad -public-key: %v\n", err)
		}
		compressedPub = pub
	}

	fmt.Printf("Scanning %d signatures for nonce reuse...\n", len(signatures))
	results, err := noncereuse.ScanForNonceReuse(context.Background(), gen, signatures, compressedPub)
	if err != nil {
		fatalf("Error: %v\n", err)
	}
	if len(results) == 0 {
		fmt.Println("No reused nonces found")
		return
	}

	for _, result := range results {
		fmt.Printf("\n[+] Recovered private key from signatures %d and %d:\n", result.SignaturePair[0], result.SignaturePair[1])
		fmt.Printf("    Private key: %s\n", result.SecretExponent.String())
		fmt.Printf("    Shared nonce: %s\n", result.Nonce.String())
		if result.Verified {
			fmt.Println("    Verified against public key")
		}
	}
}

func runKnownNonce(gen *ecgroup.Generator, signatures []*noncereuse.Signature, nonceStr string) {
	nonce, err := parseScalar(nonceStr)
	if err != nil {
		fatalf("Error: bad -nonce: %v\n", err)
	}
	if len(signatures) == 0 {
		fatalf("Error: signature file is empty\n")
	}

	secret, err := noncereuse.RecoverSecretExponent(gen, signatures[0], nonce)
	if err != nil {
		fatalf("Error: %v\n", err)
	}

	fmt.Printf("[+] Recovered private key: %s\n", secret.String())
}

func runAscend(gen *ecgroup.Generator, xpub, childKeyStr, path string) {
	node, err := hdkeychain.ParseExtendedKey(xpub, hdkeychain.MainNet)
	if err != nil {
		fatalf("Error: bad -xpub: %v\n", err)
	}

	childSecret, err := parseScalar(childKeyStr)
	if err != nil {
		fatalf("Error: bad -child-key: %v\n", err)
	}

	recovered, err := hdascend.AscendPath(gen, node, childSecret, path)
	if err != nil {
		fatalf("Error: %v\n", err)
	}

	secret, err := recovered.SecretExponent()
	if err != nil {
		fatalf("Error: %v\n", err)
	}

	fmt.Println("[+] Recovered ancestor private key:")
	fmt.Printf("    Extended key: %s\n", recovered.String())
	fmt.Printf("    Secret exponent: 0x%064x\n", secret)
}

func loadSignatures(gen *ecgroup.Generator, file string) []*noncereuse.Signature {
	parser := &noncereuse.JSONParser{Generator: gen}
	signatures, err := parser.ParseSignatures(file)
	if err != nil {
		fatalf("Error: %v\n", err)
	}
	return signatures
}

// parseScalar accepts a decimal or 0x-prefixed hex integer.
func parseScalar(s string) (*big.Int, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
