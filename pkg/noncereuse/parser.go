package noncereuse

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/keylifter/keylifter/pkg/ecgroup"
)

// SignatureParser parses signatures from an external source.
type SignatureParser interface {
	ParseSignatures(source string) ([]*Signature, error)
}

// JSONParser reads signatures from a JSON file of the form
//
//	[
//	  {"z": "0x...", "r": "0x...", "s": "0x..."},
//	  {"message": "...", "r": "123...", "s": "456..."}
//	]
//
// Each entry must carry either an explicit signed value z or a message, which
// is then hashed with SHA-256 and reduced into the scalar field. Integer
// fields accept decimal strings, hex strings (with or without 0x), and bare
// JSON numbers.
type JSONParser struct {
	// Generator reduces hashed messages into the scalar field.
	// Defaults to secp256k1 when nil.
	Generator *ecgroup.Generator
}

// ParseSignatures implements SignatureParser.
func (p *JSONParser) ParseSignatures(jsonFile string) ([]*Signature, error) {
	gen := p.Generator
	if gen == nil {
		gen = ecgroup.Secp256k1()
	}

	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.UseNumber() // preserve large numbers instead of float64

	var items []struct {
		Message string `json:"message"`
		Z       any    `json:"z"`
		R       any    `json:"r"`
		S       any    `json:"s"`
	}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	signatures := make([]*Signature, 0, len(items))
	for i, item := range items {
		sig := &Signature{}

		switch {
		case item.Z != nil:
			z, err := parseBigInt(item.Z)
			if err != nil {
				return nil, fmt.Errorf("entry %d: failed to parse z: %w", i, err)
			}
			sig.Z = z
		case item.Message != "":
			digest := sha256.Sum256([]byte(item.Message))
			sig.Z = gen.HashToInt(digest[:])
		default:
			return nil, fmt.Errorf("entry %d: missing z or message field", i)
		}

		if sig.R, err = parseBigInt(item.R); err != nil {
			return nil, fmt.Errorf("entry %d: failed to parse r: %w", i, err)
		}
		if sig.S, err = parseBigInt(item.S); err != nil {
			return nil, fmt.Errorf("entry %d: failed to parse s: %w", i, err)
		}

		signatures = append(signatures, sig)
	}

	return signatures, nil
}

// parseBigInt parses an integer from a decoded JSON value: a decimal or hex
// string, or a bare number.
func parseBigInt(val any) (*big.Int, error) {
	switch v := val.(type) {
	case string:
		s := strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
		base := 10
		if len(s) != len(v) || strings.ContainsAny(s, "abcdefABCDEF") {
			base = 16
		}
		n, ok := new(big.Int).SetString(s, base)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", v)
		}
		return n, nil
	case json.Number:
		n, ok := new(big.Int).SetString(string(v), 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", v)
		}
		return n, nil
	case nil:
		return nil, fmt.Errorf("missing value")
	default:
		return nil, fmt.Errorf("unsupported type %T", val)
	}
}
