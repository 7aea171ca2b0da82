package noncereuse

import (
	"context"

	"github.com/keylifter/keylifter/pkg/ecgroup"
)

// ScanForNonceReuse sweeps a signature dump for pairs with identical r
// components and recovers the shared nonce and secret exponent of every
// usable pair. Degenerate pairs (identical signatures, or signatures over
// the same signed value) are skipped rather than reported as errors.
//
// compressedPub is optional; when present, each recovered secret exponent is
// checked against it and the result's Verified field set accordingly.
//
// The context is consulted between outer iterations so that scans over large
// dumps can be cancelled; on cancellation the results found so far are
// returned together with the context's error.
func ScanForNonceReuse(ctx context.Context, gen *ecgroup.Generator, signatures []*Signature, compressedPub []byte) ([]*RecoveryResult, error) {
	var results []*RecoveryResult

	for i := 0; i < len(signatures); i++ {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		for j := i + 1; j < len(signatures); j++ {
			if signatures[i].R.Cmp(signatures[j].R) != 0 {
				continue
			}

			secret, nonce, err := RecoverKeyPair(gen, signatures[i], signatures[j])
			if err != nil {
				continue
			}

			verified := false
			if len(compressedPub) > 0 {
				verified = gen.PublicKeyMatches(secret, compressedPub)
			}

			results = append(results, &RecoveryResult{
				SecretExponent: secret,
				Nonce:          nonce,
				SignaturePair:  [2]int{i, j},
				Verified:       verified,
			})
		}
	}

	return results, nil
}
