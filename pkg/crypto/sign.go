// Package crypto wraps the signature primitive the rest of the node treats
// as a black box, per spec.md's Non-goals. It exists only to give
// transaction and hallmark verification a single, swappable seam.
//
// spec.md §3 fixes sender_public_key at 32 bytes and signature at 64
// bytes; that is exactly Ed25519's key/signature geometry, so this package
// wraps the standard library's crypto/ed25519 rather than the teacher's
// secp256k1 dependency (github.com/decred/dcrd/dcrec/secp256k1/v4), whose
// compressed public keys are 33 bytes and would force a wire-incompatible
// reshaping of a field the spec pins exactly. See DESIGN.md for the
// stdlib-vs-third-party justification this entry requires.
package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
)

// PublicKeySize is the length in bytes of a sender public key.
const PublicKeySize = ed25519.PublicKeySize

// SignatureSize is the length in bytes of a serialized signature.
const SignatureSize = ed25519.SignatureSize

// Verify reports whether sig is a valid signature over message by the
// holder of pubKey. Malformed keys or signatures are treated as
// verification failure, not an error, matching the teacher's habit of
// collapsing crypto-library errors into a boolean at call sites.
func Verify(pubKey, message, sig []byte) bool {
	if len(pubKey) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pubKey), message, sig)
}

// Sign produces a signature over message with priv, a standard Ed25519
// private key. Used only by tests.
func Sign(priv ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(priv, message)
}

// Hash returns the full 32-byte sha256 digest of message, used to derive a
// transaction's hash from its signed bytes.
func Hash(message []byte) [32]byte {
	return sha256.Sum256(message)
}
