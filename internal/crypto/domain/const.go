package domain

// Algorithm represents the AEAD used to seal envelopes.
//
// Both supported algorithms use a 256-bit key, a 12-byte nonce and a 16-byte tag,
// so envelopes have the same layout and overhead whichever one is configured.
// The algorithm is a deployment-wide choice and is not recorded in envelopes.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. It is the default and the fastest choice on
	// hardware with AES acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305, for devices without AES acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of master and derived keys.
	KeySize = 32

	// NonceSize is the size in bytes of the random nonce prefixed to every envelope.
	NonceSize = 12

	// TagSize is the size in bytes of the authentication tag appended to the ciphertext.
	TagSize = 16

	// EnvelopeOverhead is the number of bytes a serialized envelope adds to its plaintext.
	EnvelopeOverhead = NonceSize + TagSize

	// SystemSubject is the sentinel subject used to derive keys for data that
	// belongs to no user (system-level audit events, tamper alerts).
	SystemSubject = "system"

	// MasterKeyStorageKey names the master key in the secure key-value store.
	// The version suffix leaves room for a future rotation scheme.
	MasterKeyStorageKey = "phiguard.master-key.v1"

	// SubjectKeyInfo is the HKDF info string for per-subject keys.
	SubjectKeyInfo = "phiguard-subject-key-v1"
)

// ParseAlgorithm converts a configuration value into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM, ChaCha20:
		return Algorithm(s), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
