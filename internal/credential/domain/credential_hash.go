package domain

import "encoding/binary"

const (
	// SaltSize is the length of the random salt in bytes.
	SaltSize = 16

	// HashSize is the length of the derived hash in bytes.
	HashSize = 32

	// DefaultIterations is the PBKDF2 iteration count for new hashes.
	DefaultIterations = 600000

	// MaxIterations bounds the work a stored hash can demand from Verify.
	MaxIterations = 100 * DefaultIterations

	iterationsFieldSize = 8
	saltLenFieldSize    = 4
	headerSize          = iterationsFieldSize + saltLenFieldSize

	// EncodedSize is the length of an encoded hash with the standard salt and hash sizes.
	EncodedSize = headerSize + SaltSize + HashSize
)

// CredentialHash is a self-describing one-way password hash. The iteration
// count travels with the hash so the cost can be raised without invalidating
// existing credentials.
type CredentialHash struct {
	Hash       []byte
	Salt       []byte
	Iterations uint64
}

// Validate checks the structural invariants of the hash.
func (c CredentialHash) Validate() error {
	if len(c.Salt) != SaltSize || len(c.Hash) != HashSize {
		return ErrInvalidFormat
	}
	if c.Iterations == 0 || c.Iterations > MaxIterations {
		return ErrInvalidFormat
	}
	return nil
}

// Encode serializes the hash as
// uint64be(iterations) || uint32be(len(salt)) || salt || hash.
func (c CredentialHash) Encode() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+len(c.Salt)+len(c.Hash))
	out = binary.BigEndian.AppendUint64(out, c.Iterations)
	out = binary.BigEndian.AppendUint32(out, uint32(len(c.Salt)))
	out = append(out, c.Salt...)
	out = append(out, c.Hash...)
	return out, nil
}

// DecodeCredentialHash parses a blob produced by Encode. Truncated input,
// trailing bytes and wrong field lengths fail with ErrInvalidFormat.
func DecodeCredentialHash(data []byte) (CredentialHash, error) {
	if len(data) < headerSize {
		return CredentialHash{}, ErrInvalidFormat
	}

	iterations := binary.BigEndian.Uint64(data[:iterationsFieldSize])
	saltLen := binary.BigEndian.Uint32(data[iterationsFieldSize:headerSize])
	if saltLen != SaltSize {
		return CredentialHash{}, ErrInvalidFormat
	}

	rest := data[headerSize:]
	if len(rest) != int(saltLen)+HashSize {
		return CredentialHash{}, ErrInvalidFormat
	}

	decoded := CredentialHash{
		Salt:       append([]byte(nil), rest[:saltLen]...),
		Hash:       append([]byte(nil), rest[saltLen:]...),
		Iterations: iterations,
	}
	if err := decoded.Validate(); err != nil {
		return CredentialHash{}, err
	}
	return decoded, nil
}
