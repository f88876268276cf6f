package domain

// Envelope is the unit of encrypted storage produced by one seal operation.
//
// Envelopes are transient: the engine builds one, the caller serializes it with
// Marshal and persists the bytes. The serialized form is nonce || ciphertext || tag.
type Envelope struct {
	Nonce      []byte // NonceSize random bytes, fresh for every encryption
	Ciphertext []byte // sealed plaintext with the TagSize authentication tag appended
}

// Validate reports ErrInvalidData when the envelope cannot possibly be opened.
func (e Envelope) Validate() error {
	if len(e.Nonce) != NonceSize || len(e.Ciphertext) < TagSize {
		return ErrInvalidData
	}
	return nil
}

// Marshal serializes the envelope as nonce || ciphertext || tag.
func (e Envelope) Marshal() []byte {
	buf := make([]byte, 0, len(e.Nonce)+len(e.Ciphertext))
	buf = append(buf, e.Nonce...)
	buf = append(buf, e.Ciphertext...)
	return buf
}

// Len returns the size of the serialized envelope.
func (e Envelope) Len() int {
	return len(e.Nonce) + len(e.Ciphertext)
}

// ParseEnvelope splits serialized envelope bytes. The returned envelope does not
// alias data. Inputs shorter than EnvelopeOverhead fail with ErrInvalidData.
func ParseEnvelope(data []byte) (Envelope, error) {
	if len(data) < EnvelopeOverhead {
		return Envelope{}, ErrInvalidData
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return Envelope{
		Nonce:      buf[:NonceSize],
		Ciphertext: buf[NonceSize:],
	}, nil
}
