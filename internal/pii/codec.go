// Package pii protects collaborator CPFs. A CPF is stored twice: as an
// AES-256-GCM envelope that can be decrypted for display, and as a
// deterministic HMAC blind index that supports exact-match lookup without ever
// putting the plaintext in a query.
package pii

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const nonceSize = 16

var (
	// ErrMalformedEnvelope means the stored value is not a nonce:ciphertext pair.
	ErrMalformedEnvelope = errors.New("malformed ciphertext envelope")
	// ErrDecrypt means authentication failed: wrong key or tampered ciphertext.
	ErrDecrypt = errors.New("decryption failed")
)

// Codec performs the dual encoding. It is immutable after construction and
// safe for concurrent use.
type Codec struct {
	aead   cipher.AEAD
	macKey []byte
}

// NewCodec derives the encryption and blind-index subkeys from a 32-byte
// master key. Key problems are construction-time errors; once a Codec exists
// every operation on it is key-valid.
func NewCodec(masterKey []byte) (*Codec, error) {
	if len(masterKey) != 32 {
		return nil, fmt.Errorf("master key must be 32 bytes, got %d", len(masterKey))
	}

	encKey := deriveSubkey(masterKey, "cpf-encryption")
	macKey := deriveSubkey(masterKey, "cpf-blind-index")

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("init aead: %w", err)
	}

	return &Codec{aead: aead, macKey: macKey}, nil
}

// Encrypt seals plaintext under a fresh random nonce and returns the envelope
// as "nonceHex:cipherHex". Two calls with the same plaintext produce
// different envelopes.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt. A wrong key or a tampered
// envelope fails with ErrDecrypt; the AEAD tag makes silent garbage
// impossible.
func (c *Codec) Decrypt(envelope string) (string, error) {
	nonceHex, cipherHex, ok := strings.Cut(envelope, ":")
	if !ok {
		return "", ErrMalformedEnvelope
	}
	nonce, err := hex.DecodeString(nonceHex)
	if err != nil || len(nonce) != nonceSize {
		return "", ErrMalformedEnvelope
	}
	sealed, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", ErrMalformedEnvelope
	}
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}

// BlindIndex computes the deterministic keyed digest of plaintext as a
// 64-character hex string. Equal plaintexts always produce equal digests, so
// the digest is the unique queryable surrogate for the CPF.
func (c *Codec) BlindIndex(plaintext string) string {
	mac := hmac.New(sha256.New, c.macKey)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}

func deriveSubkey(masterKey []byte, label string) []byte {
	mac := hmac.New(sha256.New, masterKey)
	mac.Write([]byte(label))
	return mac.Sum(nil)
}
