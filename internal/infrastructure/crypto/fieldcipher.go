package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

// FieldCipher encrypts individual database columns with AES-256-GCM. Each
// user gets their own key, derived from the master key and the user's salt
// with HKDF, so one user's ciphertexts are useless against another's.
type FieldCipher struct {
	masterKey []byte
}

// NewFieldCipher creates a cipher from the hex-encoded 32-byte master key
func NewFieldCipher(masterKeyHex string) (*FieldCipher, error) {
	key, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("master key is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("master key must be 32 bytes, got %d", len(key))
	}
	return &FieldCipher{masterKey: key}, nil
}

// deriveKey derives the per-user AES key from the master key and the user's
// stored salt
func (f *FieldCipher) deriveKey(userID uuid.UUID, salt []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, f.masterKey, salt, userID[:])
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}
	return key, nil
}

// Encrypt seals the plaintext for the given user. The nonce is prepended to
// the returned ciphertext.
func (f *FieldCipher) Encrypt(userID uuid.UUID, salt []byte, plaintext string) ([]byte, error) {
	if plaintext == "" {
		return nil, nil
	}
	gcm, err := f.aead(userID, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce generation failed: %w", err)
	}
	return gcm.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt for the same user
func (f *FieldCipher) Decrypt(userID uuid.UUID, salt []byte, ciphertext []byte) (string, error) {
	if len(ciphertext) == 0 {
		return "", nil
	}
	gcm, err := f.aead(userID, salt)
	if err != nil {
		return "", err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	return string(plaintext), nil
}

func (f *FieldCipher) aead(userID uuid.UUID, salt []byte) (cipher.AEAD, error) {
	key, err := f.deriveKey(userID, salt)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
