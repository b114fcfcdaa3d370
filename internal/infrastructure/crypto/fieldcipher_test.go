package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *FieldCipher {
	t.Helper()
	master := make([]byte, 32)
	_, err := rand.Read(master)
	require.NoError(t, err)
	fc, err := NewFieldCipher(hex.EncodeToString(master))
	require.NoError(t, err)
	return fc
}

func TestFieldCipherRoundTrip(t *testing.T) {
	fc := newTestCipher(t)
	userID := uuid.New()
	salt := []byte("0123456789abcdef")

	sealed, err := fc.Encrypt(userID, salt, "+420 777 123 456")
	require.NoError(t, err)
	require.NotEmpty(t, sealed)

	plain, err := fc.Decrypt(userID, salt, sealed)
	require.NoError(t, err)
	assert.Equal(t, "+420 777 123 456", plain)
}

func TestFieldCipherKeysAreUserScoped(t *testing.T) {
	fc := newTestCipher(t)
	salt := []byte("0123456789abcdef")

	sealed, err := fc.Encrypt(uuid.New(), salt, "secret")
	require.NoError(t, err)

	_, err = fc.Decrypt(uuid.New(), salt, sealed)
	assert.Error(t, err)
}

func TestFieldCipherEmptyPlaintext(t *testing.T) {
	fc := newTestCipher(t)
	sealed, err := fc.Encrypt(uuid.New(), []byte("salt"), "")
	require.NoError(t, err)
	assert.Nil(t, sealed)

	plain, err := fc.Decrypt(uuid.New(), []byte("salt"), nil)
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestNewFieldCipherRejectsBadKey(t *testing.T) {
	_, err := NewFieldCipher("not-hex")
	assert.Error(t, err)

	_, err = NewFieldCipher(hex.EncodeToString([]byte("short")))
	assert.Error(t, err)
}
