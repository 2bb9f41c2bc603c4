package tokenstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// plainCodec stores records as-is. Acceptable for a single-operator,
// localhost-bound deployment that either doesn't snapshot to disk at all
// or accepts the snapshot file's own filesystem permissions as the
// protection boundary.
type plainCodec struct{}

func (plainCodec) encode(r Record) (Record, error) { return r, nil }
func (plainCodec) decode(r Record) (Record, error) { return r, nil }

// encryptedCodec wraps access_token/refresh_token in AES-256-GCM ciphertext
// before they touch disk, grounded on
// apps/mcp-server/internal/services/credential_manager.go's
// sha256(masterKey)-derived key + nonce-prefixed-ciphertext scheme.
type encryptedCodec struct {
	key [32]byte
}

func newEncryptedCodec(masterKey string) (*encryptedCodec, error) {
	if masterKey == "" {
		return nil, fmt.Errorf("encryption key must not be empty")
	}
	return &encryptedCodec{key: sha256.Sum256([]byte(masterKey))}, nil
}

func (c *encryptedCodec) encode(r Record) (Record, error) {
	enc := r
	var err error
	if r.AccessToken != "" {
		if enc.AccessToken, err = c.seal(r.AccessToken); err != nil {
			return Record{}, err
		}
	}
	if r.RefreshToken != "" {
		if enc.RefreshToken, err = c.seal(r.RefreshToken); err != nil {
			return Record{}, err
		}
	}
	return enc, nil
}

func (c *encryptedCodec) decode(r Record) (Record, error) {
	dec := r
	var err error
	if r.AccessToken != "" {
		if dec.AccessToken, err = c.open(r.AccessToken); err != nil {
			return Record{}, err
		}
	}
	if r.RefreshToken != "" {
		if dec.RefreshToken, err = c.open(r.RefreshToken); err != nil {
			return Record{}, err
		}
	}
	return dec, nil
}

func (c *encryptedCodec) seal(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating gcm: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (c *encryptedCodec) open(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("creating gcm: %w", err)
	}
	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, body := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, body, nil)
	if err != nil {
		return "", fmt.Errorf("decrypting: %w", err)
	}
	return string(plaintext), nil
}
