package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const hkdfInfo = "authorize-net-app/app-config"

// EncryptionService seals values so they are only readable for the tenant they were written for
type EncryptionService interface {
	Encrypt(tenant, plaintext string) (string, error)
	Decrypt(tenant, sealed string) (string, error)
}

// envelope is the stored form of an encrypted value
type envelope struct {
	IV   string `json:"iv"`
	Data string `json:"data"`
}

type AESEncryptionService struct {
	key []byte
}

func NewAESEncryptionService(hexKey string) (*AESEncryptionService, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.New("invalid encryption key format")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &AESEncryptionService{key: key}, nil
}

// tenantAEAD derives an AES-256-GCM cipher keyed for one tenant
func (s *AESEncryptionService) tenantAEAD(tenant string) (cipher.AEAD, error) {
	subkey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, s.key, []byte(tenant), []byte(hkdfInfo)), subkey); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(subkey)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}

func (s *AESEncryptionService) Encrypt(tenant, plaintext string) (string, error) {
	gcm, err := s.tenantAEAD(tenant)
	if err != nil {
		return "", err
	}

	iv := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nil, iv, []byte(plaintext), []byte(tenant))

	sealed, err := json.Marshal(envelope{
		IV:   base64.StdEncoding.EncodeToString(iv),
		Data: base64.StdEncoding.EncodeToString(ciphertext),
	})
	if err != nil {
		return "", err
	}
	return string(sealed), nil
}

func (s *AESEncryptionService) Decrypt(tenant, sealed string) (string, error) {
	var env envelope
	if err := json.Unmarshal([]byte(sealed), &env); err != nil {
		return "", fmt.Errorf("invalid envelope: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return "", err
	}

	iv, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return "", err
	}

	gcm, err := s.tenantAEAD(tenant)
	if err != nil {
		return "", err
	}
	if len(iv) != gcm.NonceSize() {
		return "", errors.New("invalid iv length")
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, []byte(tenant))
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
