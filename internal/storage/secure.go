package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/petshop-next/internal/constants"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// argon2id 参数
const (
	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 2
	saltSize   = 16
)

// ErrSecretCorrupted 密文无法解密（口令变更或数据损坏）
var ErrSecretCorrupted = errors.New("secure storage value cannot be decrypted")

// SecureStore 在下层存储之上做 XChaCha20-Poly1305 加密，密钥由口令经 Argon2id 派生
type SecureStore struct {
	backend    Store
	passphrase []byte

	mu      sync.Mutex
	derived []byte
}

// NewSecureStore 创建加密存储，盐值首次使用时生成并写入下层存储
func NewSecureStore(backend Store, passphrase string) *SecureStore {
	return &SecureStore{backend: backend, passphrase: []byte(passphrase)}
}

func (s *SecureStore) key(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.derived != nil {
		return s.derived, nil
	}
	salt, err := s.loadSalt(ctx)
	if err != nil {
		return nil, err
	}
	s.derived = argon2.IDKey(s.passphrase, salt, kdfTime, kdfMemory, kdfThreads, chacha20poly1305.KeySize)
	return s.derived, nil
}

func (s *SecureStore) loadSalt(ctx context.Context) ([]byte, error) {
	raw, err := s.backend.Get(ctx, constants.StorageKeySecureSalt)
	if err == nil {
		salt, decodeErr := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
		if decodeErr == nil && len(salt) == saltSize {
			return salt, nil
		}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("load secure salt: %w", err)
	}
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate secure salt: %w", err)
	}
	if err := s.backend.Set(ctx, constants.StorageKeySecureSalt, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("persist secure salt: %w", err)
	}
	return salt, nil
}

// Get 读取并解密
func (s *SecureStore) Get(ctx context.Context, key string) (string, error) {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		return "", err
	}
	derived, err := s.key(ctx)
	if err != nil {
		return "", err
	}
	sealed, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", ErrSecretCorrupted
	}
	aead, err := chacha20poly1305.NewX(derived)
	if err != nil {
		return "", err
	}
	if len(sealed) < aead.NonceSize() {
		return "", ErrSecretCorrupted
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(key))
	if err != nil {
		return "", ErrSecretCorrupted
	}
	return string(plain), nil
}

// Set 加密后写入，密文绑定键名
func (s *SecureStore) Set(ctx context.Context, key, value string) error {
	derived, err := s.key(ctx)
	if err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(derived)
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(value)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	sealed := aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return s.backend.Set(ctx, key, base64.StdEncoding.EncodeToString(sealed))
}

// Delete 删除
func (s *SecureStore) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Backend 下层存储
func (s *SecureStore) Backend() Store {
	return s.backend
}
