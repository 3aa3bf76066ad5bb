package secrets

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/frahmantamala/payment-integration/internal"
)

const nonceSize = 24

// FileStore keeps secrets in a single secretbox-encrypted file: a random
// nonce followed by the sealed JSON map, base64 encoded on disk.
type FileStore struct {
	path string
	key  [32]byte
	mu   sync.Mutex
}

func NewFileStore(path string, masterKey []byte) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("secret file path is required")
	}
	if len(masterKey) != 32 {
		return nil, fmt.Errorf("master key must be 32 bytes, got %d", len(masterKey))
	}

	s := &FileStore{path: path}
	copy(s.key[:], masterKey)
	return s, nil
}

func (s *FileStore) Get(ctx context.Context, ref string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := values[ref]
	if !ok {
		return "", internal.NewNotFoundError(fmt.Sprintf("secret %s is not set", ref), internal.ErrCodeSecretNotFound)
	}
	return value, nil
}

func (s *FileStore) Set(ctx context.Context, ref, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[ref] = value
	return s.save(values)
}

func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secret file: %w", err)
	}

	sealed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("secret file is not base64: %w", err)
	}
	if len(sealed) < nonceSize {
		return nil, errors.New("secret file is truncated")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, errors.New("secret file does not open with the configured master key")
	}

	values := make(map[string]string)
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, fmt.Errorf("decode secret file: %w", err)
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	plain, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode secrets: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], plain, &nonce, &s.key)
	encoded := base64.StdEncoding.EncodeToString(sealed)

	if err := os.WriteFile(s.path, []byte(encoded), 0o600); err != nil {
		return fmt.Errorf("write secret file: %w", err)
	}
	return nil
}
