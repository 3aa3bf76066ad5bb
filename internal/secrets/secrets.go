// Package secrets resolves gateway credential references. Configuration rows
// store references, never key material; resolution happens per charge
// attempt so rotating a key needs no restart.
package secrets

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/frahmantamala/payment-integration/internal"
)

type Store interface {
	Get(ctx context.Context, ref string) (string, error)
}

// WritableStore is implemented by backends that can accept new secrets, used
// by the admin settings flow and the seed command.
type WritableStore interface {
	Store
	Set(ctx context.Context, ref, value string) error
}

// NewFromConfig builds the store selected by the secrets section. Both
// backends satisfy WritableStore; the env backend rejects writes at call
// time rather than here so read-only deployments still boot.
func NewFromConfig(cfg internal.SecretsConfig) (WritableStore, error) {
	switch cfg.Backend {
	case "", "env":
		return EnvStore{}, nil
	case "file":
		key, err := base64.StdEncoding.DecodeString(cfg.MasterKey)
		if err != nil {
			return nil, fmt.Errorf("decode master key: %w", err)
		}
		return NewFileStore(cfg.FilePath, key)
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", cfg.Backend)
	}
}

// EnvStore resolves references as environment variable names.
type EnvStore struct{}

func (EnvStore) Get(ctx context.Context, ref string) (string, error) {
	value := os.Getenv(ref)
	if value == "" {
		return "", internal.NewNotFoundError(fmt.Sprintf("secret %s is not set", ref), internal.ErrCodeSecretNotFound)
	}
	return value, nil
}

// Set always fails. Environment-backed secrets are provisioned out of band,
// so admin saves on this backend must ship the key ref, not the key.
func (EnvStore) Set(ctx context.Context, ref, value string) error {
	return fmt.Errorf("the env secrets backend is read-only, export %s instead", ref)
}
