package services

import (
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const keyringService = "javadocbot"

// KeyringService stores secrets in the OS keychain so they never have to
// live in config.yaml. Known keys: llm_api_key, git_access_token,
// smtp_password, teams_webhook_url.
type KeyringService struct{}

func NewKeyringService() *KeyringService { return &KeyringService{} }

// Store saves a secret under the given key.
func (k *KeyringService) Store(key, value string) error {
	if err := keyring.Set(keyringService, key, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", key, err)
	}
	return nil
}

// Get returns the stored secret, or "" when the key is absent.
func (k *KeyringService) Get(key string) (string, error) {
	value, err := keyring.Get(keyringService, key)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return value, nil
}

// Delete removes a stored secret. Deleting an absent key is not an error.
func (k *KeyringService) Delete(key string) error {
	err := keyring.Delete(keyringService, key)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}

// ResolveSecret prefers the keyring, then the named environment variable,
// then the value from config.yaml.
func (k *KeyringService) ResolveSecret(key, envVar, configValue string) string {
	if v, err := k.Get(key); err == nil && v != "" {
		return v
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return configValue
}
