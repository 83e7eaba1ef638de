package tokenstore

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"
)

// KeyringService is the service name the token is filed under in the OS keychain
const KeyringService = "folio-cli"

// Keyring stores the token securely in the OS keychain/credential manager
type Keyring struct {
	service string
	logger  zerolog.Logger
}

// NewKeyring creates a keyring-backed store
func NewKeyring(logger zerolog.Logger) *Keyring {
	return &Keyring{service: KeyringService, logger: logger}
}

func (k *Keyring) Get() (string, bool) {
	token, err := keyring.Get(k.service, Key)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			k.logger.Warn().Err(err).Msg("Failed to load token from keyring")
		}
		return "", false
	}
	return token, token != ""
}

func (k *Keyring) Set(token string) {
	if err := keyring.Set(k.service, Key, token); err != nil {
		k.logger.Warn().Err(err).Msg("Failed to save token to keyring")
	}
}

func (k *Keyring) Remove() {
	if err := keyring.Delete(k.service, Key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return // Already deleted
		}
		k.logger.Warn().Err(err).Msg("Failed to delete token from keyring")
	}
}
