// Package credentials keeps API keys and tokens in local storage.
package credentials

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/storage"
)

// Storage keys.
const (
	OpenAIKey      = "openai_api_key"
	GeminiKey      = "gemini_api_key"
	DeveloperToken = "developer_token"
)

const minDeveloperTokenLen = 10

// KeyValidator checks a key against the provider before it is accepted.
type KeyValidator interface {
	ValidateKey(ctx context.Context, key string) error
}

type Store struct {
	kv        storage.KV
	validator KeyValidator
	logger    *zap.Logger
}

// New returns a credential store. validator may be nil, in which case only the
// format of OpenAI keys is checked.
func New(kv storage.KV, validator KeyValidator, logger *zap.Logger) *Store {
	return &Store{kv: kv, validator: validator, logger: logger}
}

// SetValidator installs the live key check after construction; the LLM
// client that validates keys itself reads keys from this store.
func (s *Store) SetValidator(v KeyValidator) {
	s.validator = v
}

// Status reports which credentials are present.
type Status struct {
	OpenAI         bool `json:"openai"`
	Gemini         bool `json:"gemini"`
	DeveloperToken bool `json:"developerToken"`
}

func (s *Store) Status(ctx context.Context) (Status, error) {
	var st Status
	var err error
	if st.OpenAI, err = s.has(ctx, OpenAIKey); err != nil {
		return st, err
	}
	if st.Gemini, err = s.has(ctx, GeminiKey); err != nil {
		return st, err
	}
	if st.DeveloperToken, err = s.has(ctx, DeveloperToken); err != nil {
		return st, err
	}
	return st, nil
}

// SetAPIKey validates and stores the OpenAI key. Keys must start with "sk-"
// and pass a live roundtrip to the provider.
func (s *Store) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, "sk-") {
		return apperr.NewValidation("API key must start with sk-")
	}
	if s.validator != nil {
		if err := s.validator.ValidateKey(ctx, key); err != nil {
			s.logger.Warn("API key rejected by provider", zap.Error(err))
			return &apperr.Error{Kind: apperr.Validation, Message: "invalid API key", Err: err}
		}
	}
	return s.put(ctx, OpenAIKey, key)
}

// SetGeminiKey stores the Gemini key; it has no known prefix to check.
func (s *Store) SetGeminiKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return apperr.NewValidation("Gemini API key is empty")
	}
	return s.put(ctx, GeminiKey, key)
}

func (s *Store) SetDeveloperToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if len(token) < minDeveloperTokenLen {
		return apperr.NewValidation(fmt.Sprintf("developer token must be at least %d characters", minDeveloperTokenLen))
	}
	return s.put(ctx, DeveloperToken, token)
}

// Seed stores value under key only if nothing is stored there yet. Used to
// bootstrap from the environment without live validation.
func (s *Store) Seed(ctx context.Context, key, value string) error {
	if value == "" {
		return nil
	}
	ok, err := s.has(ctx, key)
	if err != nil || ok {
		return err
	}
	s.logger.Info("Seeding credential from environment", zap.String("key", key))
	return s.put(ctx, key, value)
}

// APIKey returns the OpenAI key or a CredentialMissing error.
func (s *Store) APIKey(ctx context.Context) (string, error) {
	return s.require(ctx, OpenAIKey, "OpenAI API key")
}

func (s *Store) GeminiKey(ctx context.Context) (string, error) {
	return s.require(ctx, GeminiKey, "Gemini API key")
}

func (s *Store) DeveloperToken(ctx context.Context) (string, error) {
	token, err := s.require(ctx, DeveloperToken, "developer token")
	if err != nil {
		return "", err
	}
	if len(token) < minDeveloperTokenLen {
		return "", apperr.NewValidation("stored developer token is too short")
	}
	return token, nil
}

// Clear removes a stored credential.
func (s *Store) Clear(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, key)
}

func (s *Store) require(ctx context.Context, key, name string) (string, error) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if !ok || strings.TrimSpace(v) == "" {
		return "", apperr.NewCredentialMissing(name)
	}
	return v, nil
}

func (s *Store) has(ctx context.Context, key string) (bool, error) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return ok && v != "", nil
}

func (s *Store) put(ctx context.Context, key, value string) error {
	if err := s.kv.Set(ctx, key, value); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}
