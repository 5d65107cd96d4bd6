package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"adchat/internal/logger"
	"adchat/internal/storage"
	"adchat/pkg/chattypes"
)

// SettingsStore is the authoritative record of model configuration and
// linked advertising accounts, independent of conversation state.
type SettingsStore struct {
	mu            sync.Mutex
	modelSettings chattypes.ModelSettings
	accounts      []chattypes.LinkedAccount

	persist *storage.Store
	log     *log.Logger

	subscribers []subscriber
	nextSubID   int
}

// NewSettingsStore creates a settings store with default model settings.
// When persist is non-nil the settings partition is loaded immediately and
// saved on every change.
func NewSettingsStore(persist *storage.Store) *SettingsStore {
	s := &SettingsStore{
		modelSettings: chattypes.DefaultModelSettings(),
		persist:       persist,
		log:           logger.NewStyledLogger("SettingsStore"),
	}
	s.load()
	return s
}

// ModelSettings returns the current model configuration.
func (s *SettingsStore) ModelSettings() chattypes.ModelSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelSettings
}

// UpdateModelSettings shallow-merges the non-nil update fields; unspecified
// fields retain their prior values.
func (s *SettingsStore) UpdateModelSettings(update chattypes.ModelSettingsUpdate) {
	s.mu.Lock()
	s.modelSettings = update.Apply(s.modelSettings)
	s.mu.Unlock()

	s.save()
	s.notify()
}

// ResetModelSettings restores the fixed defaults.
func (s *SettingsStore) ResetModelSettings() {
	s.mu.Lock()
	s.modelSettings = chattypes.DefaultModelSettings()
	s.mu.Unlock()

	s.save()
	s.notify()
}

// AddAccount validates and appends a new linked account. All validation
// failures are reported at once; on failure nothing is mutated. The store
// generates the ID and creation timestamp.
func (s *SettingsStore) AddAccount(input chattypes.LinkedAccountInput) (chattypes.LinkedAccount, error) {
	var errs []error
	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, fmt.Errorf("account name is required"))
	}
	if strings.TrimSpace(input.Token) == "" {
		errs = append(errs, fmt.Errorf("account token is required"))
	}
	if strings.TrimSpace(input.ClientID) == "" {
		errs = append(errs, fmt.Errorf("account clientId is required"))
	}
	if len(errs) > 0 {
		return chattypes.LinkedAccount{}, errors.Join(errs...)
	}

	account := chattypes.LinkedAccount{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Token:     input.Token,
		ClientID:  input.ClientID,
		IsActive:  input.IsActive,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.accounts = append(s.accounts, account)
	s.mu.Unlock()

	s.save()
	s.notify()
	return account, nil
}

// UpdateAccount merges the non-nil update fields into the matching account.
// Silent no-op if the identifier is not found.
func (s *SettingsStore) UpdateAccount(id string, update chattypes.LinkedAccountUpdate) {
	s.mu.Lock()
	changed := false
	for i, account := range s.accounts {
		if account.ID == id {
			s.accounts[i] = update.Apply(account)
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.save()
		s.notify()
	}
}

// RemoveAccount deletes the matching account. Silent no-op if not found.
func (s *SettingsStore) RemoveAccount(id string) {
	s.mu.Lock()
	changed := false
	for i, account := range s.accounts {
		if account.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.save()
		s.notify()
	}
}

// ToggleAccount flips the active flag of the matching account. Silent no-op
// if not found.
func (s *SettingsStore) ToggleAccount(id string) {
	s.mu.Lock()
	changed := false
	for i, account := range s.accounts {
		if account.ID == id {
			s.accounts[i].IsActive = !account.IsActive
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.save()
		s.notify()
	}
}

// Accounts returns a copy of the account collection in insertion order.
func (s *SettingsStore) Accounts() []chattypes.LinkedAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chattypes.LinkedAccount, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// ActiveAccounts returns the subset of accounts with the active flag set.
func (s *SettingsStore) ActiveAccounts() []chattypes.LinkedAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []chattypes.LinkedAccount
	for _, account := range s.accounts {
		if account.IsActive {
			out = append(out, account)
		}
	}
	return out
}

// AccountByID looks up an account by identifier.
func (s *SettingsStore) AccountByID(id string) (chattypes.LinkedAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.ID == id {
			return account, true
		}
	}
	return chattypes.LinkedAccount{}, false
}

// HasAPIKey reports whether a non-empty API key is configured.
func (s *SettingsStore) HasAPIKey() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.TrimSpace(s.modelSettings.APIKey) != ""
}

// IsConfigured reports whether the client is fully configured: an API key
// plus at least one active account.
func (s *SettingsStore) IsConfigured() bool {
	if !s.HasAPIKey() {
		return false
	}
	return len(s.ActiveAccounts()) > 0
}

// Subscribe registers a change-notification callback invoked after every
// state mutation. The returned func unregisters.
func (s *SettingsStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *SettingsStore) notify() {
	s.mu.Lock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn()
	}
}

func (s *SettingsStore) load() {
	if s.persist == nil {
		return
	}
	var snap chattypes.SettingsSnapshot
	found, err := s.persist.Load(storage.SettingsPartition, &snap)
	if err != nil {
		s.log.Warn("failed to load settings partition", "error", err)
		return
	}
	if !found {
		return
	}
	s.mu.Lock()
	s.modelSettings = snap.ModelSettings
	s.accounts = snap.Accounts
	s.mu.Unlock()
}

func (s *SettingsStore) save() {
	if s.persist == nil {
		return
	}
	s.mu.Lock()
	snap := chattypes.SettingsSnapshot{
		ModelSettings: s.modelSettings,
		Accounts:      append([]chattypes.LinkedAccount(nil), s.accounts...),
	}
	s.mu.Unlock()

	if err := s.persist.Save(storage.SettingsPartition, snap); err != nil {
		s.log.Warn("failed to save settings partition", "error", err)
	}
}
