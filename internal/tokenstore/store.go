// Package tokenstore implements the Broker's credential custodian: the
// (key -> TokenRecord) mapping SPEC_FULL §4.5 describes, keyed by
// "<user_id>_<provider>_token", with atomic get/put and an optional
// encrypted-at-rest JSON snapshot so a restart doesn't force every
// provider's OAuth flow to be re-run.
package tokenstore

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Provider is the enumerated upstream tag a TokenRecord belongs to.
type Provider string

const (
	ProviderGitHub   Provider = "github"
	ProviderGoogle   Provider = "google"
	ProviderSupabase Provider = "supabase"
	ProviderAnthropic Provider = "anthropic"
)

// Record is the per (user_id, provider) credential state the Broker owns
// exclusively. Handlers never see this type directly; they only ever see
// the access_token returned by the Auth Resolver.
type Record struct {
	UserID       string   `json:"user_id"`
	Provider     Provider `json:"provider"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	ExpiresAtMS  int64    `json:"expires_at"`
	Scope        string   `json:"scope,omitempty"`
}

// Key is the store's persistence key for (userID, provider).
func Key(userID string, provider Provider) string {
	return fmt.Sprintf("%s_%s_token", userID, provider)
}

// Store is a mutex-guarded in-memory map of Key -> Record. Its shape
// mirrors the teacher's MemoryCache (map + sync.RWMutex, Get/Set/Delete)
// but drops TTL-based eviction: a TokenRecord is durable operator state,
// not a cache entry, and is never expired by the store itself — only the
// Broker decides when a record's access_token is stale.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record

	path  string
	codec codec
}

// codec encodes/decodes a Record for at-rest persistence. plainCodec does
// nothing extra; encryptedCodec wraps access_token/refresh_token in
// AES-256-GCM ciphertext, grounded on the teacher's CredentialManager.
type codec interface {
	encode(Record) (Record, error)
	decode(Record) (Record, error)
}

// New builds an empty Store. path, if non-empty, is where Save/Load
// persist a JSON snapshot. encryptionKey, if non-empty, enables
// AES-256-GCM encryption of access_token/refresh_token within that
// snapshot.
func New(path string, encryptionKey string) (*Store, error) {
	var c codec = plainCodec{}
	if encryptionKey != "" {
		ec, err := newEncryptedCodec(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("tokenstore: %w", err)
		}
		c = ec
	}
	s := &Store{
		records: make(map[string]Record),
		path:    path,
		codec:   c,
	}
	if path != "" {
		if err := s.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("tokenstore: loading snapshot: %w", err)
		}
	}
	return s, nil
}

// Get returns the Record for (userID, provider), if one exists.
func (s *Store) Get(userID string, provider Provider) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[Key(userID, provider)]
	return r, ok
}

// Put atomically replaces the Record for (userID, provider) and, if a
// snapshot path is configured, persists the new state to disk.
func (s *Store) Put(r Record) error {
	s.mu.Lock()
	s.records[Key(r.UserID, r.Provider)] = r
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	return s.Save()
}

// Delete removes the Record for (userID, provider), if any.
func (s *Store) Delete(userID string, provider Provider) {
	s.mu.Lock()
	delete(s.records, Key(userID, provider))
	s.mu.Unlock()
}

// Save writes the current state to the configured snapshot path.
func (s *Store) Save() error {
	if s.path == "" {
		return fmt.Errorf("tokenstore: no snapshot path configured")
	}
	s.mu.RLock()
	snapshot := make(map[string]Record, len(s.records))
	for k, v := range s.records {
		enc, err := s.codec.encode(v)
		if err != nil {
			s.mu.RUnlock()
			return fmt.Errorf("tokenstore: encoding %s: %w", k, err)
		}
		snapshot[k] = enc
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("tokenstore: marshaling snapshot: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load replaces the in-memory state with the configured snapshot path's
// contents.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var snapshot map[string]Record
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("tokenstore: parsing snapshot: %w", err)
	}

	decoded := make(map[string]Record, len(snapshot))
	for k, v := range snapshot {
		dec, err := s.codec.decode(v)
		if err != nil {
			return fmt.Errorf("tokenstore: decoding %s: %w", k, err)
		}
		decoded[k] = dec
	}

	s.mu.Lock()
	s.records = decoded
	s.mu.Unlock()
	return nil
}
