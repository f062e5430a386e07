// Package store persists per-provider credentials for the CLI.
// Credentials live in a single JSON document keyed by provider name; saving
// one provider's record merges into the existing document so sibling
// providers are never clobbered.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/router-for-me/shellpilot/internal/config"
)

// credentialFileName is the fixed filename under the config directory.
const credentialFileName = "auth.json"

// KindOAuth is the discriminator for OAuth-style records; currently the only
// kind the CLI writes.
const KindOAuth = "oauth"

// Record holds one provider's credentials.
//
// Access and Expires travel together: both set once a short-lived token has
// been exchanged, both empty otherwise. An empty Refresh means the provider
// is unauthenticated. Key and Token are reserved for alternate auth kinds
// and round-trip untouched.
type Record struct {
	Kind    string `json:"type"`
	Refresh string `json:"refresh,omitempty"`
	Access  string `json:"access,omitempty"`
	// Expires is the absolute expiry of Access in milliseconds since epoch.
	Expires int64  `json:"expires,omitempty"`
	Key     string `json:"key,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Store abstracts credential persistence so flows can be tested against a
// temp-directory-backed instance instead of the real user config path.
type Store interface {
	// Load returns the record for provider, or false when the file is
	// missing, unparseable, or has no entry for provider. None of those is
	// an error: they are all the normal "not yet authenticated" state.
	Load(provider string) (*Record, bool)
	// Save merges the record for provider into the credential document and
	// writes it back whole.
	Save(provider string, record *Record) error
}

// FileStore is the production Store, backed by auth.json in the user config
// directory.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a FileStore rooted at the shellpilot config directory.
func NewFileStore() *FileStore {
	return &FileStore{baseDir: config.Dir()}
}

// SetBaseDir overrides the directory holding auth.json. Used by tests.
func (s *FileStore) SetBaseDir(dir string) {
	s.baseDir = dir
}

func (s *FileStore) filePath() string {
	return filepath.Join(s.baseDir, credentialFileName)
}

// Load implements Store.
func (s *FileStore) Load(provider string) (*Record, bool) {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		return nil, false
	}
	entry := gjson.GetBytes(data, escapePath(provider))
	if !entry.Exists() || !entry.IsObject() {
		return nil, false
	}
	var record Record
	if err = json.Unmarshal([]byte(entry.Raw), &record); err != nil {
		log.Debugf("credential store: malformed record for %s: %v", provider, err)
		return nil, false
	}
	return &record, true
}

// Save implements Store. The current document is read first and only the one
// provider key is replaced, so a save never drops sibling providers. A
// missing or corrupt document is treated as empty and overwritten.
func (s *FileStore) Save(provider string, record *Record) error {
	if err := os.MkdirAll(s.baseDir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	doc := []byte("{}")
	if existing, err := os.ReadFile(s.filePath()); err == nil && gjson.ValidBytes(existing) {
		doc = existing
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode credential record: %w", err)
	}
	doc, err = sjson.SetRawBytes(doc, escapePath(provider), raw)
	if err != nil {
		return fmt.Errorf("failed to merge credential record: %w", err)
	}

	if err = os.WriteFile(s.filePath(), doc, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	// The file may predate the 0600 default; tighten it when possible but
	// never fail the save over it.
	if err = os.Chmod(s.filePath(), 0o600); err != nil {
		log.Warnf("credential store: could not restrict %s to owner only: %v", s.filePath(), err)
	}
	return nil
}

// escapePath guards gjson/sjson path metacharacters in provider names.
func escapePath(provider string) string {
	replacer := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return replacer.Replace(provider)
}
