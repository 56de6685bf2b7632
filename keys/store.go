package keys

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Store holds named signing keys under a directory, one <name>.key file per
// key.
type Store struct {
	Dir string
}

// Entry describes one stored key.
type Entry struct {
	Name    string
	Address common.Address
}

// DefaultDir returns the conventional store location under the user's home
// directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".primus", "keys"), nil
}

// Open returns a store rooted at dir, or at DefaultDir when dir is empty.
// The directory is not created until a key is written.
func Open(dir string) (*Store, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	return &Store{Dir: dir}, nil
}

// CheckName validates a key name. Names are lowercase alphanumerics and
// hyphens, so they are safe as file names on every platform.
func CheckName(name string) error {
	if name == "" {
		return errors.New("keys: name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9') || char == '-' {
			continue
		}
		return fmt.Errorf("keys: invalid character %q in name", char)
	}
	return nil
}

func (s *Store) pathFor(name string) string {
	return filepath.Join(s.Dir, name+".key")
}

// Generate creates a new key under name. It fails if the name is taken.
func (s *Store) Generate(name string) (*ecdsa.PrivateKey, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	path := s.pathFor(name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("keys: key %q already exists", name)
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := s.write(path, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Import stores a hex-encoded private key (with or without a 0x prefix)
// under name. It fails if the name is taken.
func (s *Store) Import(name, hexKey string) (*ecdsa.PrivateKey, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	path := s.pathFor(name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("keys: key %q already exists", name)
	}
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("keys: invalid private key hex: %w", err)
	}
	if err := s.write(path, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Load reads the named key.
func (s *Store) Load(name string) (*ecdsa.PrivateKey, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	key, err := crypto.LoadECDSA(s.pathFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("keys: key %q not found", name)
		}
		return nil, err
	}
	return key, nil
}

// Address returns the Ethereum-style address of the named key.
func (s *Store) Address(name string) (common.Address, error) {
	key, err := s.Load(name)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// ExportHex returns the named key's private scalar as lowercase hex.
func (s *Store) ExportHex(name string) (string, error) {
	key, err := s.Load(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", crypto.FromECDSA(key)), nil
}

// List returns the stored keys sorted by name. A missing store directory is
// an empty store, not an error.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".key") {
			continue
		}
		name := strings.TrimSuffix(de.Name(), ".key")
		if CheckName(name) != nil {
			continue
		}
		addr, err := s.Address(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Name: name, Address: addr})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) write(path string, key *ecdsa.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return crypto.SaveECDSA(path, key)
}
