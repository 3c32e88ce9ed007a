package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nexusdex/tradecore/internal/position"
)

// accountFile is the on-disk shape of one owner's account: balance plus the
// full trade history, open and closed.
type accountFile struct {
	Owner       string               `json:"owner"`
	Balance     float64              `json:"balance"`
	Trades      []*position.Position `json:"trades"`
	LastUpdated time.Time            `json:"last_updated"`
}

// FileStore persists accounts as one JSON file per owner. Writes go through
// a temp file and an atomic rename so a crash never leaves a half-written
// account on disk.
type FileStore struct {
	mu             sync.Mutex
	dataDir        string
	initialBalance float64
}

// NewFileStore creates a file-backed store rooted at dataDir. Owners seen
// for the first time start with initialBalance.
func NewFileStore(dataDir string, initialBalance float64) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dataDir: dataDir, initialBalance: initialBalance}, nil
}

// SaveTrade records a newly opened position or updates it on close.
func (s *FileStore) SaveTrade(p *position.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.load(p.Owner)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range account.Trades {
		if existing.ID == p.ID {
			account.Trades[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		account.Trades = append(account.Trades, p)
	}

	return s.save(account)
}

// ListOpenPositions returns the open positions recorded for an owner.
func (s *FileStore) ListOpenPositions(owner string) ([]*position.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.load(owner)
	if err != nil {
		return nil, err
	}

	var open []*position.Position
	for _, p := range account.Trades {
		if p.Status == position.StatusOpen {
			open = append(open, p)
		}
	}
	return open, nil
}

// ListClosedTrades returns the closed trades recorded for an owner, in the
// order they were saved.
func (s *FileStore) ListClosedTrades(owner string) ([]*position.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.load(owner)
	if err != nil {
		return nil, err
	}

	var closed []*position.Position
	for _, p := range account.Trades {
		if p.Status == position.StatusClosed {
			closed = append(closed, p)
		}
	}
	return closed, nil
}

// Balance returns the current balance for an owner.
func (s *FileStore) Balance(owner string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.load(owner)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// UpdateBalance sets a new balance for an owner.
func (s *FileStore) UpdateBalance(owner string, newBalance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.load(owner)
	if err != nil {
		return err
	}
	account.Balance = newBalance
	return s.save(account)
}

func (s *FileStore) accountPath(owner string) string {
	return filepath.Join(s.dataDir, owner+"_account.json")
}

func (s *FileStore) load(owner string) (*accountFile, error) {
	data, err := os.ReadFile(s.accountPath(owner))
	if os.IsNotExist(err) {
		return &accountFile{Owner: owner, Balance: s.initialBalance}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read account file: %w", err)
	}

	var account accountFile
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account file: %w", err)
	}
	return &account, nil
}

func (s *FileStore) save(account *accountFile) error {
	account.LastUpdated = time.Now()

	data, err := json.MarshalIndent(account, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	// Write to temporary file first, then atomic move.
	target := s.accountPath(account.Owner)
	tempFile := target + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp account file: %w", err)
	}
	if err := os.Rename(tempFile, target); err != nil {
		return fmt.Errorf("failed to move account file: %w", err)
	}
	return nil
}
