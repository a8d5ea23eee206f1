package listing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Service loads and caches the listing collection from the data directory.
type Service struct {
	dataDir string
	ref     ReferencePoint

	mu       sync.RWMutex
	listings []Listing
	byID     map[int]*Listing
}

// NewService creates a listing service over dataDir. Nothing is read until
// Load or a first accessor call.
func NewService(dataDir string, ref ReferencePoint) *Service {
	return &Service{dataDir: dataDir, ref: ref}
}

func (s *Service) listingsFile() string {
	return filepath.Join(s.dataDir, "listings.json")
}

// Load reads listings.json, normalizes it, and replaces the cached
// collection.
func (s *Service) Load() error {
	data, err := os.ReadFile(s.listingsFile())
	if err != nil {
		return fmt.Errorf("read listings: %w", err)
	}

	var raw []Listing
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse listings: %w", err)
	}

	normalized := Normalize(raw, s.ref)
	byID := make(map[int]*Listing, len(normalized))
	for i := range normalized {
		byID[normalized[i].ID] = &normalized[i]
	}

	s.mu.Lock()
	s.listings = normalized
	s.byID = byID
	s.mu.Unlock()
	return nil
}

// All returns the normalized listing collection in pipeline order.
func (s *Service) All() []Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Listing, len(s.listings))
	copy(out, s.listings)
	return out
}

// Get returns a listing by ID.
func (s *Service) Get(id int) (Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byID[id]
	if !ok {
		return Listing{}, false
	}
	return *l, true
}

// Len returns the number of normalized listings.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}

// ShortlistListings reads the shortlist ID file (one listing ID per line) and
// returns the matching listings in file order. Junk lines and unknown IDs are
// skipped. A missing file is not an error: the shortlist is optional.
func (s *Service) ShortlistListings() ([]Listing, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, "shortlist_ids.txt"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read shortlist: %w", err)
	}

	var out []Listing
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		if l, ok := s.Get(id); ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// Shortlist returns the shortlisted listing URLs in file order, the seed set
// for the favorite store.
func (s *Service) Shortlist() ([]string, error) {
	listings, err := s.ShortlistListings()
	if err != nil {
		return nil, err
	}
	var urls []string
	for _, l := range listings {
		if l.URL != "" {
			urls = append(urls, l.URL)
		}
	}
	return urls, nil
}
