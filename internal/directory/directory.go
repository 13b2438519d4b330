// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

// Package directory holds the in-memory provider collection the match engine searches.
package directory

import (
	"sync"
	"time"

	"github.com/carmenbhuber/TheraFinder/internal/metrics"
	"github.com/carmenbhuber/TheraFinder/internal/tabular"
)

// Store owns the loaded provider records. A load replaces the whole collection; readers always
// see either the previous or the new collection, never a mix.
type Store struct {
	mu       sync.RWMutex
	header   []string
	records  []tabular.Record
	loadedAt time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{records: []tabular.Record{}}
}

// Load parses raw tabular text and replaces the collection with the result. It returns the
// number of records loaded.
func (s *Store) Load(raw string) int {
	table := tabular.ParseTable(raw)
	s.Replace(table)
	return len(table.Records)
}

// Replace swaps the collection for the given table.
func (s *Store) Replace(table tabular.Table) {
	records := table.Records
	if records == nil {
		records = []tabular.Record{}
	}

	s.mu.Lock()
	s.header = table.Header
	s.records = records
	s.loadedAt = time.Now()
	s.mu.Unlock()

	metrics.DirectoryProviders.Set(float64(len(records)))
}

// Providers returns the current collection. The returned slice must not be modified; a later
// Replace does not affect it.
func (s *Store) Providers() []tabular.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Header returns the column names of the last load in their original order.
func (s *Store) Header() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.header
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// LoadedAt returns the time of the last load, or the zero time if nothing was loaded yet.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
