/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package readlog provides a fixed-capacity, most-recent-first log store.
package readlog

import "github.com/carverauto/nfcbench/pkg/models"

// DefaultCapacity is the bound used for both the history and error logs.
const DefaultCapacity = 200

// Store is a fixed-capacity sequence of log entries ordered most recent
// first. Pushing beyond capacity evicts the oldest entry; eviction is the
// only removal path and entries are never mutated after insertion.
//
// Store is not synchronized. It is owned by the pipeline goroutine, which is
// the single writer and reader; Entries returns a copy for handoff.
type Store struct {
	entries []models.LogEntry // ring, entries[head] is most recent
	head    int
	size    int
}

// New creates a store with the given capacity. Non-positive capacities fall
// back to DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Store{
		entries: make([]models.LogEntry, capacity),
	}
}

// Cap returns the fixed capacity.
func (s *Store) Cap() int {
	return len(s.entries)
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return s.size
}

// Push inserts entry at the head. When the store is full the tail entry is
// overwritten, which is the eviction.
func (s *Store) Push(entry models.LogEntry) {
	s.head--
	if s.head < 0 {
		s.head = len(s.entries) - 1
	}

	s.entries[s.head] = entry

	if s.size < len(s.entries) {
		s.size++
	}
}

// Entries returns a most-recent-first copy of the stored entries.
func (s *Store) Entries() []models.LogEntry {
	out := make([]models.LogEntry, 0, s.size)

	for i := 0; i < s.size; i++ {
		out = append(out, s.entries[(s.head+i)%len(s.entries)])
	}

	return out
}

// Latest returns the most recent entry, or false when the store is empty.
func (s *Store) Latest() (models.LogEntry, bool) {
	if s.size == 0 {
		return models.LogEntry{}, false
	}

	return s.entries[s.head], true
}
