// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package directory

import (
	"os"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/carmenbhuber/TheraFinder/internal/tabular"
)

const providerFile = "../../testdata/providers.csv"

func TestNew(t *testing.T) {
	t.Run("a new store is empty", func(t *testing.T) {
		store := New()
		if store.Len() != 0 {
			t.Errorf("expected empty store, got %d records", store.Len())
		}
		if store.Providers() == nil {
			t.Error("expected non-nil provider slice")
		}
		if !store.LoadedAt().IsZero() {
			t.Error("expected zero load time")
		}
	})
}

func TestStore_Load(t *testing.T) {
	t.Run("loading the fixture succeeds", func(t *testing.T) {
		data, err := os.ReadFile(providerFile)
		if err != nil {
			t.Fatalf("failed to read provider fixture: %s", err)
		}
		store := New()
		if count := store.Load(string(data)); count != 5 {
			t.Errorf("expected 5 records to be loaded, got %d", count)
		}
		if store.Len() != 5 {
			t.Errorf("expected store to hold 5 records, got %d", store.Len())
		}
		wantHeader := []string{"Therapiestelle", "Kanton", "Ort", "PLZ", "Tel.", "E-Mail", "Homepage",
			"Spezialisierung", "lat", "lon"}
		if diff := cmp.Diff(wantHeader, store.Header()); diff != "" {
			t.Errorf("header mismatch (-want +got):\n%s", diff)
		}
		if store.LoadedAt().IsZero() {
			t.Error("expected load time to be set")
		}
	})
	t.Run("loading replaces the previous collection", func(t *testing.T) {
		store := New()
		store.Load("PLZ,Ort\n8001,Zürich\n3000,Bern\n")
		previous := store.Providers()
		store.Load("PLZ,Ort\n4000,Basel\n")

		want := []tabular.Record{{"PLZ": "4000", "Ort": "Basel"}}
		if diff := cmp.Diff(want, store.Providers()); diff != "" {
			t.Errorf("providers mismatch (-want +got):\n%s", diff)
		}
		if len(previous) != 2 {
			t.Errorf("expected previously returned slice to be unaffected, got %d records", len(previous))
		}
	})
	t.Run("loading empty text clears the collection", func(t *testing.T) {
		store := New()
		store.Load("PLZ,Ort\n8001,Zürich\n")
		if count := store.Load("\n \r\n"); count != 0 {
			t.Errorf("expected no records, got %d", count)
		}
		if store.Len() != 0 {
			t.Errorf("expected empty store, got %d records", store.Len())
		}
		if store.Providers() == nil {
			t.Error("expected non-nil provider slice")
		}
	})
}

func TestStore_Replace(t *testing.T) {
	t.Run("a nil record slice is stored as empty", func(t *testing.T) {
		store := New()
		store.Replace(tabular.Table{Header: []string{"PLZ"}})
		if store.Providers() == nil {
			t.Error("expected non-nil provider slice")
		}
		if diff := cmp.Diff([]string{"PLZ"}, store.Header()); diff != "" {
			t.Errorf("header mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestStore_concurrentAccess(t *testing.T) {
	data, err := os.ReadFile(providerFile)
	if err != nil {
		t.Fatalf("failed to read provider fixture: %s", err)
	}
	full := string(data)
	single := "PLZ,Ort\n8001,Zürich\n"

	store := New()
	store.Load(full)
	wg := sync.WaitGroup{}
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				if i%4 == 0 {
					store.Load(single)
				} else {
					store.Load(full)
				}
				return
			}
			providers := store.Providers()
			if len(providers) != 1 && len(providers) != 5 {
				t.Errorf("expected a complete collection of 1 or 5 providers, got %d", len(providers))
			}
			if header := store.Header(); len(header) != 2 && len(header) != 10 {
				t.Errorf("expected a complete header of 2 or 10 columns, got %d", len(header))
			}
		}()
	}
	wg.Wait()
	if store.Len() != 1 && store.Len() != 5 {
		t.Errorf("expected the last load to win, got %d providers", store.Len())
	}
}
