// Package seed bootstraps an empty store from a YAML catalog.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"distribution-backend/internal/auth"
	"distribution-backend/internal/store"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Parse converts a YAML catalog into store entities. The YAML is re-encoded
// as JSON so the same strict decoding that guards the snapshot applies here:
// unknown fields are rejected.
func Parse(data []byte) (store.Entities, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return store.Entities{}, fmt.Errorf("parse seed yaml: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return store.Entities{}, fmt.Errorf("re-encode seed: %w", err)
	}
	var e store.Entities
	if err := store.DecodeStrict(encoded, &e); err != nil {
		return store.Entities{}, fmt.Errorf("decode seed: %w", err)
	}
	for i := range e.Users {
		if err := auth.ValidateUser(&e.Users[i]); err != nil {
			return store.Entities{}, fmt.Errorf("seed user %d: %w", e.Users[i].ID, err)
		}
	}
	return e, nil
}

// Apply loads the catalog at path into s when s is empty and persists it.
// A missing file is not an error; the store just starts empty.
func Apply(ctx context.Context, s *store.Store, path string, log *zap.Logger) (bool, error) {
	if !s.Empty() || path == "" {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("seed file not found, starting empty", zap.String("path", path))
			return false, nil
		}
		return false, fmt.Errorf("read seed file: %w", err)
	}
	e, err := Parse(data)
	if err != nil {
		return false, err
	}

	s.Lock()
	defer s.Unlock()
	s.Restore(store.Document{Entities: e})
	if err := s.Save(ctx); err != nil {
		return false, err
	}
	log.Info("store seeded",
		zap.String("path", path),
		zap.Int("products", len(e.Products)),
		zap.Int("components", len(e.Components)),
		zap.Int("customers", len(e.Customers)),
		zap.Int("users", len(e.Users)),
	)
	return true, nil
}
