package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// InstanceStorage is the storage view handed to a single actor instance.
// Values are JSON encoded.
type InstanceStorage struct {
	store Store
	name  string
}

// Instance returns the storage scoped to the named instance.
func Instance(store Store, name string) *InstanceStorage {
	return &InstanceStorage{store: store, name: name}
}

// Name returns the instance name.
func (s *InstanceStorage) Name() string {
	return s.name
}

// Get decodes the value under key into v. It reports false when the key is absent.
func (s *InstanceStorage) Get(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.store.GetValue(ctx, s.name, key)
	if err != nil {
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// Put encodes v and stores it under key.
func (s *InstanceStorage) Put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := s.store.PutValue(ctx, s.name, key, raw); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *InstanceStorage) Delete(ctx context.Context, key string) error {
	if err := s.store.DeleteValue(ctx, s.name, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// SetAlarm replaces the instance's pending alarm.
func (s *InstanceStorage) SetAlarm(ctx context.Context, at time.Time) error {
	return s.store.SetAlarm(ctx, s.name, at)
}

// GetAlarm returns the pending alarm, or nil.
func (s *InstanceStorage) GetAlarm(ctx context.Context) (*time.Time, error) {
	return s.store.GetAlarm(ctx, s.name)
}

// DeleteAlarm clears the pending alarm.
func (s *InstanceStorage) DeleteAlarm(ctx context.Context) error {
	return s.store.DeleteAlarm(ctx, s.name)
}
