// Package repository implements the durable storage behind actor instances:
// a per-instance key-value space plus one pending alarm per instance.
package repository

import (
	"context"
	"time"
)

// Store defines the interface for durable actor storage. Every method is
// scoped by the instance name; instances never see each other's records.
type Store interface {
	// Key-value operations. GetValue returns nil, nil when the key is absent.
	GetValue(ctx context.Context, instance, key string) ([]byte, error)
	PutValue(ctx context.Context, instance, key string, value []byte) error
	DeleteValue(ctx context.Context, instance, key string) error

	// Alarm operations. Each instance has at most one pending alarm;
	// SetAlarm overwrites it. GetAlarm returns nil, nil when none is set.
	SetAlarm(ctx context.Context, instance string, at time.Time) error
	GetAlarm(ctx context.Context, instance string) (*time.Time, error)
	DeleteAlarm(ctx context.Context, instance string) error
	ListDueAlarms(ctx context.Context, before time.Time, limit int) ([]string, error)

	// Lifecycle
	Close() error
}
