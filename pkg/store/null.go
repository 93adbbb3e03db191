package store

import "context"

// NullStore discards every record.
type NullStore struct{}

func (NullStore) Save(ctx context.Context, rec *Record) error { return nil }

func (NullStore) Get(ctx context.Context, id string) (*Record, error) { return nil, ErrNotFound }

func (NullStore) List(ctx context.Context, opts ListOptions) ([]*Record, error) { return nil, nil }

func (NullStore) Delete(ctx context.Context, id string) error { return ErrNotFound }

func (NullStore) Close() error { return nil }

var _ Store = NullStore{}
