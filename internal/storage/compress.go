package storage

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// CompressedStore сжимает значения zstd перед записью в нижележащее хранилище.
// Ключи не изменяются, поэтому Scan по префиксу работает как прежде.
type CompressedStore struct {
	Store

	compressor   *zstd.Encoder
	decompressor *zstd.Decoder
}

// Compressed оборачивает store сжатием
func Compressed(store Store) (*CompressedStore, error) {
	compressor, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}
	decompressor, err := zstd.NewReader(nil)
	if err != nil {
		compressor.Close()
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}

	return &CompressedStore{
		Store:        store,
		compressor:   compressor,
		decompressor: decompressor,
	}, nil
}

func (s *CompressedStore) Put(ctx context.Context, key string, value []byte) error {
	return s.Store.Put(ctx, key, s.compressor.EncodeAll(value, nil))
}

func (s *CompressedStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.Store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.decode(key, raw)
}

func (s *CompressedStore) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	return s.Store.Scan(ctx, prefix, func(key string, raw []byte) error {
		value, err := s.decode(key, raw)
		if err != nil {
			return err
		}
		return fn(key, value)
	})
}

func (s *CompressedStore) Close() error {
	s.compressor.Close()
	s.decompressor.Close()
	return s.Store.Close()
}

func (s *CompressedStore) decode(key string, raw []byte) ([]byte, error) {
	value, err := s.decompressor.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("повреждённая запись %s: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}
