package portal_test

import (
	"context"
	"errors"
	"sync"
)

type memKV struct {
	mu     sync.Mutex
	m      map[string][]byte
	puts   []string
	failOn string
}

func newMemKV() *memKV { return &memKV{m: map[string][]byte{}} }

func (k *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.m[key]
	return v, ok, nil
}

func (k *memKV) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if key == k.failOn {
		return errors.New("disk full")
	}
	k.m[key] = append([]byte(nil), value...)
	k.puts = append(k.puts, key)
	return nil
}
