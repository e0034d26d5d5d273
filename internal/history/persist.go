package history

import (
	"context"
	"errors"

	"github.com/JaimeStill/chateval/pkg/kv"
)

type kvPersister struct {
	store kv.System
	key   string
}

// NewKVPersister persists one session's history in the slot history/<session>.
func NewKVPersister(store kv.System, session string) Persister {
	return &kvPersister{store: store, key: kv.Key("history", session)}
}

func (p *kvPersister) Load(ctx context.Context) ([]Record, error) {
	data, err := p.store.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []Record{}, nil
		}
		return nil, err
	}
	return Decode(data)
}

func (p *kvPersister) Save(ctx context.Context, records []Record) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	return p.store.Put(ctx, p.key, data)
}

func (p *kvPersister) Delete(ctx context.Context) error {
	return p.store.Delete(ctx, p.key)
}
