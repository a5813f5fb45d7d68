package redis

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/blb/internal/game/sheet"
	"github.com/cory-johannsen/blb/internal/storage"
)

// CharacterRepository stores each record as a JSON string under <prefix>:character:<id> and
// indexes IDs in the set <prefix>:characters.
type CharacterRepository struct {
	client goredis.UniversalClient
	prefix string
}

var _ storage.Repository = (*CharacterRepository)(nil)

// NewCharacterRepository creates a repository over client. An empty prefix leaves keys
// unprefixed.
//
// Precondition: client must be non-nil.
func NewCharacterRepository(client goredis.UniversalClient, prefix string) *CharacterRepository {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &CharacterRepository{client: client, prefix: prefix}
}

func (r *CharacterRepository) key(id string) string {
	if r.prefix == "" {
		return fmt.Sprintf("character:%s", id)
	}
	return fmt.Sprintf("%s:character:%s", r.prefix, id)
}

func (r *CharacterRepository) indexKey() string {
	if r.prefix == "" {
		return "characters"
	}
	return r.prefix + ":characters"
}

// Create stores a new record. The key and its index entry are written in one MULTI/EXEC
// transaction, so a stored key is never left out of the index.
//
// Postcondition: Returns storage.ErrCharacterExists if the key is already set; the index
// then still holds the ID.
func (r *CharacterRepository) Create(ctx context.Context, rec sheet.Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	id := rec.Character.ID
	var created *goredis.BoolCmd
	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		created = pipe.SetNX(ctx, r.key(id), data, 0)
		pipe.SAdd(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("creating character in redis: %w", err)
	}
	if !created.Val() {
		return storage.ErrCharacterExists
	}
	return nil
}

// Get loads a record by character ID.
//
// Postcondition: Returns the record or storage.ErrCharacterNotFound.
func (r *CharacterRepository) Get(ctx context.Context, id string) (sheet.Record, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return sheet.Record{}, storage.ErrCharacterNotFound
		}
		return sheet.Record{}, fmt.Errorf("getting character from redis: %w", err)
	}
	return decode(data)
}

// Save creates or replaces a record.
func (r *CharacterRepository) Save(ctx context.Context, rec sheet.Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	id := rec.Character.ID
	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(id), data, 0)
	pipe.SAdd(ctx, r.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving character to redis: %w", err)
	}
	return nil
}

// Delete removes a record and its index entry.
//
// Postcondition: Returns storage.ErrCharacterNotFound if the key was not set.
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	pipe := r.client.Pipeline()
	del := pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deleting character from redis: %w", err)
	}
	if del.Val() == 0 {
		return storage.ErrCharacterNotFound
	}
	return nil
}

// List returns summaries of every indexed character, ordered by name then ID. Index
// entries whose record has vanished are skipped.
func (r *CharacterRepository) List(ctx context.Context) ([]storage.Summary, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing characters from redis: %w", err)
	}
	out := make([]storage.Summary, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	slices.Sort(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading characters from redis: %w", err)
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		rec, err := decode([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, storage.SummaryOf(rec))
	}
	slices.SortStableFunc(out, func(a, b storage.Summary) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func encode(rec sheet.Record) (string, error) {
	if err := storage.CheckRecord(rec); err != nil {
		return "", err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal character record: %w", err)
	}
	return string(data), nil
}

func decode(data []byte) (sheet.Record, error) {
	var rec sheet.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return sheet.Record{}, fmt.Errorf("failed to unmarshal character record: %w", err)
	}
	if rec.Character == nil {
		return sheet.Record{}, errors.New("stored record has no character")
	}
	return rec, nil
}
