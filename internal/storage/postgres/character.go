package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/blb/internal/game/character"
	"github.com/cory-johannsen/blb/internal/game/inventory"
	"github.com/cory-johannsen/blb/internal/game/sheet"
	"github.com/cory-johannsen/blb/internal/storage"
)

const characterColumns = `id, name, portrait, race, archetype, attack,
	brawn_base, brawn_bonus, wit_base, wit_bonus, will_base, will_bonus,
	affluence_base, affluence_bonus, observation_base, observation_bonus,
	vigour_current, vigour_max, grip_base, armor_base, xp, advancement`

const (
	uniqueViolation = "23505"
	charactersPKey  = "characters_pkey"
)

// CharacterRepository stores characters one row per character in the characters table and
// their items, in order, in character_items with each item's body as JSONB.
type CharacterRepository struct {
	db *pgxpool.Pool
}

var _ storage.Repository = (*CharacterRepository)(nil)

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a new character and its items in one transaction.
//
// Precondition: rec.Character.ID must be non-empty.
// Postcondition: Returns storage.ErrCharacterExists if the ID is already stored.
func (r *CharacterRepository) Create(ctx context.Context, rec sheet.Record) error {
	if err := storage.CheckRecord(rec); err != nil {
		return err
	}
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO characters (`+characterColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
			characterArgs(rec.Character)...,
		); err != nil {
			return err
		}
		return insertItems(ctx, tx, rec)
	})
	if err != nil {
		if isCharacterConflict(err) {
			return storage.ErrCharacterExists
		}
		return fmt.Errorf("inserting character: %w", err)
	}
	return nil
}

// Get retrieves a character and its items by character ID.
//
// Postcondition: Returns the record or storage.ErrCharacterNotFound.
func (r *CharacterRepository) Get(ctx context.Context, id string) (sheet.Record, error) {
	var c character.Character
	err := r.db.QueryRow(ctx, `
		SELECT `+characterColumns+` FROM characters WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.Name, &c.Portrait, &c.Race, &c.Archetype, &c.Attack,
		&c.Brawn.Base, &c.Brawn.Bonus, &c.Wit.Base, &c.Wit.Bonus, &c.Will.Base, &c.Will.Bonus,
		&c.Affluence.Base, &c.Affluence.Bonus, &c.Observation.Base, &c.Observation.Bonus,
		&c.Vigour.Current, &c.Vigour.Max, &c.Grip.Base, &c.Armor.Base, &c.XP, &c.Advancement,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sheet.Record{}, storage.ErrCharacterNotFound
		}
		return sheet.Record{}, fmt.Errorf("querying character: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT data FROM character_items WHERE character_id = $1 ORDER BY position ASC`,
		id,
	)
	if err != nil {
		return sheet.Record{}, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	items := make([]*inventory.Item, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return sheet.Record{}, fmt.Errorf("scanning item row: %w", err)
		}
		var it inventory.Item
		if err := json.Unmarshal(data, &it); err != nil {
			return sheet.Record{}, fmt.Errorf("decoding item: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return sheet.Record{}, fmt.Errorf("reading items: %w", err)
	}
	return sheet.Record{Character: &c, Items: items}, nil
}

// Save upserts the character row and replaces its items in one transaction.
//
// Precondition: rec.Character.ID must be non-empty.
func (r *CharacterRepository) Save(ctx context.Context, rec sheet.Record) error {
	if err := storage.CheckRecord(rec); err != nil {
		return err
	}
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO characters (`+characterColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, portrait = EXCLUDED.portrait, race = EXCLUDED.race,
				archetype = EXCLUDED.archetype, attack = EXCLUDED.attack,
				brawn_base = EXCLUDED.brawn_base, brawn_bonus = EXCLUDED.brawn_bonus,
				wit_base = EXCLUDED.wit_base, wit_bonus = EXCLUDED.wit_bonus,
				will_base = EXCLUDED.will_base, will_bonus = EXCLUDED.will_bonus,
				affluence_base = EXCLUDED.affluence_base, affluence_bonus = EXCLUDED.affluence_bonus,
				observation_base = EXCLUDED.observation_base, observation_bonus = EXCLUDED.observation_bonus,
				vigour_current = EXCLUDED.vigour_current, vigour_max = EXCLUDED.vigour_max,
				grip_base = EXCLUDED.grip_base, armor_base = EXCLUDED.armor_base,
				xp = EXCLUDED.xp, advancement = EXCLUDED.advancement,
				updated_at = NOW()`,
			characterArgs(rec.Character)...,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM character_items WHERE character_id = $1`, rec.Character.ID); err != nil {
			return err
		}
		return insertItems(ctx, tx, rec)
	})
	if err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	return nil
}

// Delete removes a character; its items go with it.
//
// Postcondition: Returns storage.ErrCharacterNotFound if no row was deleted.
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrCharacterNotFound
	}
	return nil
}

// List returns summaries of every stored character, ordered by name then ID.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]storage.Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, archetype FROM characters ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	out := make([]storage.Summary, 0)
	for rows.Next() {
		var s storage.Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Archetype); err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func characterArgs(c *character.Character) []any {
	return []any{
		c.ID, c.Name, c.Portrait, c.Race, c.Archetype, c.Attack,
		c.Brawn.Base, c.Brawn.Bonus, c.Wit.Base, c.Wit.Bonus, c.Will.Base, c.Will.Bonus,
		c.Affluence.Base, c.Affluence.Bonus, c.Observation.Base, c.Observation.Bonus,
		c.Vigour.Current, c.Vigour.Max, c.Grip.Base, c.Armor.Base, c.XP, c.Advancement,
	}
}

// insertItems queues one insert per item and sends them as a single batch.
func insertItems(ctx context.Context, tx pgx.Tx, rec sheet.Record) error {
	if len(rec.Items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for pos, it := range rec.Items {
		data, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encoding item %q: %w", it.Name, err)
		}
		batch.Queue(`
			INSERT INTO character_items (character_id, id, position, kind, name, data)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.Character.ID, it.ID, pos, string(it.Kind), it.Name, data,
		)
	}
	return tx.SendBatch(ctx, batch).Close()
}

// isCharacterConflict reports whether err is a unique violation of the characters primary
// key. Item key conflicts within one record are not character conflicts.
func isCharacterConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation && pgErr.ConstraintName == charactersPKey
	}
	return false
}
