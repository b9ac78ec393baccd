package store

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Well-known document names. These are the only keys the documents table
// accepts; each has an embedded JSON Schema it must conform to.
const (
	// DocUserPrefs holds favorite websites, daily routines, and frequently
	// used apps.
	DocUserPrefs = "user_prefs"

	// DocMoodLog holds the append-only, timestamp-ordered mood history.
	DocMoodLog = "mood_log"

	// DocChatHistory holds the rolling context window of dialogue turns.
	DocChatHistory = "chat_history"
)

// ErrNotFound is returned by Load when the document has never been saved.
var ErrNotFound = errors.New("store: document not found")

//go:embed schemas/*.json
var schemasFS embed.FS

// Documents is the whole-document read/write interface over the documents
// table. Load and Save validate against the document's JSON Schema, so a
// corrupt or hand-edited store is detected instead of silently accepted.
type Documents struct {
	store   *Store
	schemas map[string]*jsonschema.Schema
}

// NewDocuments compiles the embedded schemas and returns a Documents facade
// over the given store.
func NewDocuments(s *Store) (*Documents, error) {
	compiler := jsonschema.NewCompiler()
	names := []string{DocUserPrefs, DocMoodLog, DocChatHistory}

	schemas := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		raw, err := schemasFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("store: read schema %s: %w", name, err)
		}
		url := name + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("store: add schema %s: %w", name, err)
		}
		sch, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("store: compile schema %s: %w", name, err)
		}
		schemas[name] = sch
	}

	return &Documents{store: s, schemas: schemas}, nil
}

// Load reads the named document into v. Returns ErrNotFound when the
// document has never been saved. The stored body is validated against the
// document's schema before unmarshalling.
func (d *Documents) Load(ctx context.Context, name string, v any) error {
	sch, ok := d.schemas[name]
	if !ok {
		return fmt.Errorf("store: unknown document %q", name)
	}

	var body string
	err := d.store.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE name = ?`, name,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: load %q: %w", name, err)
	}

	if err := validate(sch, []byte(body)); err != nil {
		return fmt.Errorf("store: document %q failed schema validation: %w", name, err)
	}

	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("store: decode %q: %w", name, err)
	}
	return nil
}

// Save validates v against the named document's schema and overwrites the
// document wholesale. The upsert runs as a single statement, so a reader
// sees either the previous document or the new one, never a mix.
func (d *Documents) Save(ctx context.Context, name string, v any) error {
	sch, ok := d.schemas[name]
	if !ok {
		return fmt.Errorf("store: unknown document %q", name)
	}

	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", name, err)
	}

	if err := validate(sch, body); err != nil {
		return fmt.Errorf("store: refusing to save invalid %q document: %w", name, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = d.store.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, name, string(body), now)
	if err != nil {
		return fmt.Errorf("store: save %q: %w", name, err)
	}
	return nil
}

// validate checks raw JSON against a compiled schema.
func validate(sch *jsonschema.Schema, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("not valid JSON: %w", err)
	}
	return sch.Validate(doc)
}
