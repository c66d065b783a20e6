package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/custodia-labs/fitedit/internal/core/domain"
	"github.com/custodia-labs/fitedit/internal/core/ports/driven"
)

// Ensure LedgerStore implements the interface.
var _ driven.LedgerStore = (*LedgerStore)(nil)

const ledgerSchemaURL = "urn:fitedit:ledger"

// ledgerSchema describes .uploaded_files.json: an array of paths.
// Repeated entries are tolerated; the ledger drops them on load.
const ledgerSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {"type": "string", "minLength": 1}
}`

// LedgerStore keeps each directory's ledger in a JSON file inside it.
type LedgerStore struct {
	schema *jsonschema.Schema
}

// NewLedgerStore creates a ledger store.
func NewLedgerStore() (*LedgerStore, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(ledgerSchema))
	if err != nil {
		return nil, fmt.Errorf("parsing ledger schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(ledgerSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding ledger schema: %w", err)
	}
	schema, err := c.Compile(ledgerSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling ledger schema: %w", err)
	}
	return &LedgerStore{schema: schema}, nil
}

// Path returns the ledger file location for dir.
func (s *LedgerStore) Path(dir string) string {
	return filepath.Join(dir, domain.LedgerFileName)
}

// Load reads and validates the ledger for dir.
func (s *LedgerStore) Load(_ context.Context, dir string) (*domain.Ledger, error) {
	path := s.Path(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrLedgerIO, path, err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", domain.ErrLedgerIO, path, err)
	}
	if err := s.schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %s does not hold a list of paths: %w", domain.ErrLedgerIO, path, err)
	}

	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", domain.ErrLedgerIO, path, err)
	}
	return domain.NewLedger(dir, paths), nil
}

// Save writes the full ledger, replacing the previous file atomically.
func (s *LedgerStore) Save(_ context.Context, l *domain.Ledger) error {
	paths := l.Paths()
	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding ledger: %w", domain.ErrLedgerIO, err)
	}

	path := s.Path(l.Dir)
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", domain.ErrLedgerIO, path, err)
	}
	return nil
}
