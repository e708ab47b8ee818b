package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"statwire/internal/period"
)

var (
	// ErrExists signals a write-once artifact already being present.
	ErrExists = errors.New("snapshot: artifact already exists")
	// ErrNotFound signals a missing artifact.
	ErrNotFound = errors.New("snapshot: artifact not found")
)

// Store is the file-backed persistence layer. One tree per dataset:
//
//	<root>/<dataset>/raw/<YYYY-MM>.json
//	<root>/<dataset>/normalized/<YYYY-MM>.json
//	<root>/<dataset>/candidate.json
//	<root>/<dataset>/latest.json
//	<root>/<dataset>/audit/<YYYY-MM>.json
type Store struct {
	root   string
	logger zerolog.Logger
}

// NewStore builds a Store rooted at the given directory.
func NewStore(root string, logger zerolog.Logger) *Store {
	return &Store{root: root, logger: logger.With().Str("component", "store").Logger()}
}

func (s *Store) rawPath(dataset string, p period.Period) string {
	return filepath.Join(s.root, dataset, "raw", p.String()+".json")
}

func (s *Store) normalizedPath(dataset string, p period.Period) string {
	return filepath.Join(s.root, dataset, "normalized", p.String()+".json")
}

func (s *Store) candidatePath(dataset string) string {
	return filepath.Join(s.root, dataset, "candidate.json")
}

func (s *Store) productionPath(dataset string) string {
	return filepath.Join(s.root, dataset, "latest.json")
}

func (s *Store) auditPath(dataset string, p period.Period) string {
	return filepath.Join(s.root, dataset, "audit", p.String()+".json")
}

// WriteRaw persists a raw snapshot write-once. Returns ErrExists when
// the period was already fetched.
func (s *Store) WriteRaw(raw Raw) error {
	return s.writeOnce(s.rawPath(raw.Dataset, raw.ReferencePeriod), raw)
}

// ReadRaw loads the raw snapshot for a period.
func (s *Store) ReadRaw(dataset string, p period.Period) (Raw, error) {
	var raw Raw
	if err := s.readJSON(s.rawPath(dataset, p), &raw); err != nil {
		return Raw{}, err
	}
	return raw, nil
}

// WriteNormalized persists a normalized snapshot write-once.
func (s *Store) WriteNormalized(n Normalized) error {
	return s.writeOnce(s.normalizedPath(n.Dataset, n.ReferencePeriod), n)
}

// ReadNormalized loads the normalized snapshot for a period. A
// missing file returns ErrNotFound; callers walking history treat
// that as a null slot, not a failure.
func (s *Store) ReadNormalized(dataset string, p period.Period) (Normalized, error) {
	var n Normalized
	if err := s.readJSON(s.normalizedPath(dataset, p), &n); err != nil {
		return Normalized{}, err
	}
	return n, nil
}

// NormalizedExists reports whether a period was already normalized.
func (s *Store) NormalizedExists(dataset string, p period.Period) bool {
	_, err := os.Stat(s.normalizedPath(dataset, p))
	return err == nil
}

// LatestRawPeriod scans the raw tree for the newest fetched period.
func (s *Store) LatestRawPeriod(dataset string) (period.Period, bool, error) {
	return s.latestPeriod(filepath.Join(s.root, dataset, "raw"))
}

// LatestNormalizedPeriod scans the normalized tree for the newest
// persisted period.
func (s *Store) LatestNormalizedPeriod(dataset string) (period.Period, bool, error) {
	return s.latestPeriod(filepath.Join(s.root, dataset, "normalized"))
}

func (s *Store) latestPeriod(dir string) (period.Period, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return period.Period{}, false, nil
		}
		return period.Period{}, false, fmt.Errorf("scan %s: %w", dir, err)
	}

	var periods []period.Period
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".json")
		if name == entry.Name() {
			continue
		}
		p, err := period.Parse(name)
		if err != nil {
			continue
		}
		periods = append(periods, p)
	}
	if len(periods) == 0 {
		return period.Period{}, false, nil
	}

	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods[len(periods)-1], true, nil
}

// WriteCandidate persists the candidate document, overwriting any
// previous drafting run.
func (s *Store) WriteCandidate(doc Document) error {
	return s.writeJSON(s.candidatePath(doc.Dataset), doc)
}

// ReadCandidate loads the candidate document.
func (s *Store) ReadCandidate(dataset string) (Document, error) {
	var doc Document
	if err := s.readJSON(s.candidatePath(dataset), &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ReadProduction loads the production document. The boolean is false
// when no document has been promoted yet.
func (s *Store) ReadProduction(dataset string) (Document, bool, error) {
	var doc Document
	err := s.readJSON(s.productionPath(dataset), &doc)
	if errors.Is(err, ErrNotFound) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, err
	}
	return doc, true, nil
}

// Promote atomically swaps the candidate into production. The rename
// is a single syscall so a reader never observes a half-written
// production document; on failure the candidate remains in place.
func (s *Store) Promote(dataset string) error {
	candidate := s.candidatePath(dataset)
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, candidate)
		}
		return err
	}
	if err := os.Rename(candidate, s.productionPath(dataset)); err != nil {
		return fmt.Errorf("promote candidate: %w", err)
	}
	s.logger.Info().Str("dataset", dataset).Msg("candidate promoted to production")
	return nil
}

// WriteAuditReport persists the review outcome. Always written, pass
// or fail, overwriting any earlier report for the period.
func (s *Store) WriteAuditReport(dataset string, p period.Period, report any) error {
	return s.writeJSON(s.auditPath(dataset, p), report)
}

func (s *Store) writeOnce(path string, v any) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return s.writeJSON(path, v)
}

// writeJSON writes via a temp file and rename in the same directory
// so partially written artifacts are never observable.
func (s *Store) writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".statwire-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func (s *Store) readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
