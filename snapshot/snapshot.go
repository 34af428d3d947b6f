// Package snapshot turns execution results into stable, canonical JSON and
// compares them against golden files.
//
// Volatile parts of a result (the source path each linter result carries)
// are dropped, and the JSON is canonicalized with RFC 8785 so golden files
// only change when the linter's behavior does.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cyberphone "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tylerbu/stylelint-test-lib/types"
)

// UpdateEnv, when set to a non-empty value, makes Match rewrite golden files.
const UpdateEnv = "STYLELINT_TEST_UPDATE_SNAPSHOTS"

// Result is the snapshot of one lint pass.
type Result struct {
	Errored               bool                         `json:"errored"`
	Warnings              []types.Warning              `json:"warnings"`
	ParseErrors           []types.ParseError           `json:"parseErrors"`
	Deprecations          []types.Deprecation          `json:"deprecations"`
	InvalidOptionWarnings []types.InvalidOptionWarning `json:"invalidOptionWarnings"`
}

// Snapshot is the stable view of an ExecutionResult.
type Snapshot struct {
	Code         string  `json:"code"`
	Fixed        bool    `json:"fixed"`
	Attempts     int     `json:"attempts"`
	Probe        Result  `json:"probe"`
	Final        Result  `json:"final"`
	Verification *Result `json:"verification,omitempty"`
}

// NormalizeLintResult drops the source path and replaces nil collections
// with empty ones.
func NormalizeLintResult(r types.LintResult) Result {
	res := Result{
		Errored:               r.Errored,
		Warnings:              r.Warnings,
		ParseErrors:           r.ParseErrors,
		Deprecations:          r.Deprecations,
		InvalidOptionWarnings: r.InvalidOptionWarnings,
	}
	if res.Warnings == nil {
		res.Warnings = []types.Warning{}
	}
	if res.ParseErrors == nil {
		res.ParseErrors = []types.ParseError{}
	}
	if res.Deprecations == nil {
		res.Deprecations = []types.Deprecation{}
	}
	if res.InvalidOptionWarnings == nil {
		res.InvalidOptionWarnings = []types.InvalidOptionWarning{}
	}
	return res
}

// Normalize builds the snapshot of an execution result.
func Normalize(result *types.ExecutionResult) Snapshot {
	s := Snapshot{
		Code:     result.Code,
		Fixed:    result.Fixed,
		Attempts: len(result.Steps),
		Probe:    NormalizeLintResult(result.Probe),
		Final:    NormalizeLintResult(result.LintResult),
	}
	if result.Verification != nil {
		v := NormalizeLintResult(*result.Verification)
		s.Verification = &v
	}
	return s
}

// Canonical encodes v as RFC 8785 canonical JSON.
func Canonical(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	canonical, err := cyberphone.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize snapshot: %w", err)
	}
	return canonical, nil
}

// Store keeps golden files in Dir, one per snapshot name.
type Store struct {
	Dir     string
	Update  bool // rewrite golden files instead of comparing
	Verbose bool // log written files through the test handle
}

// NewStore creates a store. Update defaults to the UpdateEnv variable.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, Update: os.Getenv(UpdateEnv) != ""}
}

// Path returns the golden file for name. Path separators and spaces in the
// name become dashes.
func (s *Store) Path(name string) string {
	clean := strings.NewReplacer("/", "-", "\\", "-", " ", "-").Replace(name)
	return filepath.Join(s.Dir, clean+".json")
}

// Write stores the canonical snapshot of result under name.
func (s *Store) Write(name string, result *types.ExecutionResult) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	data, err := Canonical(Normalize(result))
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path(name), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// Read returns the stored canonical snapshot for name.
func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return []byte(strings.TrimSpace(string(data))), nil
}

type logger interface {
	Logf(format string, args ...any)
}

// Match compares result with the golden file for name, or rewrites the file
// when the store is in update mode. A missing golden file is a failure.
func (s *Store) Match(t types.TestingT, name string, result *types.ExecutionResult) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	if s.Update {
		require.NoError(t, s.Write(name, result))
		if l, ok := t.(logger); ok && s.Verbose {
			l.Logf("updated snapshot %s", s.Path(name))
		}
		return
	}

	want, err := s.Read(name)
	require.NoError(t, err, "run with %s=1 to create it", UpdateEnv)

	got, err := Canonical(Normalize(result))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got), "snapshot %s", name)
}
