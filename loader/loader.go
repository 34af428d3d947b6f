// Package loader reads rule test suites from case files, filters them and
// summarizes what they cover.
//
// A case file is YAML (JSON files are read as YAML) with a rule name, shared
// rule options and config, and lists of valid and invalid cases. Callback
// expectations cannot be expressed in files.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/options"
	"github.com/tylerbu/stylelint-test-lib/types"
)

// Suite is the content of one case file.
type Suite struct {
	Path        string
	Rule        string
	RuleOptions any
	Config      config.Stylelint
	Valid       []types.TestCase
	Invalid     []types.TestCase
}

// CaseLoader loads suites below a directory.
type CaseLoader struct {
	Root string
}

// LoadOptions controls which suites are returned
type LoadOptions struct {
	FilterMode   FilterMode
	Rule         string           // used with FilterRule
	CustomFilter func(Suite) bool // used with FilterCustom
}

// FilterMode specifies how suites should be filtered
type FilterMode int

const (
	FilterAll    FilterMode = iota // All suites (no filtering)
	FilterRule                     // Only suites for LoadOptions.Rule
	FilterCustom                   // Use custom filter function
)

// Extensions lists the file extensions recognized as case files.
var Extensions = []string{".yaml", ".yml", ".json"}

// NewCaseLoader creates a loader rooted at dir
func NewCaseLoader(dir string) *CaseLoader {
	return &CaseLoader{Root: dir}
}

// LoadAll loads every case file below Root, sorted by path.
func (cl *CaseLoader) LoadAll(opts LoadOptions) ([]Suite, error) {
	var files []string
	err := filepath.WalkDir(cl.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isCaseFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find case files: %w", err)
	}
	sort.Strings(files)

	var suites []Suite
	for _, file := range files {
		suite, err := cl.LoadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		suites = append(suites, *suite)
	}

	return applyFiltering(suites, opts), nil
}

// LoadByRule loads the suites for one rule
func (cl *CaseLoader) LoadByRule(rule string) ([]Suite, error) {
	return cl.LoadAll(LoadOptions{FilterMode: FilterRule, Rule: rule})
}

// LoadFile loads a single case file
func (cl *CaseLoader) LoadFile(filename string) (*Suite, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	suite, err := Parse(f)
	if err != nil {
		return nil, err
	}
	suite.Path = filename
	return suite, nil
}

func isCaseFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range Extensions {
		if ext == known {
			return true
		}
	}
	return false
}

func applyFiltering(suites []Suite, opts LoadOptions) []Suite {
	switch opts.FilterMode {
	case FilterRule:
		var filtered []Suite
		for _, s := range suites {
			if s.Rule == opts.Rule {
				filtered = append(filtered, s)
			}
		}
		return filtered
	case FilterCustom:
		if opts.CustomFilter == nil {
			return suites
		}
		var filtered []Suite
		for _, s := range suites {
			if opts.CustomFilter(s) {
				filtered = append(filtered, s)
			}
		}
		return filtered
	default:
		return suites
	}
}

type suiteFile struct {
	Schema      string         `yaml:"$schema"`
	Rule        string         `yaml:"rule"`
	RuleOptions any            `yaml:"ruleOptions"`
	Config      map[string]any `yaml:"config"`
	Valid       []fileCase     `yaml:"valid"`
	Invalid     []fileCase     `yaml:"invalid"`
}

// Parse decodes a case file. Unknown top-level keys are rejected.
func Parse(r io.Reader) (*Suite, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file suiteFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("case file is empty")
		}
		return nil, fmt.Errorf("failed to parse case file: %w", err)
	}
	if file.Rule == "" {
		return nil, fmt.Errorf("case file does not name a rule")
	}

	suite := &Suite{
		Rule:        file.Rule,
		RuleOptions: file.RuleOptions,
		Config:      config.Stylelint(file.Config),
	}
	for _, c := range file.Valid {
		suite.Valid = append(suite.Valid, c.TestCase)
	}
	for i, c := range file.Invalid {
		if !c.HasAssertions() {
			return nil, fmt.Errorf("invalid case %d (%q) has no output or diagnostic expectation", i, c.Code)
		}
		suite.Invalid = append(suite.Invalid, c.TestCase)
	}
	return suite, nil
}

// Batch returns the suite's cases for tester.Run.
func (s Suite) Batch() types.Batch {
	batch := types.Batch{}
	for _, c := range s.Valid {
		batch.Valid = append(batch.Valid, c)
	}
	for _, c := range s.Invalid {
		batch.Invalid = append(batch.Invalid, c)
	}
	return batch
}

// Tester derives the tester configuration for the suite from base: the
// suite's rule, rule options, and config merged over the base config.
func (s Suite) Tester(base config.Tester) config.Tester {
	cfg := base.Clone()
	cfg.Name = s.Rule
	if cfg.Rule != nil && cfg.Rule.Name != "" && cfg.Rule.Name != s.Rule {
		cfg.Rule = nil
	}
	if s.RuleOptions != nil {
		cfg.RuleOptions = config.CloneValue(s.RuleOptions)
	}
	if s.Config != nil {
		cfg.StylelintConfig = options.DeepMerge(cfg.StylelintConfig, s.Config)
	}
	return cfg
}

// Label names a case the way the runner labels its subtest.
func Label(typ types.CaseType, index int, c types.TestCase) string {
	title := "Valid"
	if typ == types.Invalid {
		title = "Invalid"
	}
	label := c.Description
	if label == "" {
		label = c.Code
	}
	return fmt.Sprintf("%s #%d: %s", title, index, label)
}

// Statistics summarizes a set of suites
type Statistics struct {
	Suites       int
	ValidCases   int
	InvalidCases int
	WithOutput   int
	ByRule       map[string]int
	ByDialect    map[config.Dialect]int
}

// GetStatistics counts cases per rule and per source dialect. Cases without
// a filename count as CSS.
func GetStatistics(suites []Suite) Statistics {
	stats := Statistics{
		Suites:    len(suites),
		ByRule:    make(map[string]int),
		ByDialect: make(map[config.Dialect]int),
	}

	for _, s := range suites {
		stats.ValidCases += len(s.Valid)
		stats.InvalidCases += len(s.Invalid)
		stats.ByRule[s.Rule] += len(s.Valid) + len(s.Invalid)

		for _, c := range append(append([]types.TestCase{}, s.Valid...), s.Invalid...) {
			stats.ByDialect[config.DialectOf(c.Filename)]++
			if c.Output != nil {
				stats.WithOutput++
			}
		}
	}

	return stats
}
