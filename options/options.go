// Package options resolves the effective rule options and the full linter
// invocation for a single test case.
package options

import (
	"reflect"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/linter"
	"github.com/tylerbu/stylelint-test-lib/types"
)

// ResolveRuleMeta returns the rule metadata configured on the tester, or
// asks the linter when it can describe its rules.
func ResolveRuleMeta(cfg config.Tester, l linter.Linter) *config.RuleMeta {
	if cfg.Rule != nil && cfg.Rule.Meta != nil {
		meta := *cfg.Rule.Meta
		return &meta
	}
	if resolver, ok := l.(linter.MetaResolver); ok {
		if meta, found := resolver.RuleMeta(cfg.RuleName()); found {
			return &meta
		}
	}
	return nil
}

// ResolveRuleOptions returns the options for the single active rule.
//
// A non-slice value becomes [value]; a single-element slice is kept. Both
// get {url} appended when the rule has a documentation URL. Longer slices
// only get url injected into their secondary options when it is missing.
func ResolveRuleOptions(c types.NormalizedCase, cfg config.Tester, meta *config.RuleMeta) []any {
	var url string
	if meta != nil {
		url = meta.URL
	}

	resolved := c.RuleOptions
	if resolved == nil {
		resolved = cfg.RuleOptions
	}
	if resolved == nil {
		resolved = config.DefaultRuleOptions
	}

	resolved = config.CloneValue(resolved)
	values, isSlice := toSlice(resolved)
	if !isSlice {
		if url != "" {
			return []any{resolved, map[string]any{"url": url}}
		}
		return []any{resolved}
	}

	if len(values) <= 1 {
		if url != "" {
			var primary any
			if len(values) == 1 {
				primary = values[0]
			}
			return []any{primary, map[string]any{"url": url}}
		}
		return values
	}

	if url == "" {
		return values
	}
	if values[1] == nil {
		values[1] = map[string]any{"url": url}
		return values
	}
	if secondary, ok := toMap(values[1]); ok {
		if _, defined := secondary["url"]; !defined {
			secondary["url"] = url
			values[1] = secondary
		}
	}
	return values
}

// toMap copies any map with string keys into a new map[string]any.
func toMap(v any) (map[string]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len()+1)
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

// toSlice converts any slice or array (but not a string or byte slice) to []any.
func toSlice(v any) ([]any, bool) {
	if values, ok := v.([]any); ok {
		return values, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		values := make([]any, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
		return values, true
	default:
		return nil, false
	}
}

// ResolveLinterOptions builds the initial, non-fix invocation for a case.
func ResolveLinterOptions(cfg config.Tester, c types.NormalizedCase, ruleOptions []any) types.LinterOptions {
	merged := DeepMerge(cfg.StylelintConfig, c.StylelintConfig)
	if merged == nil {
		merged = config.Stylelint{}
	}
	merged["rules"] = map[string]any{
		cfg.RuleName(): ruleOptions,
	}

	return types.LinterOptions{
		Config:                   merged,
		Code:                     c.Code,
		CodeFilename:             c.Filename,
		Fix:                      false,
		QuietDeprecationWarnings: true,
		Extra:                    DeepMerge(cfg.LinterOptions, c.LinterOptions),
	}
}

// DeepMerge merges override over base without touching either. Maps merge
// key by key recursively; slices and scalars from override replace the
// base value entirely.
func DeepMerge(base, override config.Stylelint) config.Stylelint {
	if base == nil && override == nil {
		return nil
	}
	merged := base.Clone()
	if merged == nil {
		merged = config.Stylelint{}
	}
	for k, v := range override {
		baseMap, baseIsMap := asMap(merged[k])
		overMap, overIsMap := asMap(v)
		if baseIsMap && overIsMap {
			merged[k] = map[string]any(DeepMerge(baseMap, overMap))
			continue
		}
		merged[k] = config.CloneValue(v)
	}
	return merged
}

func asMap(v any) (config.Stylelint, bool) {
	switch m := v.(type) {
	case config.Stylelint:
		return m, true
	case map[string]any:
		return config.Stylelint(m), true
	default:
		return nil, false
	}
}
