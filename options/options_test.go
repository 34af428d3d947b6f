package options

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/types"
)

const docURL = "https://stylelint.io/user-guide/rules/no-empty-source"

func withOptions(opts any) types.NormalizedCase {
	return types.NormalizedCase{TestCase: types.TestCase{RuleOptions: opts}, Type: types.Valid}
}

func TestResolveRuleOptions_Defaults(t *testing.T) {
	got := ResolveRuleOptions(withOptions(nil), config.Tester{}, nil)
	assert.Equal(t, []any{true}, got)

	got = ResolveRuleOptions(withOptions(nil), config.Tester{}, &config.RuleMeta{URL: docURL})
	assert.Equal(t, []any{true, map[string]any{"url": docURL}}, got)
}

func TestResolveRuleOptions_CasePrecedence(t *testing.T) {
	cfg := config.Tester{RuleOptions: "never"}

	assert.Equal(t, []any{"never"}, ResolveRuleOptions(withOptions(nil), cfg, nil))
	assert.Equal(t, []any{"always"}, ResolveRuleOptions(withOptions("always"), cfg, nil))
}

func TestResolveRuleOptions_NonSlice(t *testing.T) {
	got := ResolveRuleOptions(withOptions("always"), config.Tester{}, &config.RuleMeta{URL: docURL})
	assert.Equal(t, []any{"always", map[string]any{"url": docURL}}, got)
}

func TestResolveRuleOptions_SingleElement(t *testing.T) {
	assert.Equal(t, []any{nil}, ResolveRuleOptions(withOptions([]any{nil}), config.Tester{}, nil))

	got := ResolveRuleOptions(withOptions([]any{true}), config.Tester{}, &config.RuleMeta{URL: docURL})
	assert.Equal(t, []any{true, map[string]any{"url": docURL}}, got)

	got = ResolveRuleOptions(withOptions([]string{"always"}), config.Tester{}, nil)
	assert.Equal(t, []any{"always"}, got)
}

func TestResolveRuleOptions_MultiElement(t *testing.T) {
	secondary := map[string]any{"ignoreAtRules": []any{"unknown"}}

	got := ResolveRuleOptions(withOptions([]any{true, secondary}), config.Tester{}, nil)
	assert.Equal(t, []any{true, secondary}, got)

	got = ResolveRuleOptions(withOptions([]any{true, secondary}), config.Tester{}, &config.RuleMeta{URL: docURL})
	assert.Equal(t, []any{true, map[string]any{"ignoreAtRules": []any{"unknown"}, "url": docURL}}, got)
	assert.NotContains(t, secondary, "url", "secondary options of the case must not be modified")

	own := map[string]any{"url": "https://example.com/own"}
	got = ResolveRuleOptions(withOptions([]any{true, own}), config.Tester{}, &config.RuleMeta{URL: docURL})
	assert.Equal(t, []any{true, map[string]any{"url": "https://example.com/own"}}, got)
}

func TestResolveRuleOptions_TypedSecondaryMaps(t *testing.T) {
	meta := &config.RuleMeta{URL: docURL}

	tests := []struct {
		name      string
		secondary any
		want      any
	}{
		{"stylelint config", config.Stylelint{"severity": "warning"}, map[string]any{"severity": "warning", "url": docURL}},
		{"partial", types.Partial{"ignore": true}, map[string]any{"ignore": true, "url": docURL}},
		{"string map", map[string]string{"severity": "warning"}, map[string]any{"severity": "warning", "url": docURL}},
		{"string map with url", map[string]string{"url": "https://example.com/own"}, map[string]string{"url": "https://example.com/own"}},
		{"nil", nil, map[string]any{"url": docURL}},
		{"not a map", "warning", "warning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRuleOptions(withOptions([]any{true, tt.secondary}), config.Tester{}, meta)
			assert.Equal(t, []any{true, tt.want}, got)
		})
	}

	partial := types.Partial{"ignore": true}
	ResolveRuleOptions(withOptions([]any{true, partial}), config.Tester{}, meta)
	assert.NotContains(t, partial, "url", "typed secondary options must not be modified")
}

func TestResolveRuleOptions_Properties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("[x] without url stays [x]", prop.ForAll(
		func(x string) bool {
			got := ResolveRuleOptions(withOptions([]any{x}), config.Tester{}, nil)
			return len(got) == 1 && got[0] == x
		},
		gen.AlphaString(),
	))

	properties.Property("[x] with url becomes [x, {url}]", prop.ForAll(
		func(x, url string) bool {
			got := ResolveRuleOptions(withOptions([]any{x}), config.Tester{}, &config.RuleMeta{URL: "https://" + url})
			if len(got) != 2 || got[0] != x {
				return false
			}
			secondary, ok := got[1].(map[string]any)
			return ok && secondary["url"] == "https://"+url
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("an existing url is never overwritten", prop.ForAll(
		func(own string) bool {
			got := ResolveRuleOptions(withOptions([]any{true, map[string]any{"url": own}}), config.Tester{}, &config.RuleMeta{URL: docURL})
			secondary, ok := got[1].(map[string]any)
			return ok && secondary["url"] == own
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

type metaLinter struct {
	meta map[string]config.RuleMeta
}

func (m metaLinter) Lint(ctx context.Context, opts types.LinterOptions) (*types.LinterResult, error) {
	return &types.LinterResult{}, nil
}

func (m metaLinter) RuleMeta(name string) (config.RuleMeta, bool) {
	meta, ok := m.meta[name]
	return meta, ok
}

func TestResolveRuleMeta(t *testing.T) {
	l := metaLinter{meta: map[string]config.RuleMeta{"no-empty-source": {URL: docURL}}}

	got := ResolveRuleMeta(config.Tester{Name: "no-empty-source"}, l)
	require.NotNil(t, got)
	assert.Equal(t, docURL, got.URL)

	own := config.Tester{Name: "no-empty-source", Rule: &config.Rule{Meta: &config.RuleMeta{URL: "https://example.com"}}}
	assert.Equal(t, "https://example.com", ResolveRuleMeta(own, l).URL)

	assert.Nil(t, ResolveRuleMeta(config.Tester{Name: "unknown"}, l))
}

func TestDeepMerge(t *testing.T) {
	base := config.Stylelint{
		"customSyntax": "postcss-less",
		"plugins":      []any{"a", "b"},
		"overrides":    map[string]any{"files": "*.less", "nested": map[string]any{"keep": true, "swap": 1}},
	}
	override := config.Stylelint{
		"plugins":   []any{"c"},
		"overrides": map[string]any{"nested": map[string]any{"swap": 2}},
		"extra":     "x",
	}

	got := DeepMerge(base, override)

	assert.Equal(t, "postcss-less", got["customSyntax"])
	assert.Equal(t, []any{"c"}, got["plugins"], "slices are replaced, not concatenated")
	assert.Equal(t, "x", got["extra"])
	assert.Equal(t, map[string]any{
		"files":  "*.less",
		"nested": map[string]any{"keep": true, "swap": 2},
	}, got["overrides"])

	assert.Equal(t, []any{"a", "b"}, base["plugins"], "base must not be modified")
	assert.Equal(t, 1, base["overrides"].(map[string]any)["nested"].(map[string]any)["swap"])
}

func TestDeepMerge_Nil(t *testing.T) {
	assert.Nil(t, DeepMerge(nil, nil))
	assert.Equal(t, config.Stylelint{"a": 1}, DeepMerge(nil, config.Stylelint{"a": 1}))
	assert.Equal(t, config.Stylelint{"a": 1}, DeepMerge(config.Stylelint{"a": 1}, nil))
}

func TestResolveLinterOptions(t *testing.T) {
	cfg := config.Tester{
		Name:            "at-rule-no-unknown",
		StylelintConfig: config.Stylelint{"customSyntax": "postcss-less", "rules": map[string]any{"other-rule": true}},
		LinterOptions:   config.Stylelint{"cwd": "/tmp"},
	}
	c := types.NormalizedCase{
		TestCase: types.TestCase{
			Code:            "@unknown {}",
			Filename:        "unknown.less",
			StylelintConfig: config.Stylelint{"customSyntax": "postcss-scss"},
		},
		Type: types.Invalid,
	}

	got := ResolveLinterOptions(cfg, c, []any{true})

	assert.Equal(t, "@unknown {}", got.Code)
	assert.Equal(t, "unknown.less", got.CodeFilename)
	assert.False(t, got.Fix)
	assert.True(t, got.QuietDeprecationWarnings)
	assert.Equal(t, "postcss-scss", got.Config["customSyntax"])
	assert.Equal(t, map[string]any{"at-rule-no-unknown": []any{true}}, got.Config["rules"])
	assert.Equal(t, "/tmp", got.Extra["cwd"])

	assert.Equal(t, "postcss-less", cfg.StylelintConfig["customSyntax"], "tester config must not be modified")
}
