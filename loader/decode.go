package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tylerbu/stylelint-test-lib/config"
	"github.com/tylerbu/stylelint-test-lib/types"
)

// fileCase decodes one case: a bare string of code, or a mapping.
type fileCase struct {
	types.TestCase
}

type caseFields struct {
	Code          string         `yaml:"code"`
	Filename      string         `yaml:"filename"`
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	RuleOptions   any            `yaml:"ruleOptions"`
	Config        map[string]any `yaml:"config"`
	LinterOptions map[string]any `yaml:"linterOptions"`

	Warnings              yaml.Node `yaml:"warnings"`
	ParseErrors           yaml.Node `yaml:"parseErrors"`
	Deprecations          yaml.Node `yaml:"deprecations"`
	InvalidOptionWarnings yaml.Node `yaml:"invalidOptionWarnings"`
	Output                yaml.Node `yaml:"output"`

	Recursive        *int  `yaml:"recursive"`
	VerifyAfterFix   *bool `yaml:"verifyAfterFix"`
	VerifyFixChanges *bool `yaml:"verifyFixChanges"`

	Only bool `yaml:"only"`
	Skip bool `yaml:"skip"`
}

func (fc *fileCase) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var code string
		if err := node.Decode(&code); err != nil {
			return err
		}
		fc.TestCase = types.TestCase{Code: code}
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: a case must be a string or a mapping", node.Line)
	}

	var fields caseFields
	if err := node.Decode(&fields); err != nil {
		return err
	}

	c := types.TestCase{
		Code:          fields.Code,
		Filename:      fields.Filename,
		Name:          fields.Name,
		Description:   fields.Description,
		RuleOptions:   fields.RuleOptions,
		LinterOptions: config.Stylelint(fields.LinterOptions),
		Behavior: config.Behavior{
			Recursive:        fields.Recursive,
			VerifyAfterFix:   fields.VerifyAfterFix,
			VerifyFixChanges: fields.VerifyFixChanges,
		},
		Only: fields.Only,
		Skip: fields.Skip,
	}
	if fields.Config != nil {
		c.StylelintConfig = config.Stylelint(fields.Config)
	}

	var err error
	if c.Warnings, err = decodeExpectation(&fields.Warnings); err != nil {
		return fmt.Errorf("warnings: %w", err)
	}
	if c.ParseErrors, err = decodeExpectation(&fields.ParseErrors); err != nil {
		return fmt.Errorf("parseErrors: %w", err)
	}
	if c.Deprecations, err = decodeExpectation(&fields.Deprecations); err != nil {
		return fmt.Errorf("deprecations: %w", err)
	}
	if c.InvalidOptionWarnings, err = decodeExpectation(&fields.InvalidOptionWarnings); err != nil {
		return fmt.Errorf("invalidOptionWarnings: %w", err)
	}
	if c.Output, err = decodeOutput(&fields.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	fc.TestCase = c
	return nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

// decodeExpectation reads a count or a list of messages. Absent and null
// values mean no expectation.
func decodeExpectation(node *yaml.Node) (types.Expectation, error) {
	if node.Kind == 0 || isNull(node) {
		return nil, nil
	}

	switch node.Kind {
	case yaml.ScalarNode:
		var n int
		if err := node.Decode(&n); err != nil {
			return nil, fmt.Errorf("line %d: expected a count or a list of messages", node.Line)
		}
		if n < 0 {
			return nil, fmt.Errorf("line %d: count must not be negative", node.Line)
		}
		return types.Count(n), nil
	case yaml.SequenceNode:
		messages := make(types.Messages, 0, len(node.Content))
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				var text string
				if err := item.Decode(&text); err != nil {
					return nil, err
				}
				messages = append(messages, text)
			case yaml.MappingNode:
				var fields map[string]any
				if err := item.Decode(&fields); err != nil {
					return nil, err
				}
				messages = append(messages, types.Partial(fields))
			default:
				return nil, fmt.Errorf("line %d: a message must be a string or a mapping", item.Line)
			}
		}
		return messages, nil
	default:
		return nil, fmt.Errorf("line %d: expected a count or a list of messages", node.Line)
	}
}

// decodeOutput maps null to Unchanged and a string to Exact.
func decodeOutput(node *yaml.Node) (types.Output, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if isNull(node) {
		return types.Unchanged{}, nil
	}
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: output must be a string or null", node.Line)
	}
	var output string
	if err := node.Decode(&output); err != nil {
		return nil, err
	}
	return types.Exact(output), nil
}
