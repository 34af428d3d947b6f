package config

import "fmt"

// Behavior holds the fix-loop flags. Nil fields are unset and inherit from
// the less specific level (case < tester < defaults).
type Behavior struct {
	// Recursive bounds the stabilizing fix loop. RecursionDisabled turns it off.
	Recursive *int

	// VerifyAfterFix re-lints fixed code and expects zero warnings.
	VerifyAfterFix *bool

	// VerifyFixChanges is accepted and carried through but not consulted.
	VerifyFixChanges *bool
}

// ResolvedBehavior is the effective behavior for one case.
type ResolvedBehavior struct {
	Recursive        int
	Recurse          bool
	VerifyAfterFix   bool
	VerifyFixChanges bool
}

// Int returns a pointer to n, for Behavior literals.
func Int(n int) *int { return &n }

// Bool returns a pointer to b, for Behavior literals.
func Bool(b bool) *bool { return &b }

// Merge returns b with every field set in override replacing its own.
func (b Behavior) Merge(override Behavior) Behavior {
	merged := b.clone()
	if override.Recursive != nil {
		merged.Recursive = Int(*override.Recursive)
	}
	if override.VerifyAfterFix != nil {
		merged.VerifyAfterFix = Bool(*override.VerifyAfterFix)
	}
	if override.VerifyFixChanges != nil {
		merged.VerifyFixChanges = Bool(*override.VerifyFixChanges)
	}
	return merged
}

// Resolve applies the defaults to unset fields.
func (b Behavior) Resolve() ResolvedBehavior {
	resolved := ResolvedBehavior{
		Recursive:        DefaultRecursive,
		Recurse:          true,
		VerifyAfterFix:   true,
		VerifyFixChanges: true,
	}
	if b.Recursive != nil {
		if *b.Recursive <= RecursionDisabled {
			resolved.Recursive = 0
			resolved.Recurse = false
		} else {
			resolved.Recursive = *b.Recursive
		}
	}
	if b.VerifyAfterFix != nil {
		resolved.VerifyAfterFix = *b.VerifyAfterFix
	}
	if b.VerifyFixChanges != nil {
		resolved.VerifyFixChanges = *b.VerifyFixChanges
	}
	return resolved
}

// Validate rejects recursion budgets below RecursionDisabled.
func (b Behavior) Validate() error {
	if b.Recursive != nil && *b.Recursive < RecursionDisabled {
		return &ConfigError{
			Type:    "invalid_recursive",
			Message: fmt.Sprintf("recursive must be >= 0 or RecursionDisabled, got %d", *b.Recursive),
		}
	}
	return nil
}

func (b Behavior) clone() Behavior {
	var clone Behavior
	if b.Recursive != nil {
		clone.Recursive = Int(*b.Recursive)
	}
	if b.VerifyAfterFix != nil {
		clone.VerifyAfterFix = Bool(*b.VerifyAfterFix)
	}
	if b.VerifyFixChanges != nil {
		clone.VerifyFixChanges = Bool(*b.VerifyFixChanges)
	}
	return clone
}
