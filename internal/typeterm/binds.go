package typeterm

import (
	"github.com/pkg/errors"
)

// Target distinguishes which backend a DependencyT was declared for.
type Target int

const (
	TargetRust Target = iota
	TargetNode
)

// ResolveDependency walks dep through TypeT aliasing until it reaches a
// RustT or NodeT wrapping a DependencyT, per §3.1.3: "dep must reduce via
// Type wrappers to a target-tagged Rust(Dependency(...)) or
// Node(Dependency(...)). Any other shape is a compile-time failure with an
// explicit message."
func ResolveDependency(dep T) (Target, *DependencyT, error) {
	switch v := Degroup(dep).(type) {
	case *RustT:
		d, err := asDependency(v.Dep)
		return TargetRust, d, err
	case *NodeT:
		d, err := asDependency(v.Dep)
		return TargetNode, d, err
	default:
		return 0, nil, errors.Errorf(
			"invalid dependency shape %s: expected Rust(Dependency(...)) or Node(Dependency(...))",
			ToFunctionalString(dep),
		)
	}
}

func asDependency(t T) (*DependencyT, error) {
	if d, ok := Degroup(t).(*DependencyT); ok {
		return d, nil
	}
	return nil, errors.Errorf("invalid dependency shape %s: expected Dependency(name, version)", ToFunctionalString(t))
}

// ValidateBinds checks the three legal NativeName shapes for a BindsT
// (§3.1.3): a bare StringT symbol, or an ImportT naming a StringT symbol
// sourced from a resolvable dependency.
func ValidateBinds(b *BindsT) error {
	switch v := Degroup(b.NativeName).(type) {
	case *StringT:
		return nil
	case *ImportT:
		if _, ok := Degroup(v.Symbol).(*StringT); !ok {
			return errors.Errorf("invalid Import symbol %s: expected a string", ToFunctionalString(v.Symbol))
		}
		_, _, err := ResolveDependency(v.Dep)
		if err != nil {
			return errors.Wrap(err, "invalid Binds dependency")
		}
		return nil
	default:
		return errors.Errorf("invalid Binds native name %s: expected a string or Import(...)", ToFunctionalString(b.NativeName))
	}
}
