package scope

import (
	deadlock "github.com/sasha-s/go-deadlock"
	"github.com/pkg/errors"
)

// Target selects which backend the driver is compiling for (§3.4, §6.3).
type Target int

const (
	TargetSystems Target = iota
	TargetScript
)

// Program is the process-wide registry holding every loaded scope keyed by
// source path, plus the target-language flag (§3.4). It exposes a guarded
// borrow protocol (§5): the lowerer often needs to consult scopes other
// than the one it is currently constructing, and Program enforces a
// single-writer/many-reader discipline with no reentrancy.
//
// go-deadlock's RWMutex is used instead of sync.RWMutex specifically
// because it detects (and panics with a stack trace on) the one mistake
// the borrow protocol exists to prevent: a goroutine re-entering Borrow
// while it still holds an outstanding borrow on the same Program.
type Program struct {
	mu         deadlock.RWMutex
	scopes     map[string]*Scope
	root       *Scope
	target     Target
	targetSet  bool
}

func NewProgram() *Program {
	return &Program{scopes: map[string]*Scope{}}
}

// SetTargetLang sets the target-language flag. Must be called before any
// lowering begins (§6.3): "Program.set_target_lang_*".
func (p *Program) SetTargetLang(t Target) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.target = t
	p.targetSet = true
}

func (p *Program) TargetLang() Target {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.target
}

// SetRoot installs the always-loaded `@root` scope (§6.4): intrinsic
// generics, primitive types, and the arithmetic/bitwise/comparison/string
// operator mappings. Any source file may reference it unqualified.
func (p *Program) SetRoot(root *Scope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = root
	p.scopes[root.Path] = root
}

func (p *Program) Root() *Scope {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.root
}

// AddScope registers a loaded file's scope, keyed by its path.
func (p *Program) AddScope(s *Scope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scopes[s.Path] = s
}

// Borrow takes an immutable view of the scope at path for the duration of
// fn, then automatically returns it. Modeling the borrow/return pair as a
// single scoped call (rather than separate Borrow/Return methods) makes the
// "every borrow must be balanced before any recursive call that might
// itself borrow" rule (§5, §9) impossible to violate by forgetting the
// matching Return.
func (p *Program) Borrow(path string, fn func(*Scope) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.scopes[path]
	if !ok {
		return errors.Errorf("no scope loaded for path %q", path)
	}
	return fn(s)
}

// BorrowWrite takes the single-writer lock for mutations that must not race
// with any reader (e.g. installing a newly synthesized function into the
// scope's Lowered cache from a borrowed context). Per §5, a writer borrow
// must likewise be returned before any call that could itself borrow.
func (p *Program) BorrowWrite(path string, fn func(*Scope) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.scopes[path]
	if !ok {
		return errors.Errorf("no scope loaded for path %q", path)
	}
	return fn(s)
}

// Scopes exposes the read-only file->scope table for the driver's manifest
// serialization step; callers must not mutate the returned map.
func (p *Program) Scopes() map[string]*Scope {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]*Scope, len(p.scopes))
	for k, v := range p.scopes {
		out[k] = v
	}
	return out
}
