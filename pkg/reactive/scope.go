package reactive

import "sync"

// Scope owns a group of computations and tears them down together.
// Computations created while a scope is current (via Run or WithScope)
// register with it automatically; child scopes nest, and disposing a
// parent disposes the whole subtree.
//
// Scopes are how hosts bound the lifetime of reactive work to their own
// units (a component, a session, a request).
type Scope struct {
	id     uint64
	parent *Scope

	mu           sync.Mutex
	children     []*Scope
	computations []*Computation
	cleanups     []func()
	disposed     bool
}

// NewScope creates a scope. With a nil parent it attaches to the
// current scope (if any), forming the tree implicitly; pass an explicit
// parent to attach elsewhere.
func NewScope(parent *Scope) *Scope {
	if parent == nil {
		parent = currentScope()
	}

	s := &Scope{
		id:     nextID(),
		parent: parent,
	}
	if parent != nil {
		parent.adopt(s)
	}
	return s
}

// Run executes fn with this scope current, so computations created
// inside register here. No-op on a disposed scope.
func (s *Scope) Run(fn func()) {
	s.mu.Lock()
	dead := s.disposed
	s.mu.Unlock()
	if dead {
		return
	}

	WithScope(s, fn)
}

// OnCleanup registers fn to run when the scope is disposed. Cleanups
// run in reverse registration order, after the scope's computations
// have stopped. On a disposed scope fn runs immediately.
func (s *Scope) OnCleanup(fn func()) {
	if fn == nil {
		return
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
	s.mu.Unlock()
}

// Dispose stops every owned computation, disposes child scopes, and
// runs cleanups in reverse order. Idempotent; the scope cannot be
// reused afterward.
func (s *Scope) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	children := s.children
	comps := s.computations
	cleanups := s.cleanups
	s.children = nil
	s.computations = nil
	s.cleanups = nil
	s.mu.Unlock()

	for _, child := range children {
		child.Dispose()
	}
	for _, c := range comps {
		c.Stop()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	if s.parent != nil {
		s.parent.forget(s)
		s.parent = nil
	}
}

// Disposed reports whether Dispose has been called.
func (s *Scope) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// register takes ownership of a computation. If the scope is already
// disposed the computation is stopped immediately.
func (s *Scope) register(c *Computation) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		c.Stop()
		return
	}
	s.computations = append(s.computations, c)
	s.mu.Unlock()
}

func (s *Scope) adopt(child *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.children = append(s.children, child)
}

// forget drops a child disposed on its own, so the parent does not
// re-dispose it later.
func (s *Scope) forget(child *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.children {
		if c == child {
			s.children[i] = s.children[len(s.children)-1]
			s.children = s.children[:len(s.children)-1]
			return
		}
	}
}
