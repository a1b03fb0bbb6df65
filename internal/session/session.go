package session

import (
	"context"
	"log"
	"sync"

	"github.com/apotekanet/crm-api/internal/gateway"
)

// State of the authenticated-identity lifecycle.
type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

// Authority owns the session lifecycle: Loading until the existing
// credential resolves, then Authenticated with a cached Profile or
// Unauthenticated. Constructed explicitly and passed to every dependent
// component; there is no package-level instance.
type Authority struct {
	mu      sync.Mutex
	state   State
	profile *gateway.Identity

	gw gateway.Gateway
}

// New returns an Authority in the Loading state.
func New(gw gateway.Gateway) *Authority {
	return &Authority{state: StateLoading, gw: gw}
}

// Resolve attempts to resolve an existing credential. It blocks on the
// gateway; until it returns, dependents must keep showing their loading
// state and no list controller may start loading.
func (a *Authority) Resolve(ctx context.Context) {
	identity, err := a.gw.CurrentIdentity(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil || identity == nil {
		if err != nil {
			log.Printf("session: identity resolution failed: %v", err)
		}
		a.state = StateUnauthenticated
		a.profile = nil
		return
	}
	a.state = StateAuthenticated
	a.profile = identity
}

// SetAuthenticated installs a freshly logged-in identity. Login itself is
// an external collaborator.
func (a *Authority) SetAuthenticated(identity gateway.Identity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = StateAuthenticated
	a.profile = &identity
}

// CurrentIdentity returns the cached Profile, or nil outside the
// Authenticated state.
func (a *Authority) CurrentIdentity() *gateway.Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateAuthenticated {
		return nil
	}
	p := *a.profile
	return &p
}

// IsLoading reports whether the initial credential resolution is still in
// flight.
func (a *Authority) IsLoading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == StateLoading
}

// State returns the current lifecycle state.
func (a *Authority) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// SignOut transitions to Unauthenticated immediately and clears the cached
// Profile. Remote credential invalidation happens in the background and is
// best effort: a failure is logged, never observable to the caller.
func (a *Authority) SignOut(ctx context.Context) {
	a.mu.Lock()
	a.state = StateUnauthenticated
	a.profile = nil
	a.mu.Unlock()

	// outlives the caller's context on purpose
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := a.gw.SignOut(bg); err != nil {
			log.Printf("session: remote sign-out failed: %v", err)
		}
	}()
}
