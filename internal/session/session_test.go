package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apotekanet/crm-api/internal/gateway"
)

// scriptedGateway controls identity resolution and records sign-outs.
type scriptedGateway struct {
	identity    *gateway.Identity
	identityErr error
	signOutErr  error
	signedOut   chan struct{}
	listCalls   int
}

func newScriptedGateway() *scriptedGateway {
	return &scriptedGateway{signedOut: make(chan struct{}, 1)}
}

func (s *scriptedGateway) List(ctx context.Context, collection, orderBy string) ([]gateway.Record, error) {
	s.listCalls++
	return nil, nil
}

func (s *scriptedGateway) Insert(ctx context.Context, collection string, fields gateway.Record) (gateway.Record, error) {
	return nil, nil
}

func (s *scriptedGateway) Update(ctx context.Context, collection, id string, fields gateway.Record) (gateway.Record, error) {
	return nil, nil
}

func (s *scriptedGateway) Delete(ctx context.Context, collection, id string) error { return nil }

func (s *scriptedGateway) CurrentIdentity(ctx context.Context) (*gateway.Identity, error) {
	return s.identity, s.identityErr
}

func (s *scriptedGateway) SignOut(ctx context.Context) error {
	select {
	case s.signedOut <- struct{}{}:
	default:
	}
	return s.signOutErr
}

func TestStartsLoading(t *testing.T) {
	a := New(newScriptedGateway())

	assert.Equal(t, StateLoading, a.State())
	assert.True(t, a.IsLoading())
	assert.Nil(t, a.CurrentIdentity())
}

func TestResolveWithoutSessionGoesUnauthenticated(t *testing.T) {
	gw := newScriptedGateway()
	a := New(gw)

	a.Resolve(context.Background())

	assert.Equal(t, StateUnauthenticated, a.State())
	assert.False(t, a.IsLoading())
	assert.Nil(t, a.CurrentIdentity())
	assert.Equal(t, 0, gw.listCalls, "no list controller load before authentication")
}

func TestResolveFailureGoesUnauthenticated(t *testing.T) {
	gw := newScriptedGateway()
	gw.identityErr = &gateway.Failure{Message: "network"}
	a := New(gw)

	a.Resolve(context.Background())

	assert.Equal(t, StateUnauthenticated, a.State())
	assert.Nil(t, a.CurrentIdentity())
}

func TestResolveCachesProfile(t *testing.T) {
	gw := newScriptedGateway()
	gw.identity = &gateway.Identity{ID: "u1", FullName: "Ana K.", Role: "sales_rep"}
	a := New(gw)

	a.Resolve(context.Background())

	require.Equal(t, StateAuthenticated, a.State())
	p := a.CurrentIdentity()
	require.NotNil(t, p)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "Ana K.", p.FullName)
}

func TestSignOutIsLocallyAuthoritative(t *testing.T) {
	gw := newScriptedGateway()
	gw.identity = &gateway.Identity{ID: "u1", Role: "admin"}
	gw.signOutErr = &gateway.Failure{Message: "remote unreachable"}
	a := New(gw)
	a.Resolve(context.Background())
	require.Equal(t, StateAuthenticated, a.State())

	a.SignOut(context.Background())

	// local transition is immediate even though the remote call failed
	assert.Equal(t, StateUnauthenticated, a.State())
	assert.Nil(t, a.CurrentIdentity())

	select {
	case <-gw.signedOut:
	case <-time.After(time.Second):
		t.Fatal("remote sign-out was never attempted")
	}
}

func TestSignOutSurvivesCancelledContext(t *testing.T) {
	gw := newScriptedGateway()
	gw.identity = &gateway.Identity{ID: "u1"}
	a := New(gw)
	a.Resolve(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.SignOut(ctx)

	assert.Equal(t, StateUnauthenticated, a.State())
	select {
	case <-gw.signedOut:
	case <-time.After(time.Second):
		t.Fatal("remote sign-out was never attempted")
	}
}
