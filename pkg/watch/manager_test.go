package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/timepiece/pkg/animation"
	"github.com/go-drift/timepiece/pkg/scene/scenetest"
)

func newTestManager(t *testing.T) (*Manager, *scenetest.Host, *scenetest.Player) {
	t.Helper()
	clock := animation.NewManualClock(time.Date(2026, 8, 31, 1, 1, 1, 0, time.UTC))
	prev := animation.SetClock(clock)
	t.Cleanup(func() { animation.SetClock(prev) })

	host := scenetest.NewHost()
	player := scenetest.NewPlayer()
	m := NewManager(nil, host, player, nil)
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return m, host, player
}

func TestManagerDispense(t *testing.T) {
	m, host, player := newTestManager(t)

	inst, err := m.Dispense(context.Background(), "classic", "alice", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "alice", inst.Spec().Owner)
	assert.Equal(t, "UTC", inst.Spec().Timezone)
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, 4, host.Created())
	assert.Equal(t, 3, player.Active())
}

func TestManagerDispenseUnknownModel(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Dispense(context.Background(), "hourglass", "alice", "")
	require.Error(t, err)
	assert.Equal(t, 0, m.Count())
}

func TestManagerDispenseDigitalFails(t *testing.T) {
	m, host, _ := newTestManager(t)

	_, err := m.Dispense(context.Background(), "segment", "alice", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDigitalUnsupported)
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, 0, host.Created())
}

func TestManagerSharesClipCacheAcrossDispenses(t *testing.T) {
	m, host, player := newTestManager(t)

	a, err := m.Dispense(context.Background(), "classic", "alice", "UTC")
	require.NoError(t, err)
	b, err := m.Dispense(context.Background(), "classic", "bob", "UTC")
	require.NoError(t, err)
	require.NotEqual(t, a.ID(), b.ID())

	// Same model, frozen clock: identical phase, so both wearers' hands
	// bind the very same clip objects.
	nodes := host.LiveNodes()
	clipsByDuration := map[time.Duration][]*animation.Clip{}
	for _, n := range nodes {
		for _, bind := range player.BindsFor(n.ID()) {
			d := bind.Clip.Duration()
			clipsByDuration[d] = append(clipsByDuration[d], bind.Clip)
		}
	}
	require.Len(t, clipsByDuration, 3, "one catch-up duration per hand")
	for d, clips := range clipsByDuration {
		require.Len(t, clips, 2, d)
		assert.Same(t, clips[0], clips[1])
	}
	assert.Equal(t, 3, m.Cache().Len())
}

func TestManagerOnWearerLeft(t *testing.T) {
	m, host, player := newTestManager(t)

	_, err := m.Dispense(context.Background(), "classic", "alice", "UTC")
	require.NoError(t, err)
	_, err = m.Dispense(context.Background(), "diver", "alice", "UTC")
	require.NoError(t, err)
	_, err = m.Dispense(context.Background(), "classic", "bob", "UTC")
	require.NoError(t, err)
	require.Equal(t, 3, m.Count())

	require.NoError(t, m.OnWearerLeft(context.Background(), "alice"))
	assert.Equal(t, 1, m.Count())
	assert.Len(t, host.LiveNodes(), 4, "only bob's watch remains")
	assert.Equal(t, 3, player.Active())

	// A wearer with no watches is a no-op.
	require.NoError(t, m.OnWearerLeft(context.Background(), "carol"))
	assert.Equal(t, 1, m.Count())
}

func TestManagerRelease(t *testing.T) {
	m, host, _ := newTestManager(t)

	inst, err := m.Dispense(context.Background(), "classic", "", "UTC")
	require.NoError(t, err)

	require.NoError(t, m.Release(context.Background(), inst.ID()))
	assert.Equal(t, 0, m.Count())
	assert.Empty(t, host.LiveNodes())
	assert.False(t, inst.Alive())

	// Unknown IDs and double releases are no-ops.
	require.NoError(t, m.Release(context.Background(), inst.ID()))
	require.NoError(t, m.Release(context.Background(), "no-such-instance"))
}

func TestManagerSetCatalog(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Dispense(context.Background(), "minimal", "", "UTC")
	require.Error(t, err)

	custom := DefaultCatalog()
	spec := analogModel("minimal", "asset://watch/minimal")
	custom.Watches = append(custom.Watches, spec)
	m.SetCatalog(custom)

	_, err = m.Dispense(context.Background(), "minimal", "", "UTC")
	require.NoError(t, err)
}

func TestManagerClose(t *testing.T) {
	m, host, player := newTestManager(t)

	_, err := m.Dispense(context.Background(), "classic", "alice", "UTC")
	require.NoError(t, err)
	_, err = m.Dispense(context.Background(), "diver", "bob", "UTC")
	require.NoError(t, err)

	require.NoError(t, m.Close(context.Background()))
	assert.Equal(t, 0, m.Count())
	assert.Empty(t, host.LiveNodes())
	assert.Equal(t, 0, player.Active())
}
