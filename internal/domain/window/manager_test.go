package window

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

type mockRegistry map[string]types.ApplicationDescriptor

func (r mockRegistry) Lookup(appID string) (types.ApplicationDescriptor, bool) {
	d, ok := r[appID]
	return d, ok
}

func newTestManager() *Manager {
	return NewManager(mockRegistry{
		"browser":  {ID: "browser", Title: "HoloNet", DefaultWidth: 1100, DefaultHeight: 700},
		"settings": {ID: "settings", Title: "Sys Config", DefaultWidth: 800, DefaultHeight: 550, Singleton: true},
	})
}

func mustOpen(t *testing.T, m *Manager, appID string) string {
	t.Helper()
	winID, err := m.Open(appID)
	require.NoError(t, err)
	return winID
}

func stacking(t *testing.T, m *Manager, winID string) uint64 {
	t.Helper()
	w, ok := m.Get(winID)
	require.True(t, ok, "window %s should exist", winID)
	return w.Stacking
}

func maxStacking(m *Manager) uint64 {
	var max uint64
	for _, w := range m.Snapshot().Windows {
		if w.Stacking > max {
			max = w.Stacking
		}
	}
	return max
}

func TestScenario(t *testing.T) {
	m := newTestManager()

	settingsID := mustOpen(t, m, "settings")
	assert.Len(t, m.Snapshot().Windows, 1)
	assert.Equal(t, uint64(1), stacking(t, m, settingsID))
	assert.Equal(t, settingsID, m.Focused())

	again := mustOpen(t, m, "settings")
	assert.Equal(t, settingsID, again)
	assert.Len(t, m.Snapshot().Windows, 1)
	assert.Equal(t, uint64(2), stacking(t, m, settingsID))

	browser1 := mustOpen(t, m, "browser")
	browser2 := mustOpen(t, m, "browser")
	assert.NotEqual(t, browser1, browser2)
	assert.Len(t, m.Snapshot().Windows, 3)
	assert.Equal(t, uint64(3), stacking(t, m, browser1))
	assert.Equal(t, uint64(4), stacking(t, m, browser2))

	require.True(t, m.Close(settingsID))
	snap := m.Snapshot()
	require.Len(t, snap.Windows, 2)
	for _, w := range snap.Windows {
		assert.Equal(t, "browser", w.AppID)
	}
	// Close clears focus only when the closed window held it. settings lost
	// focus when browser2 opened, so browser2 keeps it.
	assert.Equal(t, browser2, snap.Focused)

	require.True(t, m.Minimize(browser1))
	browser3 := mustOpen(t, m, "browser")
	assert.Len(t, m.Snapshot().Windows, 3)
	assert.NotEqual(t, browser1, browser3)

	w1, _ := m.Get(browser1)
	assert.True(t, w1.Minimized)
	assert.Equal(t, uint64(3), w1.Stacking)
}

func TestCloseFocusedLeavesNoFocus(t *testing.T) {
	m := newTestManager()

	first := mustOpen(t, m, "browser")
	second := mustOpen(t, m, "browser")
	require.Equal(t, second, m.Focused())

	require.True(t, m.Close(second))
	assert.Equal(t, "", m.Focused(), "focus must not be promoted to another window")

	_, ok := m.Get(first)
	assert.True(t, ok)
}

func TestOpenUnknownApplication(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "browser")

	winID, err := m.Open("hologram")
	assert.ErrorIs(t, err, ErrUnknownApplication)
	assert.Empty(t, winID)
	assert.Len(t, m.Snapshot().Windows, 1)
	assert.Equal(t, uint64(1), m.Snapshot().Counter)
}

func TestOpenCreatesWindowFromDescriptor(t *testing.T) {
	m := newTestManager()

	first := mustOpen(t, m, "browser")
	second := mustOpen(t, m, "browser")

	w1, _ := m.Get(first)
	assert.Equal(t, "HoloNet", w1.Title)
	assert.Equal(t, types.Geometry{X: 100, Y: 80, Width: 1100, Height: 700}, w1.Geometry)
	assert.False(t, w1.Minimized)
	assert.False(t, w1.Maximized)

	w2, _ := m.Get(second)
	assert.Equal(t, 140, w2.Geometry.X)
	assert.Equal(t, 120, w2.Geometry.Y)
}

func TestSingletonRestoresMinimized(t *testing.T) {
	m := newTestManager()

	settingsID := mustOpen(t, m, "settings")
	mustOpen(t, m, "browser")
	require.True(t, m.Minimize(settingsID))

	w, _ := m.Get(settingsID)
	require.True(t, w.Minimized)

	got := mustOpen(t, m, "settings")
	assert.Equal(t, settingsID, got)
	assert.Len(t, m.Snapshot().Windows, 2)

	w, _ = m.Get(settingsID)
	assert.False(t, w.Minimized)
	assert.Equal(t, settingsID, m.Focused())
	assert.Equal(t, maxStacking(m), w.Stacking)
}

func TestSingletonCountsMaximizedWindows(t *testing.T) {
	m := newTestManager()

	settingsID := mustOpen(t, m, "settings")
	require.True(t, m.ToggleMaximize(settingsID))
	require.True(t, m.Minimize(settingsID))

	assert.Equal(t, settingsID, mustOpen(t, m, "settings"))
	w, _ := m.Get(settingsID)
	assert.True(t, w.Maximized, "maximized survives minimize and restore")
	assert.False(t, w.Minimized)
}

func TestMinimize(t *testing.T) {
	m := newTestManager()

	first := mustOpen(t, m, "browser")
	second := mustOpen(t, m, "browser")

	t.Run("unfocused window keeps focus elsewhere", func(t *testing.T) {
		require.True(t, m.Minimize(first))
		assert.Equal(t, second, m.Focused())
		assert.Len(t, m.Snapshot().Windows, 2)
	})

	t.Run("focused window loses focus", func(t *testing.T) {
		require.True(t, m.Minimize(second))
		assert.Equal(t, "", m.Focused())
		w, _ := m.Get(second)
		assert.True(t, w.Minimized)
		assert.Len(t, m.Snapshot().Windows, 2)
	})
}

func TestToggleMaximizeIsItsOwnInverse(t *testing.T) {
	m := newTestManager()

	winID := mustOpen(t, m, "browser")
	require.True(t, m.Move(winID, 10, 20))
	require.True(t, m.Resize(winID, 300, 200))
	before, _ := m.Get(winID)

	require.True(t, m.ToggleMaximize(winID))
	mid, _ := m.Get(winID)
	assert.True(t, mid.Maximized)
	assert.Equal(t, before.Geometry, mid.Geometry)

	require.True(t, m.ToggleMaximize(winID))
	after, _ := m.Get(winID)
	assert.Equal(t, before.Maximized, after.Maximized)
	assert.Equal(t, before.Geometry, after.Geometry)
}

func TestToggleMaximizeFocuses(t *testing.T) {
	m := newTestManager()

	first := mustOpen(t, m, "browser")
	mustOpen(t, m, "browser")
	require.True(t, m.Minimize(first))

	require.True(t, m.ToggleMaximize(first))
	w, _ := m.Get(first)
	assert.Equal(t, first, m.Focused())
	assert.Equal(t, maxStacking(m), w.Stacking)
	assert.False(t, w.Minimized)
}

func TestFocus(t *testing.T) {
	m := newTestManager()

	first := mustOpen(t, m, "browser")
	second := mustOpen(t, m, "browser")
	require.True(t, m.Minimize(first))

	before := m.Snapshot().Counter
	require.True(t, m.Focus(first))

	w, _ := m.Get(first)
	assert.Equal(t, before+1, w.Stacking, "counter increments exactly once")
	assert.Equal(t, maxStacking(m), w.Stacking)
	assert.False(t, w.Minimized)
	assert.Equal(t, first, m.Focused())

	other, _ := m.Get(second)
	assert.Less(t, other.Stacking, w.Stacking)

	// Focusing the front window still bumps the counter
	require.True(t, m.Focus(first))
	w, _ = m.Get(first)
	assert.Equal(t, before+2, w.Stacking)
}

func TestMoveAndResizeWhileMaximized(t *testing.T) {
	m := newTestManager()

	winID := mustOpen(t, m, "browser")
	require.True(t, m.ToggleMaximize(winID))
	focusedBefore := m.Focused()
	counterBefore := m.Snapshot().Counter

	require.True(t, m.Move(winID, -50, 5000))
	require.True(t, m.Resize(winID, 0, -1))

	w, _ := m.Get(winID)
	assert.True(t, w.Maximized)
	assert.Equal(t, types.Geometry{X: -50, Y: 5000, Width: 0, Height: -1}, w.Geometry)
	assert.Equal(t, focusedBefore, m.Focused())
	assert.Equal(t, counterBefore, m.Snapshot().Counter, "geometry changes never touch stacking")

	require.True(t, m.ToggleMaximize(winID))
	w, _ = m.Get(winID)
	assert.Equal(t, -50, w.Geometry.X)
}

func TestMoveLastWriteWins(t *testing.T) {
	m := newTestManager()
	winID := mustOpen(t, m, "browser")

	for i := 0; i < 10; i++ {
		m.Move(winID, i, i*2)
	}
	w, _ := m.Get(winID)
	assert.Equal(t, 9, w.Geometry.X)
	assert.Equal(t, 18, w.Geometry.Y)
}

func TestMissingWindowIsNoop(t *testing.T) {
	m := newTestManager()
	winID := mustOpen(t, m, "browser")
	before := m.Snapshot()

	ops := map[string]func() bool{
		"close":    func() bool { return m.Close("win_missing") },
		"minimize": func() bool { return m.Minimize("win_missing") },
		"maximize": func() bool { return m.ToggleMaximize("win_missing") },
		"focus":    func() bool { return m.Focus("win_missing") },
		"move":     func() bool { return m.Move("win_missing", 1, 1) },
		"resize":   func() bool { return m.Resize("win_missing", 1, 1) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.False(t, op())
			assert.Equal(t, before, m.Snapshot())
		})
	}

	// Closing twice is a stale-id race, not an error
	require.True(t, m.Close(winID))
	assert.False(t, m.Close(winID))
}

func TestStackingValuesNeverReused(t *testing.T) {
	m := newTestManager()

	first := mustOpen(t, m, "browser")
	s1 := stacking(t, m, first)
	require.True(t, m.Close(first))

	second := mustOpen(t, m, "browser")
	assert.Greater(t, stacking(t, m, second), s1)
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := newTestManager()
	apps := []string{"browser", "settings"}

	var lastCounter uint64
	for step := 0; step < 2000; step++ {
		snap := m.Snapshot()
		pick := func() string {
			if len(snap.Windows) == 0 || rng.Intn(10) == 0 {
				return "win_stale"
			}
			return snap.Windows[rng.Intn(len(snap.Windows))].ID
		}

		switch rng.Intn(7) {
		case 0, 1:
			_, err := m.Open(apps[rng.Intn(len(apps))])
			require.NoError(t, err)
		case 2:
			m.Close(pick())
		case 3:
			m.Minimize(pick())
		case 4:
			m.ToggleMaximize(pick())
		case 5:
			target := pick()
			if m.Focus(target) {
				w, _ := m.Get(target)
				require.Equal(t, maxStacking(m), w.Stacking)
			}
		case 6:
			m.Move(pick(), rng.Intn(2000), rng.Intn(2000))
		}

		snap = m.Snapshot()
		require.GreaterOrEqual(t, snap.Counter, lastCounter, "counter never decreases")
		lastCounter = snap.Counter

		seen := make(map[uint64]bool)
		singletons := 0
		for _, w := range snap.Windows {
			require.False(t, seen[w.Stacking], "stacking values must be unique")
			require.LessOrEqual(t, w.Stacking, snap.Counter)
			seen[w.Stacking] = true
			if w.AppID == "settings" {
				singletons++
			}
		}
		require.LessOrEqual(t, singletons, 1, "single-instance app opened twice")

		if snap.Focused != "" {
			w, ok := snap.Find(snap.Focused)
			require.True(t, ok, "focused window must be live")
			require.False(t, w.Minimized)
		}
	}
}

func TestListOrderedByStacking(t *testing.T) {
	m := newTestManager()

	a := mustOpen(t, m, "browser")
	b := mustOpen(t, m, "browser")
	c := mustOpen(t, m, "browser")
	require.True(t, m.Focus(a))

	var order []string
	for _, w := range m.List() {
		order = append(order, w.ID)
	}
	assert.Equal(t, []string{b, c, a}, order)
}

func TestSnapshotIsACopy(t *testing.T) {
	m := newTestManager()
	winID := mustOpen(t, m, "browser")

	snap := m.Snapshot()
	snap.Windows[0].Title = "tampered"

	w, _ := m.Get(winID)
	assert.Equal(t, "HoloNet", w.Title)
}

func TestSubscribe(t *testing.T) {
	m := newTestManager()

	var got []types.Snapshot
	unsubscribe := m.Subscribe(func(s types.Snapshot) {
		got = append(got, s)
	})

	winID := mustOpen(t, m, "browser")
	m.Focus(winID)
	m.Focus("win_missing")

	require.Len(t, got, 2, "no-ops publish nothing")
	assert.Equal(t, uint64(1), got[0].Counter)
	assert.Equal(t, uint64(2), got[1].Counter)

	unsubscribe()
	unsubscribe()
	m.Close(winID)
	assert.Len(t, got, 2)
}

func TestStatsAndCloseAll(t *testing.T) {
	m := newTestManager()

	a := mustOpen(t, m, "browser")
	b := mustOpen(t, m, "browser")
	mustOpen(t, m, "settings")
	m.Minimize(a)
	m.ToggleMaximize(b)

	stats := m.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Minimized)
	assert.Equal(t, 1, stats.Maximized)
	assert.Equal(t, b, stats.Focused)

	assert.Equal(t, 3, m.CloseAll())
	assert.Equal(t, 0, m.Stats().Total)
	assert.Equal(t, "", m.Focused())
	assert.Equal(t, 0, m.CloseAll())
}

func TestConcurrentOperations(t *testing.T) {
	m := newTestManager()

	var wg sync.WaitGroup
	ids := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			winID, err := m.Open("browser")
			if err != nil {
				t.Errorf("open %d: %v", i, err)
				return
			}
			m.Move(winID, i, i)
			m.Focus(winID)
			ids <- winID
		}(i)
	}
	wg.Wait()
	close(ids)

	snap := m.Snapshot()
	assert.Len(t, snap.Windows, 100)
	assert.Equal(t, uint64(200), snap.Counter)

	seen := make(map[uint64]bool)
	for _, w := range snap.Windows {
		assert.False(t, seen[w.Stacking], fmt.Sprintf("duplicate stacking %d", w.Stacking))
		seen[w.Stacking] = true
	}
}
