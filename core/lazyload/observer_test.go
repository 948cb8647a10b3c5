package lazyload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersectionRatio(t *testing.T) {
	vp := Rect{X: 0, Y: 0, W: 100, H: 100}
	assert.Equal(t, 1.0, IntersectionRatio(Rect{X: 10, Y: 10, W: 20, H: 20}, vp))
	assert.Equal(t, 0.5, IntersectionRatio(Rect{X: 0, Y: 90, W: 100, H: 20}, vp))
	assert.Equal(t, 0.0, IntersectionRatio(Rect{X: 0, Y: 200, W: 10, H: 10}, vp))
}

func TestImageObserver_TriggersOnceAboveThreshold(t *testing.T) {
	o := NewImageObserver(0)
	o.Observe("a", Rect{Y: 95, W: 100, H: 100}) // 5% visible
	o.Observe("b", Rect{Y: 50, W: 100, H: 100}) // 50% visible

	events := o.Update(Rect{W: 100, H: 100})
	require.Len(t, events, 1)
	assert.Equal(t, "b", events[0].Key)
	assert.True(t, events[0].Visible)
	assert.False(t, o.Observing("b"), "trigger-once targets stop being observed")
	assert.True(t, o.Observing("a"))

	events = o.Update(Rect{Y: 20, W: 100, H: 100})
	require.Len(t, events, 1)
	assert.Equal(t, "a", events[0].Key)
	assert.Equal(t, 0, o.Len())
}

func TestObserver_RootMarginPreloadsNearbyTargets(t *testing.T) {
	o := NewImageObserver(50)
	o.Observe("near", Rect{Y: 130, W: 100, H: 40})
	events := o.Update(Rect{W: 100, H: 100})
	require.Len(t, events, 1)
	assert.Equal(t, "near", events[0].Key)
}

func TestObserver_ContinuousReportsLeaveEvents(t *testing.T) {
	o := NewObserver(Options{Threshold: 0.5})
	o.Observe("v", Rect{Y: 0, W: 100, H: 100})
	require.Len(t, o.Update(Rect{W: 100, H: 100}), 1)
	assert.Empty(t, o.Update(Rect{Y: 10, W: 100, H: 100}), "no transition while still visible")

	events := o.Update(Rect{Y: 80, W: 100, H: 100})
	require.Len(t, events, 1)
	assert.False(t, events[0].Visible)
}

func TestVideoObserver_UsesHigherThreshold(t *testing.T) {
	o := NewVideoObserver()
	o.Observe("clip", Rect{Y: 70, W: 100, H: 100})
	assert.Empty(t, o.Update(Rect{W: 100, H: 100}))
	events := o.Update(Rect{Y: 30, W: 100, H: 100})
	require.Len(t, events, 1)
	assert.GreaterOrEqual(t, events[0].Ratio, 0.5)
}

func TestImageLoader_LoadsOnceAndNeverRetriesFailures(t *testing.T) {
	l := NewImageLoader()
	assert.True(t, l.ShowPlaceholder("p"))
	require.True(t, l.Begin("p"))
	assert.False(t, l.Begin("p"), "second begin while loading must not refetch")
	l.Finish("p", errors.New("boom"))
	assert.Equal(t, ImageFailed, l.State("p"))
	assert.False(t, l.Begin("p"))
	assert.False(t, l.ShowPlaceholder("p"))

	require.True(t, l.Begin("q"))
	l.Finish("q", nil)
	assert.Equal(t, ImageLoaded, l.State("q"))
	l.Finish("q", errors.New("late"))
	assert.Equal(t, ImageLoaded, l.State("q"))

	l.Forget("p")
	assert.True(t, l.Begin("p"))
}
