package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_StartsOptimistic(t *testing.T) {
	fb := newFakeBackend()
	m := NewMonitor(fb, time.Second, nil, testLogger())
	assert.True(t, m.Online())
}

func TestMonitor_ProbeTransitions(t *testing.T) {
	fb := newFakeBackend()
	m := NewMonitor(fb, time.Second, nil, testLogger())
	ctx := context.Background()

	fb.setUnavailable(true)
	assert.False(t, m.Probe(ctx))
	assert.False(t, m.Online())

	fb.setUnavailable(false)
	assert.True(t, m.Probe(ctx))
	assert.True(t, m.Online())
}

func TestMonitor_OnOnlineFiresOncePerTransition(t *testing.T) {
	fb := newFakeBackend()
	fired := 0
	m := NewMonitor(fb, time.Second, func(ctx context.Context) { fired++ }, testLogger())
	ctx := context.Background()

	// Already online, so a healthy probe is not a transition.
	m.Probe(ctx)
	m.Probe(ctx)
	assert.Equal(t, 0, fired)

	fb.setUnavailable(true)
	m.Probe(ctx)
	fb.setUnavailable(false)
	m.Probe(ctx)
	assert.Equal(t, 1, fired)

	m.Probe(ctx)
	assert.Equal(t, 1, fired)

	fb.setUnavailable(true)
	m.Probe(ctx)
	fb.setUnavailable(false)
	m.Probe(ctx)
	assert.Equal(t, 2, fired)
}

func TestMonitor_MarkOffline(t *testing.T) {
	fb := newFakeBackend()
	m := NewMonitor(fb, time.Second, nil, testLogger())
	ctx := context.Background()

	m.MarkOffline(ctx)
	assert.False(t, m.Online())

	// Idempotent.
	m.MarkOffline(ctx)
	assert.False(t, m.Online())
}
