package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
)

func TestParseVolumeOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    volumeOp
		wantErr bool
	}{
		{"+1", volumeOp{n: 1}, false},
		{"-3", volumeOp{n: -3}, false},
		{"=12", volumeOp{set: true, n: 12}, false},
		{"=0", volumeOp{set: true, n: 0}, false},
		{"+999", volumeOp{n: 999}, false},
		{"+1000", volumeOp{}, true},
		{"5", volumeOp{}, true},
		{"+", volumeOp{}, true},
		{"*2", volumeOp{}, true},
		{"+x", volumeOp{}, true},
		{"=-1", volumeOp{}, true},
	}
	for _, tt := range tests {
		got, err := parseVolumeOp(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseVolumeOps(nil)
	assert.Error(t, err)
}

// fakeVolumes records the engine calls made by applyVolumeOps.
type fakeVolumes struct {
	cur   int
	max   int
	calls []string
}

func (f *fakeVolumes) apply(n int) (domain.CollectionItem, error) {
	if n < 0 || n > f.max {
		return domain.CollectionItem{}, domain.NewValidationError("current_volumes", "out of range")
	}
	f.cur = n
	return domain.CollectionItem{Record: domain.UserMediaRecord{CurrentVolumes: n, MaxVolumes: f.max}}, nil
}

func (f *fakeVolumes) AdjustVolumes(_ int, delta int) (domain.CollectionItem, error) {
	f.calls = append(f.calls, "adjust")
	return f.apply(f.cur + delta)
}

func (f *fakeVolumes) SetVolumes(_ int, n int) (domain.CollectionItem, error) {
	f.calls = append(f.calls, "set")
	return f.apply(n)
}

func TestApplyVolumeOps(t *testing.T) {
	t.Parallel()

	ed := &fakeVolumes{cur: 2, max: 10}
	ops, err := parseVolumeOps([]string{"+3", "-1", "=8", "+1"})
	require.NoError(t, err)

	it, err := applyVolumeOps(ed, 1, ops)
	require.NoError(t, err)
	assert.Equal(t, 9, it.Record.CurrentVolumes)
	assert.Equal(t, []string{"adjust", "adjust", "set", "adjust"}, ed.calls)
}

func TestApplyVolumeOps_StopsAtRejected(t *testing.T) {
	t.Parallel()

	ed := &fakeVolumes{cur: 9, max: 10}
	ops, err := parseVolumeOps([]string{"+1", "+1", "-5"})
	require.NoError(t, err)

	_, err = applyVolumeOps(ed, 1, ops)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 10, ed.cur, "accepted changes stay applied")
	assert.Len(t, ed.calls, 2)
}
