package businessflow

import (
	"testing"
	"time"

	"github.com/caribelex/expedientes/config"
	"github.com/stretchr/testify/assert"
)

func daysAgo(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

func TestEvaluateSLA(t *testing.T) {
	policy := config.DefaultSLAPolicy()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("AltaBoundaries", func(t *testing.T) {
		cases := []struct {
			days  int
			state SLAState
		}{
			{0, SLANormal},
			{24, SLANormal},
			{25, SLAApproaching},
			{29, SLAApproaching},
			{30, SLAOverdue},
			{400, SLAOverdue},
		}

		for _, tc := range cases {
			result := EvaluateSLA(policy, "Alta", daysAgo(now, tc.days), now)
			assert.Equal(t, tc.state, result.State, "Alta at %d days", tc.days)
			assert.Equal(t, tc.days, result.ElapsedDays)
			assert.Equal(t, 30, result.DeadlineDays)
		}
	})

	t.Run("MediaBoundaries", func(t *testing.T) {
		assert.Equal(t, SLANormal, EvaluateSLA(policy, "Media", daysAgo(now, 49), now).State)
		assert.Equal(t, SLAApproaching, EvaluateSLA(policy, "Media", daysAgo(now, 50), now).State)
		assert.Equal(t, SLAOverdue, EvaluateSLA(policy, "Media", daysAgo(now, 60), now).State)
	})

	t.Run("BajaBoundaries", func(t *testing.T) {
		assert.Equal(t, SLANormal, EvaluateSLA(policy, "Baja", daysAgo(now, 74), now).State)
		assert.Equal(t, SLAApproaching, EvaluateSLA(policy, "Baja", daysAgo(now, 75), now).State)
		assert.Equal(t, SLAOverdue, EvaluateSLA(policy, "Baja", daysAgo(now, 90), now).State)
	})

	t.Run("UnknownPriorityDegradesToNormal", func(t *testing.T) {
		result := EvaluateSLA(policy, "Urgente", daysAgo(now, 500), now)
		assert.Equal(t, SLANormal, result.State)
		assert.Zero(t, result.ElapsedDays)
		assert.Zero(t, result.DeadlineDays)
	})

	t.Run("ZeroCreatedAtDegradesToNormal", func(t *testing.T) {
		result := EvaluateSLA(policy, "Alta", time.Time{}, now)
		assert.Equal(t, SLANormal, result.State)
		assert.Zero(t, result.ElapsedDays)
	})

	t.Run("CreatedInTheFutureCountsAsZeroDays", func(t *testing.T) {
		result := EvaluateSLA(policy, "Alta", now.AddDate(0, 0, 3), now)
		assert.Equal(t, SLANormal, result.State)
		assert.Zero(t, result.ElapsedDays)
	})
}

func TestEvaluateInactivity(t *testing.T) {
	thresholds := config.DefaultInactivityThresholds()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Boundaries", func(t *testing.T) {
		cases := []struct {
			days  int
			state InactivityState
		}{
			{0, InactivityActive},
			{179, InactivityActive},
			{180, InactivityDormant6M},
			{729, InactivityDormant6M},
			{730, InactivityDormant2Y},
			{1000, InactivityDormant2Y},
		}

		for _, tc := range cases {
			last := daysAgo(now, tc.days)
			result := EvaluateInactivity(thresholds, daysAgo(now, 2000), &last, now)
			assert.Equal(t, tc.state, result.State, "at %d days", tc.days)
			assert.Equal(t, tc.days, result.InactiveDays)
		}
	})

	t.Run("FallsBackToCreationDate", func(t *testing.T) {
		result := EvaluateInactivity(thresholds, daysAgo(now, 200), nil, now)
		assert.Equal(t, InactivityDormant6M, result.State)
		assert.Equal(t, 200, result.InactiveDays)
	})

	t.Run("ZeroReferenceIsActive", func(t *testing.T) {
		result := EvaluateInactivity(thresholds, time.Time{}, nil, now)
		assert.Equal(t, InactivityActive, result.State)
		assert.Zero(t, result.InactiveDays)
	})

	t.Run("RecentActivityOverridesOldCreation", func(t *testing.T) {
		last := daysAgo(now, 10)
		result := EvaluateInactivity(thresholds, daysAgo(now, 900), &last, now)
		assert.Equal(t, InactivityActive, result.State)
		assert.Equal(t, 10, result.InactiveDays)
	})
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		sla   SLAState
		inact InactivityState
		want  AlertLabel
	}{
		{"AllClear", SLANormal, InactivityActive, AlertNone},
		{"ApproachingOnly", SLAApproaching, InactivityActive, AlertApproaching},
		{"OverdueOnly", SLAOverdue, InactivityActive, AlertOverdue},
		{"Dormant6MBeatsOverdue", SLAOverdue, InactivityDormant6M, AlertDormant6M},
		{"Dormant2YBeatsDormant6M", SLAOverdue, InactivityDormant2Y, AlertDormant2Y},
		{"Dormant6MBeatsApproaching", SLAApproaching, InactivityDormant6M, AlertDormant6M},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(SLAResult{State: tc.sla}, InactivityResult{State: tc.inact})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNeedsAttention(t *testing.T) {
	assert.False(t, NeedsAttention(SLAResult{State: SLANormal}, InactivityResult{State: InactivityActive}))
	assert.True(t, NeedsAttention(SLAResult{State: SLAApproaching}, InactivityResult{State: InactivityActive}))
	assert.True(t, NeedsAttention(SLAResult{State: SLAOverdue}, InactivityResult{State: InactivityActive}))
	assert.True(t, NeedsAttention(SLAResult{State: SLANormal}, InactivityResult{State: InactivityDormant6M}))
	assert.True(t, NeedsAttention(SLAResult{State: SLANormal}, InactivityResult{State: InactivityDormant2Y}))
}
