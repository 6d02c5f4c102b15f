package businessflow

import (
	"time"

	"github.com/caribelex/expedientes/config"
	"github.com/caribelex/expedientes/utils"
)

// SLAState is the deadline standing of an open case
type SLAState string

const (
	SLANormal      SLAState = "normal"
	SLAApproaching SLAState = "approaching"
	SLAOverdue     SLAState = "overdue"
)

// InactivityState is the dormancy standing of an open case
type InactivityState string

const (
	InactivityActive    InactivityState = "active"
	InactivityDormant6M InactivityState = "dormant_6m"
	InactivityDormant2Y InactivityState = "dormant_2y"
)

// AlertLabel is the single classification shown for a case, combining
// dormancy and SLA standing with a fixed precedence.
type AlertLabel string

const (
	AlertNone        AlertLabel = ""
	AlertApproaching AlertLabel = "proximo_vencimiento"
	AlertOverdue     AlertLabel = "vencido"
	AlertDormant6M   AlertLabel = "inactivo_6m"
	AlertDormant2Y   AlertLabel = "inactivo_2y"
)

// SLAResult carries the evaluated SLA state together with the day counts
// that produced it, for display and reporting.
type SLAResult struct {
	State        SLAState `json:"state"`
	ElapsedDays  int      `json:"elapsed_days"`
	DeadlineDays int      `json:"deadline_days"`
}

// InactivityResult carries the evaluated dormancy state and the number of
// whole days since the reference activity date.
type InactivityResult struct {
	State        InactivityState `json:"state"`
	InactiveDays int             `json:"inactive_days"`
}

// EvaluateSLA computes the deadline standing of a case from its priority and
// creation date. It is a total function: an unknown priority or a zero
// createdAt degrades to Normal with zero day counts rather than erroring, so
// list renderings never fail on a single bad row.
func EvaluateSLA(policy config.SLAPolicy, priority string, createdAt, now time.Time) SLAResult {
	threshold, ok := policy[priority]
	if !ok || createdAt.IsZero() {
		return SLAResult{State: SLANormal}
	}

	elapsed := utils.ElapsedDays(createdAt, now)
	result := SLAResult{
		State:        SLANormal,
		ElapsedDays:  elapsed,
		DeadlineDays: threshold.ResolutionDays,
	}

	switch {
	case elapsed >= threshold.ResolutionDays:
		result.State = SLAOverdue
	case elapsed >= threshold.WarningDays:
		result.State = SLAApproaching
	}

	return result
}

// EvaluateInactivity computes the dormancy standing of a case. The reference
// date is the last actuación when one exists, the creation date otherwise; a
// case with neither is reported Active with zero days.
func EvaluateInactivity(thresholds config.InactivityThresholds, createdAt time.Time, lastActivityAt *time.Time, now time.Time) InactivityResult {
	reference := createdAt
	if lastActivityAt != nil && !lastActivityAt.IsZero() {
		reference = *lastActivityAt
	}
	if reference.IsZero() {
		return InactivityResult{State: InactivityActive}
	}

	days := utils.ElapsedDays(reference, now)
	result := InactivityResult{State: InactivityActive, InactiveDays: days}

	switch {
	case days >= thresholds.TwoYearsDays:
		result.State = InactivityDormant2Y
	case days >= thresholds.SixMonthsDays:
		result.State = InactivityDormant6M
	}

	return result
}

// Classify reduces the two evaluations to the single alert label shown per
// case. Two-year dormancy wins over six-month dormancy, which wins over any
// SLA state; among SLA states overdue wins over approaching.
func Classify(sla SLAResult, inact InactivityResult) AlertLabel {
	switch inact.State {
	case InactivityDormant2Y:
		return AlertDormant2Y
	case InactivityDormant6M:
		return AlertDormant6M
	}

	switch sla.State {
	case SLAOverdue:
		return AlertOverdue
	case SLAApproaching:
		return AlertApproaching
	}

	return AlertNone
}

// NeedsAttention reports whether the case should surface on the alerts
// dashboard at all.
func NeedsAttention(sla SLAResult, inact InactivityResult) bool {
	if sla.State == SLAOverdue || sla.State == SLAApproaching {
		return true
	}
	return inact.State == InactivityDormant6M || inact.State == InactivityDormant2Y
}
