package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SLAThreshold is the deadline policy for one priority level.
// WarningDays must be below ResolutionDays; a case enters the early-warning
// band at WarningDays elapsed and is overdue at ResolutionDays.
type SLAThreshold struct {
	ResolutionDays int `json:"resolution_days"`
	WarningDays    int `json:"warning_days"`
}

// SLAPolicy maps a priority level name to its deadline thresholds
type SLAPolicy map[string]SLAThreshold

// DefaultSLAPolicy returns the fixed per-priority resolution policy
func DefaultSLAPolicy() SLAPolicy {
	return SLAPolicy{
		"Alta":  {ResolutionDays: 30, WarningDays: 25},
		"Media": {ResolutionDays: 60, WarningDays: 50},
		"Baja":  {ResolutionDays: 90, WarningDays: 75},
	}
}

// InactivityThresholds holds the dormancy cutoffs in whole days
type InactivityThresholds struct {
	SixMonthsDays int `json:"six_months_days"`
	TwoYearsDays  int `json:"two_years_days"`
}

// DefaultInactivityThresholds returns the fixed dormancy cutoffs
func DefaultInactivityThresholds() InactivityThresholds {
	return InactivityThresholds{SixMonthsDays: 180, TwoYearsDays: 730}
}

// OriginPrefixMap maps a case origin's display name to the short prefix used
// by the per-origin internal docket numbering. Loaded once at startup and
// treated as immutable afterwards.
type OriginPrefixMap map[string]string

// Resolve looks up the prefix for an origin display name.
// Absence is not an error; the caller decides whether it is fatal.
func (m OriginPrefixMap) Resolve(originName string) (string, bool) {
	prefix, ok := m[originName]
	return prefix, ok
}

// DefaultOriginPrefixes returns the built-in origin-to-prefix table
func DefaultOriginPrefixes() OriginPrefixMap {
	return OriginPrefixMap{
		"EJECUCIÓN MUNICIPAL - CIVIL 001 BARRANQUILLA": "PC-01",
		"EJECUCIÓN MUNICIPAL - CIVIL 002 BARRANQUILLA": "PC-02",
		"EJECUCIÓN MUNICIPAL - CIVIL 003 BARRANQUILLA": "PC-03",
		"EJECUCIÓN MUNICIPAL - CIVIL 004 BARRANQUILLA": "PC-04",
		"EJECUCIÓN MUNICIPAL - CIVIL 005 BARRANQUILLA": "PC-05",
		"EJECUCIÓN MUNICIPAL - CIVIL 006 BARRANQUILLA": "PC-06",
		"EJECUCIÓN MUNICIPAL - CIVIL 007 BARRANQUILLA": "PC-07",
		"Juzgado 01 Civil del Circuito":                "C1",
		"Juzgado 02 Civil del Circuito":                "C2",
		"Juzgado 03 Civil del Circuito":                "C3",
		"Juzgado 04 Civil del Circuito":                "C4",
		"Juzgado 05 Civil del Circuito":                "C5",
		"Juzgado 06 Civil del Circuito":                "C6",
		"Juzgado 07 Civil del Circuito":                "C7",
		"Juzgado 08 Civil del Circuito":                "C8",
		"Juzgado 09 Civil del Circuito":                "C9",
		"Juzgado 10 Civil del Circuito":                "C10",
		"Juzgado 11 Civil del Circuito":                "C11",
		"Juzgado 12 Civil del Circuito":                "C12",
		"Juzgado 13 Civil del Circuito":                "C13",
		"Juzgado 14 Civil del Circuito":                "C14",
		"Juzgado 15 Civil del Circuito":                "C15",
		"Juzgado 16 Civil del Circuito":                "C16",
	}
}

// LoadOriginPrefixes returns the built-in table, or the contents of the JSON
// file at path when one is configured. The file replaces the table entirely.
func LoadOriginPrefixes(path string) (OriginPrefixMap, error) {
	if path == "" {
		return DefaultOriginPrefixes(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read origin prefix file %s: %w", path, err)
	}

	var m OriginPrefixMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse origin prefix file %s: %w", path, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("origin prefix file %s contains no entries", path)
	}

	return m, nil
}

// DomainTables bundles the immutable domain configuration injected into flows
type DomainTables struct {
	SLA            SLAPolicy
	Inactivity     InactivityThresholds
	OriginPrefixes OriginPrefixMap
	LoadedAt       time.Time
}

// LoadDomainTables assembles the domain tables from defaults and the optional
// origin prefix override file.
func LoadDomainTables(cfg DomainConfig) (*DomainTables, error) {
	prefixes, err := LoadOriginPrefixes(cfg.OriginPrefixFile)
	if err != nil {
		return nil, err
	}

	return &DomainTables{
		SLA:            DefaultSLAPolicy(),
		Inactivity:     DefaultInactivityThresholds(),
		OriginPrefixes: prefixes,
		LoadedAt:       time.Now().UTC(),
	}, nil
}
