package utils

import (
	"time"
)

// Radicación única segment constants.
// Format: 11001-31-03-001-YYYY-NNNNN-00
// 11001: city code (Bogotá), 31: office type, 03: specialty, 001: office number, 00: fixed suffix.
const (
	RadicacionCityCode     = "11001"
	RadicacionOfficeType   = "31"
	RadicacionSpecialty    = "03"
	RadicacionOfficeNumber = "001"
	RadicacionSuffix       = "00"
)

// Counter keys for the sequence_counters table
const (
	// CounterKeyRadicacion is the single global counter behind radicaciones únicas
	CounterKeyRadicacion = "radicacion"

	// CounterKeyRadicadoInternoPrefix prefixes per-origin internal docket counters
	CounterKeyRadicadoInternoPrefix = "radicado_interno_"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Upload limits for actuación attachments
const (
	MaxAttachmentSizeBytes = 10 * 1024 * 1024
	MaxAttachmentsPerEntry = 5
)
