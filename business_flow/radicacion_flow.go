// Package businessflow contains the core business logic and use cases for the expediente workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/caribelex/expedientes/config"
	"github.com/caribelex/expedientes/repository"
	"github.com/caribelex/expedientes/utils"
)

// RadicacionFlow hands out the two sequential case identifiers. Both methods
// must run inside an ambient transaction (repository.WithTransaction): the
// counter row lock is what guarantees two concurrent callers never receive the
// same number.
type RadicacionFlow interface {
	// NextRadicacionUnica returns the next unique filing number,
	// e.g. 11001-31-03-001-2025-00042-00.
	NextRadicacionUnica(ctx context.Context) (string, error)

	// NextRadicadoInterno returns the next per-origin internal docket number,
	// e.g. C3-0007-2026. Origins without a configured prefix yield
	// ErrUnknownOrigin before any counter is touched.
	NextRadicadoInterno(ctx context.Context, originName string) (string, error)
}

// RadicacionFlowImpl implements the radicación numbering flow
type RadicacionFlowImpl struct {
	counterRepo repository.SequenceCounterRepository
	prefixes    config.OriginPrefixMap
}

// NewRadicacionFlow creates a new radicación flow instance
func NewRadicacionFlow(counterRepo repository.SequenceCounterRepository, prefixes config.OriginPrefixMap) RadicacionFlow {
	return &RadicacionFlowImpl{
		counterRepo: counterRepo,
		prefixes:    prefixes,
	}
}

// FormatRadicacionUnica renders a filing number from the counter value and the
// year the counter is scoped to. The fixed segments identify the office.
func FormatRadicacionUnica(year int, value int64) string {
	return fmt.Sprintf("%s-%s-%s-%s-%d-%05d-%s",
		utils.RadicacionCityCode,
		utils.RadicacionOfficeType,
		utils.RadicacionSpecialty,
		utils.RadicacionOfficeNumber,
		year,
		value,
		utils.RadicacionSuffix,
	)
}

// FormatRadicadoInterno renders a per-origin docket number
func FormatRadicadoInterno(prefix string, year int, value int64) string {
	return fmt.Sprintf("%s-%04d-%d", prefix, value, year)
}

// NextRadicacionUnica advances the global filing counter and formats the
// number with the year the counter reported, so a request straddling new
// year's eve stays consistent with its own sequence value.
func (s *RadicacionFlowImpl) NextRadicacionUnica(ctx context.Context) (string, error) {
	value, year, err := s.counterRepo.NextValue(ctx, utils.CounterKeyRadicacion)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	return FormatRadicacionUnica(year, value), nil
}

// NextRadicadoInterno resolves the origin prefix and advances that origin's
// own counter. Resolution happens first: an unknown origin never consumes a
// sequence value.
func (s *RadicacionFlowImpl) NextRadicadoInterno(ctx context.Context, originName string) (string, error) {
	prefix, ok := s.prefixes.Resolve(originName)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOrigin, originName)
	}

	value, year, err := s.counterRepo.NextValue(ctx, utils.CounterKeyRadicadoInternoPrefix+prefix)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	return FormatRadicadoInterno(prefix, year, value), nil
}
