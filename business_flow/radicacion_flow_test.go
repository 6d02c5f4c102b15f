package businessflow

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/caribelex/expedientes/config"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	testingutil "github.com/caribelex/expedientes/testing"
	"github.com/caribelex/expedientes/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRadicacionUnica(t *testing.T) {
	assert.Equal(t, "11001-31-03-001-2025-00042-00", FormatRadicacionUnica(2025, 42))
	assert.Equal(t, "11001-31-03-001-2026-00001-00", FormatRadicacionUnica(2026, 1))

	// Values beyond five digits widen rather than truncate
	assert.Equal(t, "11001-31-03-001-2025-123456-00", FormatRadicacionUnica(2025, 123456))

	pattern := regexp.MustCompile(`^11001-31-03-001-\d{4}-\d{5}-00$`)
	assert.Regexp(t, pattern, FormatRadicacionUnica(2025, 1))
	assert.Regexp(t, pattern, FormatRadicacionUnica(2030, 99999))
}

func TestFormatRadicadoInterno(t *testing.T) {
	assert.Equal(t, "C3-0007-2026", FormatRadicadoInterno("C3", 2026, 7))
	assert.Equal(t, "PC-01-0001-2025", FormatRadicadoInterno("PC-01", 2025, 1))
	assert.Equal(t, "C16-12345-2025", FormatRadicadoInterno("C16", 2025, 12345))
}

func TestRadicacionFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		counterRepo := repository.NewSequenceCounterRepository(testDB.DB)
		flow := NewRadicacionFlow(counterRepo, config.DefaultOriginPrefixes())
		year := utils.CurrentYear()

		t.Run("SequentialNumbers", func(t *testing.T) {
			var first, second string

			err := repository.WithTransaction(context.Background(), testDB.DB, func(txCtx context.Context) error {
				var err error
				first, err = flow.NextRadicacionUnica(txCtx)
				return err
			})
			require.NoError(t, err)

			err = repository.WithTransaction(context.Background(), testDB.DB, func(txCtx context.Context) error {
				var err error
				second, err = flow.NextRadicacionUnica(txCtx)
				return err
			})
			require.NoError(t, err)

			assert.Equal(t, FormatRadicacionUnica(year, 1), first)
			assert.Equal(t, FormatRadicacionUnica(year, 2), second)
		})

		t.Run("PerOriginCountersAreIndependent", func(t *testing.T) {
			var c3, c4 string

			err := repository.WithTransaction(context.Background(), testDB.DB, func(txCtx context.Context) error {
				var err error
				if c3, err = flow.NextRadicadoInterno(txCtx, "Juzgado 03 Civil del Circuito"); err != nil {
					return err
				}
				c4, err = flow.NextRadicadoInterno(txCtx, "Juzgado 04 Civil del Circuito")
				return err
			})
			require.NoError(t, err)

			assert.Equal(t, FormatRadicadoInterno("C3", year, 1), c3)
			assert.Equal(t, FormatRadicadoInterno("C4", year, 1), c4)
		})

		t.Run("UnknownOriginLeavesCountersUntouched", func(t *testing.T) {
			err := repository.WithTransaction(context.Background(), testDB.DB, func(txCtx context.Context) error {
				_, err := flow.NextRadicadoInterno(txCtx, "Juzgado Fantasma")
				return err
			})
			require.Error(t, err)
			assert.True(t, IsUnknownOrigin(err))

			// No counter row may exist for the unknown origin
			var count int64
			require.NoError(t, testDB.DB.Model(&models.SequenceCounter{}).
				Where("key LIKE ?", utils.CounterKeyRadicadoInternoPrefix+"%").
				Where("key NOT IN ?", []string{
					utils.CounterKeyRadicadoInternoPrefix + "C3",
					utils.CounterKeyRadicadoInternoPrefix + "C4",
				}).Count(&count).Error)
			assert.Zero(t, count)
		})

		t.Run("AnnualReset", func(t *testing.T) {
			key := utils.CounterKeyRadicadoInternoPrefix + "C7"
			require.NoError(t, testDB.DB.Create(&models.SequenceCounter{
				Key:       key,
				Year:      year - 1,
				Value:     512,
				UpdatedAt: utils.UTCNow(),
			}).Error)

			var numero string
			err := repository.WithTransaction(context.Background(), testDB.DB, func(txCtx context.Context) error {
				var err error
				numero, err = flow.NextRadicadoInterno(txCtx, "Juzgado 07 Civil del Circuito")
				return err
			})
			require.NoError(t, err)
			assert.Equal(t, FormatRadicadoInterno("C7", year, 1), numero)
		})

		t.Run("ConcurrentCallersNeverCollide", func(t *testing.T) {
			const workers = 20

			var mu sync.Mutex
			var wg sync.WaitGroup
			issued := make(map[string]bool, workers)
			errs := make(chan error, workers)

			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := repository.WithTransaction(context.Background(), testDB.DB, func(txCtx context.Context) error {
						numero, err := flow.NextRadicacionUnica(txCtx)
						if err != nil {
							return err
						}
						mu.Lock()
						defer mu.Unlock()
						if issued[numero] {
							return fmt.Errorf("duplicate filing number issued: %s", numero)
						}
						issued[numero] = true
						return nil
					})
					if err != nil {
						errs <- err
					}
				}()
			}

			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			assert.Len(t, issued, workers)
		})

		return nil
	})
	require.NoError(t, err)
}
