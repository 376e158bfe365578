// internal/service/trancode_test.go
package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"realty-sales/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^S-\d{8}\d{6}-001$`)

func fixedNow() time.Time {
	return time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
}

func TestGenerateFormat(t *testing.T) {
	gen := NewTransactionCodeGenerator(func(ctx context.Context, code string) (bool, error) {
		return false, nil
	})
	gen.now = fixedNow
	gen.intn = func(n int) int { return 123456 }

	code, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "S-20240110123456-001", code)
	assert.Regexp(t, codePattern, code)
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	taken := map[string]bool{"S-20240110111111-001": true}
	checks := 0
	gen := NewTransactionCodeGenerator(func(ctx context.Context, code string) (bool, error) {
		checks++
		return taken[code], nil
	})
	gen.now = fixedNow
	draws := []int{111111, 111111, 222222}
	gen.intn = func(n int) int {
		d := draws[0]
		draws = draws[1:]
		return d
	}

	code, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "S-20240110222222-001", code)
	assert.Equal(t, 3, checks)
}

func TestGenerateExhaustsRetryBudget(t *testing.T) {
	checks := 0
	gen := NewTransactionCodeGenerator(func(ctx context.Context, code string) (bool, error) {
		checks++
		return true, nil
	})
	gen.now = fixedNow

	_, err := gen.Generate(context.Background())
	assert.ErrorIs(t, err, util.ErrCodeExhausted)
	assert.Equal(t, maxCodeAttempts, checks)
}

func TestGenerateStoreFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	gen := NewTransactionCodeGenerator(func(ctx context.Context, code string) (bool, error) {
		return false, storeErr
	})

	_, err := gen.Generate(context.Background())
	assert.ErrorIs(t, err, storeErr)
}

// Generating against a store that records every issued code yields all
// distinct codes, even for a single day.
func TestGenerateDistinctCodes(t *testing.T) {
	issued := map[string]bool{}
	gen := NewTransactionCodeGenerator(func(ctx context.Context, code string) (bool, error) {
		return issued[code], nil
	})
	gen.now = fixedNow

	for i := 0; i < 100; i++ {
		code, err := gen.Generate(context.Background())
		require.NoError(t, err)
		require.False(t, issued[code], "code %s issued twice", code)
		issued[code] = true
	}
	assert.Len(t, issued, 100)
}
