// internal/service/trancode.go
package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"realty-sales/internal/util"
)

// maxCodeAttempts bounds the collision-retry loop. With a six-digit random
// segment per day, hitting the bound means the code space is effectively
// exhausted and the generator gives up with util.ErrCodeExhausted.
const maxCodeAttempts = 25

// CodeExistsFunc checks whether a candidate transaction code is already taken.
type CodeExistsFunc func(ctx context.Context, code string) (bool, error)

// TransactionCodeGenerator produces unique, human-readable, date-stamped
// transaction codes of the form S-{YYYYMMDD}{6-digit-random}-001. Candidates
// are checked against the store and redrawn on collision.
type TransactionCodeGenerator struct {
	exists CodeExistsFunc
	now    func() time.Time
	intn   func(n int) int
}

// NewTransactionCodeGenerator creates a generator backed by the given
// existence check.
func NewTransactionCodeGenerator(exists CodeExistsFunc) *TransactionCodeGenerator {
	return &TransactionCodeGenerator{
		exists: exists,
		now:    time.Now,
		intn:   rand.Intn,
	}
}

// Generate returns a free transaction code, or an error when the existence
// check fails or the retry budget runs out.
func (g *TransactionCodeGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := fmt.Sprintf("S-%s%06d-001", g.now().Format("20060102"), g.intn(1000000))

		taken, err := g.exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check transaction code availability: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", util.ErrCodeExhausted
}
