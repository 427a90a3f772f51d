package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	errNotFound := NotFound("department not found")

	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindInternal},
		{"plain", errors.New("boom"), KindInternal},
		{"tagged", errNotFound, KindNotFound},
		{"wrapped sentinel", fmt.Errorf("load: %w", errNotFound), KindNotFound},
		{"conflict", Conflict("email already registered"), KindConflict},
		{"validation", Validation("bad input"), KindValidation},
		{"unique violation", &pgconn.PgError{Code: "23505"}, KindConflict},
		{"fk violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), KindValidation},
		{"other sql state", &pgconn.PgError{Code: "42P01"}, KindInternal},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, KindOf(c.err))
		})
	}
}

func TestError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("failed to load week", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load week: connection reset", err.Error())
	assert.Equal(t, "failed to load week", MessageOf(fmt.Errorf("outer: %w", err)))
	assert.Empty(t, MessageOf(cause))
}
