package adapters_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/bookcircle/internal/adapters"
)

func Test_IsUniqueViolation(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"pgx unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped pgx unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pgx other error", &pgconn.PgError{Code: "23503"}, false},
		{"lib/pq unique violation", &pq.Error{Code: "23505"}, true},
		{"lib/pq other error", &pq.Error{Code: "40001"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, adapters.IsUniqueViolation(tc.err))
		})
	}
}
