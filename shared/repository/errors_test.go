package repository_test

import (
	"errors"
	"fmt"
	"pms/shared/repository"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPqErrorClassification(t *testing.T) {
	exclusion := fmt.Errorf("failed to insert data (booking): %w", &pq.Error{Code: "23P01"})
	fk := fmt.Errorf("failed to update data (room): %w", &pq.Error{Code: "23503"})
	unique := &pq.Error{Code: "23505"}

	assert.True(t, repository.IsExclusionViolation(exclusion))
	assert.False(t, repository.IsExclusionViolation(fk))

	assert.True(t, repository.IsForeignKeyViolation(fk))
	assert.True(t, repository.IsUniqueViolation(unique))

	malformed := fmt.Errorf("failed to get data (booking): %w", &pq.Error{Code: "22P02"})
	assert.True(t, repository.IsInvalidText(malformed))
	assert.False(t, repository.IsInvalidText(unique))

	assert.Empty(t, repository.PqErrorCode(errors.New("plain")))
	assert.Empty(t, repository.PqErrorCode(nil))
}
