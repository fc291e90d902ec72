package reservation_test

import (
	"pms/shared/reservation"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{8}$`)
	seen := map[string]struct{}{}

	for range 1000 {
		code := reservation.Generate()

		assert.Len(t, code, reservation.CodeLength)
		assert.Regexp(t, pattern, code)

		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 990)
}
