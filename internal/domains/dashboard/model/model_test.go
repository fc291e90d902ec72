package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pms/internal/domains/dashboard/model"
)

func TestCounters_OccupancyRate(t *testing.T) {
	tests := []struct {
		name     string
		counters model.Counters
		want     int
	}{
		{name: "no rooms", counters: model.Counters{Occupied: 3}, want: 0},
		{name: "no stays", counters: model.Counters{Rooms: 4}, want: 0},
		{name: "half full", counters: model.Counters{Occupied: 2, Rooms: 4}, want: 50},
		{name: "truncated", counters: model.Counters{Occupied: 1, Rooms: 3}, want: 33},
		{name: "full", counters: model.Counters{Occupied: 5, Rooms: 5}, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.counters.OccupancyRate())
		})
	}
}
