package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthKey(t *testing.T) {
	t.Run("january is zero padded", func(t *testing.T) {
		d := time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)
		assert.Equal(t, "2024-01", MonthKey(d))
	})

	t.Run("september", func(t *testing.T) {
		d := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, "2024-09", MonthKey(d))
	})

	t.Run("december", func(t *testing.T) {
		d := time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC)
		assert.Equal(t, "2023-12", MonthKey(d))
	})
}

func TestEndOfMonth(t *testing.T) {
	t.Run("leap february", func(t *testing.T) {
		d := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)
		want := time.Date(2024, time.February, 29, 23, 59, 59, 999*int(time.Millisecond), time.UTC)
		assert.Equal(t, want, EndOfMonth(d))
	})

	t.Run("non-leap february", func(t *testing.T) {
		d := time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)
		want := time.Date(2023, time.February, 28, 23, 59, 59, 999*int(time.Millisecond), time.UTC)
		assert.Equal(t, want, EndOfMonth(d))
	})

	t.Run("december rolls into next year", func(t *testing.T) {
		d := time.Date(2023, time.December, 5, 8, 0, 0, 0, time.UTC)
		want := time.Date(2023, time.December, 31, 23, 59, 59, 999*int(time.Millisecond), time.UTC)
		assert.Equal(t, want, EndOfMonth(d))
	})

	t.Run("keeps the location", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		d := time.Date(2024, time.June, 20, 9, 0, 0, 0, loc)
		got := EndOfMonth(d)
		assert.Equal(t, loc, got.Location())
		assert.Equal(t, 30, got.Day())
	})
}
