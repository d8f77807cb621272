package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToKobo(t *testing.T) {
	assert.Equal(t, int64(10000), ToKobo(100))
	assert.Equal(t, int64(10050), ToKobo(100.50))
	assert.Equal(t, int64(1), ToKobo(0.01))
	assert.Equal(t, int64(0), ToKobo(0))
	// float artifacts must round, not truncate
	assert.Equal(t, int64(2999), ToKobo(29.99))
}

func TestPricePerModuleKobo(t *testing.T) {
	assert.Equal(t, int64(2500), PricePerModuleKobo(10000, 4))
	// ceil on uneven division
	assert.Equal(t, int64(3334), PricePerModuleKobo(10000, 3))
	assert.Equal(t, int64(10000), PricePerModuleKobo(10000, 1))
	assert.Equal(t, int64(0), PricePerModuleKobo(10000, 0))
	assert.Equal(t, int64(0), PricePerModuleKobo(0, 4))
}

func TestUnlockedModuleCount(t *testing.T) {
	assert.Equal(t, 1, UnlockedModuleCount(2500, 2500, 4))
	assert.Equal(t, 1, UnlockedModuleCount(4999, 2500, 4))
	assert.Equal(t, 2, UnlockedModuleCount(5000, 2500, 4))
	assert.Equal(t, 4, UnlockedModuleCount(10000, 2500, 4))
	// overpayment clamps to the module count
	assert.Equal(t, 4, UnlockedModuleCount(99999, 2500, 4))
	assert.Equal(t, 0, UnlockedModuleCount(0, 2500, 4))
	// unpriced course unlocks nothing
	assert.Equal(t, 0, UnlockedModuleCount(5000, 0, 4))
	assert.Equal(t, 0, UnlockedModuleCount(5000, 2500, 0))
}

func TestPaymentStatusForUnlock(t *testing.T) {
	assert.Equal(t, "paid", PaymentStatusForUnlock(4, 4))
	assert.Equal(t, "part_payment", PaymentStatusForUnlock(1, 4))
	assert.Equal(t, "part_payment", PaymentStatusForUnlock(0, 4))
}

func TestParseDurationText(t *testing.T) {
	parsed, ok := ParseDurationText("4 weeks")
	assert.True(t, ok)
	assert.Equal(t, ParsedDuration{Amount: 4, Unit: UnitWeek}, parsed)

	parsed, ok = ParseDurationText("30 Minutes")
	assert.True(t, ok)
	assert.Equal(t, ParsedDuration{Amount: 30, Unit: UnitMinute}, parsed)

	parsed, ok = ParseDurationText("2 months")
	assert.True(t, ok)
	assert.Equal(t, ParsedDuration{Amount: 2, Unit: UnitMonth}, parsed)

	parsed, ok = ParseDurationText("  14 days ")
	assert.True(t, ok)
	assert.Equal(t, ParsedDuration{Amount: 14, Unit: UnitDay}, parsed)

	_, ok = ParseDurationText("self paced")
	assert.False(t, ok)
	_, ok = ParseDurationText("")
	assert.False(t, ok)
	_, ok = ParseDurationText("weeks")
	assert.False(t, ok)
}

func TestNextDueDate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, 14), NextDueDate(now, "2 weeks"))
	assert.Equal(t, now.AddDate(0, 0, 10), NextDueDate(now, "10 days"))
	assert.Equal(t, now.AddDate(0, 3, 0), NextDueDate(now, "3 months"))
	// unparsable text falls back to 14 days
	assert.Equal(t, now.Add(14*24*time.Hour), NextDueDate(now, "flexible"))
	// minutes have no billing meaning, fall back too
	assert.Equal(t, now.Add(14*24*time.Hour), NextDueDate(now, "90 minutes"))
}

func TestDurationMinutes(t *testing.T) {
	minutes, ok := DurationMinutes("30 minutes")
	assert.True(t, ok)
	assert.Equal(t, 30, minutes)

	minutes, ok = DurationMinutes("2 hours")
	assert.True(t, ok)
	assert.Equal(t, 120, minutes)

	// bare numbers read as minutes
	minutes, ok = DurationMinutes("45")
	assert.True(t, ok)
	assert.Equal(t, 45, minutes)

	_, ok = DurationMinutes("3 days")
	assert.False(t, ok)
	_, ok = DurationMinutes("watch at your own pace")
	assert.False(t, ok)
	_, ok = DurationMinutes("")
	assert.False(t, ok)
}
