package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Monetary math is done in kobo (minor units) so partial payments never
// drift on float division.

// DurationUnit is the tagged unit of a parsed free-text duration.
type DurationUnit string

const (
	UnitMinute DurationUnit = "minute"
	UnitHour   DurationUnit = "hour"
	UnitDay    DurationUnit = "day"
	UnitWeek   DurationUnit = "week"
	UnitMonth  DurationUnit = "month"
)

// ParsedDuration is the (amount, unit) pair extracted from text like
// "4 weeks" or "30 minutes".
type ParsedDuration struct {
	Amount int
	Unit   DurationUnit
}

// defaultDueWindow is applied when a course duration cannot be parsed.
const defaultDueWindow = 14 * 24 * time.Hour

// ToKobo converts a currency amount to integer kobo.
func ToKobo(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// PricePerModuleKobo divides a course price across its modules, rounding
// up so the last module never ends up cheaper than the others.
func PricePerModuleKobo(coursePriceKobo int64, totalModules int) int64 {
	if totalModules <= 0 {
		return 0
	}
	return (coursePriceKobo + int64(totalModules) - 1) / int64(totalModules)
}

// UnlockedModuleCount is the number of modules a cumulative paid amount
// buys, clamped to [0, totalModules].
func UnlockedModuleCount(totalPaidKobo, pricePerModuleKobo int64, totalModules int) int {
	if pricePerModuleKobo <= 0 || totalModules <= 0 {
		return 0
	}
	unlocked := int(totalPaidKobo / pricePerModuleKobo)
	if unlocked > totalModules {
		return totalModules
	}
	if unlocked < 0 {
		return 0
	}
	return unlocked
}

// PaymentStatusForUnlock reports the ledger status implied by an unlock
// count: "paid" once every module is unlocked, otherwise "part_payment".
func PaymentStatusForUnlock(unlocked, total int) string {
	if unlocked >= total {
		return "paid"
	}
	return "part_payment"
}

// ParseDurationText extracts an (amount, unit) pair from free text like
// "4 weeks", "14 days" or "30 minutes". Unit detection is by substring,
// case-insensitive, first match wins. Returns false when no amount or no
// known unit is present.
func ParseDurationText(text string) (ParsedDuration, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	amount, ok := leadingInt(lower)
	if !ok || amount <= 0 {
		return ParsedDuration{}, false
	}

	for _, unit := range []DurationUnit{UnitMinute, UnitHour, UnitDay, UnitWeek, UnitMonth} {
		if strings.Contains(lower, string(unit)) {
			return ParsedDuration{Amount: amount, Unit: unit}, true
		}
	}
	return ParsedDuration{}, false
}

// NextDueDate advances now by a course's free-text duration. Anything it
// cannot parse as days, weeks or months falls back to 14 days.
func NextDueDate(now time.Time, durationText string) time.Time {
	parsed, ok := ParseDurationText(durationText)
	if !ok {
		return now.Add(defaultDueWindow)
	}
	switch parsed.Unit {
	case UnitDay:
		return now.AddDate(0, 0, parsed.Amount)
	case UnitWeek:
		return now.AddDate(0, 0, parsed.Amount*7)
	case UnitMonth:
		return now.AddDate(0, parsed.Amount, 0)
	default:
		return now.Add(defaultDueWindow)
	}
}

// DurationMinutes converts a lesson's free-text duration to minutes.
// Bare numbers are read as minutes. Returns false for text with no
// usable amount, or units longer than hours.
func DurationMinutes(text string) (int, bool) {
	if parsed, ok := ParseDurationText(text); ok {
		switch parsed.Unit {
		case UnitMinute:
			return parsed.Amount, true
		case UnitHour:
			return parsed.Amount * 60, true
		default:
			return 0, false
		}
	}
	amount, ok := leadingInt(strings.TrimSpace(text))
	if !ok || amount <= 0 {
		return 0, false
	}
	return amount, true
}

// leadingInt reads the first run of digits in s.
func leadingInt(s string) (int, bool) {
	start := -1
	end := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			end = i + 1
		} else if start >= 0 {
			break
		}
	}
	if start < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
