package model

import (
	"bazaar/infras/bookingapi"
	"bazaar/shared/constant"
	"bazaar/shared/timezone"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const EntityName = "slot"

type SlotType string

const (
	SlotTypeNormal    SlotType = "normal"
	SlotTypeExpress   SlotType = "express"
	SlotTypeUrgent    SlotType = "urgent"
	SlotTypeEmergency SlotType = "emergency"
)

var slotTypes = []SlotType{SlotTypeNormal, SlotTypeExpress, SlotTypeUrgent, SlotTypeEmergency}

// slotTypeAliases maps fee keys the Booking API also uses as slot types.
var slotTypeAliases = map[SlotType]SlotType{
	"standard": SlotTypeExpress,
}

func SlotTypes() []SlotType {
	return append([]SlotType(nil), slotTypes...)
}

// ParseSlotType lower-cases and trims the value. The "standard" fee key reads as
// express, anything else unrecognised is normal.
func ParseSlotType(value string) SlotType {
	candidate := SlotType(strings.ToLower(strings.TrimSpace(value)))
	if alias, ok := slotTypeAliases[candidate]; ok {
		return alias
	}

	if candidate.Known() {
		return candidate
	}

	return SlotTypeNormal
}

func (s SlotType) Known() bool {
	for _, known := range slotTypes {
		if s == known {
			return true
		}
	}

	return false
}

func (s SlotType) Validate() error {
	if !s.Known() {
		return fmt.Errorf("unknown slot type %q", string(s))
	}

	return nil
}

func (s SlotType) String() string {
	return string(s)
}

var (
	ErrMissingID   = errors.New("slot id is missing")
	ErrInvalidDate = errors.New("slot date is not YYYY-MM-DD")
	ErrInvalidTime = errors.New("slot time is not HH:MM")
)

// BookingSlot is a normalized bookable window.
type BookingSlot struct {
	ID              string
	Date            string
	StartTime       string
	EndTime         string
	SlotType        SlotType
	IsAvailable     bool
	IsFullyBooked   bool
	MaxBookings     int
	CurrentBookings int
	ProviderNote    string
	PriceOverride   decimal.NullDecimal
}

func (s BookingSlot) Selectable() bool {
	return s.IsAvailable && !s.IsFullyBooked
}

// RemainingCapacity is zero for uncapped slots.
func (s BookingSlot) RemainingCapacity() int {
	if s.MaxBookings <= 0 {
		return 0
	}

	return s.MaxBookings - s.CurrentBookings
}

// Normalize turns an upstream record into a BookingSlot. The booking counters are
// reconciled so that current never exceeds max and a full slot is always reported as
// fully booked.
func Normalize(raw bookingapi.RawSlot) (BookingSlot, error) {
	id := strings.TrimSpace(raw.ID.String())
	if id == "" {
		return BookingSlot{}, ErrMissingID
	}

	date := strings.TrimSpace(raw.Date)
	if _, err := time.Parse(constant.DayLayout, date); err != nil {
		return BookingSlot{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw.Date)
	}

	start, err := normalizeClock(raw.StartTime)
	if err != nil {
		return BookingSlot{}, err
	}

	end := ""
	if strings.TrimSpace(raw.EndTime) != "" {
		if end, err = normalizeClock(raw.EndTime); err != nil {
			return BookingSlot{}, err
		}
	}

	maxBookings := max(raw.MaxBookings, 0)
	current := max(raw.CurrentBookings, 0)

	fullyBooked := raw.IsFullyBooked
	if maxBookings > 0 {
		current = min(current, maxBookings)
		fullyBooked = fullyBooked || current >= maxBookings
	}

	return BookingSlot{
		ID:              id,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		SlotType:        ParseSlotType(raw.SlotType),
		IsAvailable:     raw.IsAvailable,
		IsFullyBooked:   fullyBooked,
		MaxBookings:     maxBookings,
		CurrentBookings: current,
		ProviderNote:    strings.TrimSpace(raw.ProviderNote),
		PriceOverride:   priceOverride(raw),
	}, nil
}

// normalizeClock accepts HH:MM and HH:MM:SS and returns HH:MM.
func normalizeClock(value string) (string, error) {
	value = strings.TrimSpace(value)

	for _, layout := range []string{constant.ClockLayout, time.TimeOnly} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(constant.ClockLayout), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidTime, value)
}

func priceOverride(raw bookingapi.RawSlot) decimal.NullDecimal {
	if raw.CalculatedPrice.Valid {
		return raw.CalculatedPrice
	}

	return raw.BasePriceOverride
}

type TypeFilter string

const FilterAll TypeFilter = "all"

// ParseFilter reads a listing filter. Empty means all.
func ParseFilter(value string) (TypeFilter, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || value == string(FilterAll) {
		return FilterAll, nil
	}

	slotType := SlotType(value)
	if alias, ok := slotTypeAliases[slotType]; ok {
		slotType = alias
	}

	if !slotType.Known() {
		return "", fmt.Errorf("unknown slot filter %q", value)
	}

	return TypeFilter(slotType), nil
}

func (f TypeFilter) matches(slotType SlotType) bool {
	return f == FilterAll || SlotType(f) == slotType
}

type slotKey struct {
	startTime string
	slotType  SlotType
}

// Filter keeps the slots that fall on the calendar day of selectedDate in the
// application timezone and match the type filter, ordered by start time. A slot
// repeating the start time and type of an earlier one is dropped, so distinct tiers
// offered at the same time all survive an "all" listing. Ties keep upstream order.
func Filter(slots []BookingSlot, filter TypeFilter, selectedDate time.Time) []BookingSlot {
	day := timezone.Day(selectedDate)
	seen := make(map[slotKey]struct{}, len(slots))
	result := make([]BookingSlot, 0, len(slots))

	for _, slot := range slots {
		if slot.Date != day || !filter.matches(slot.SlotType) {
			continue
		}

		key := slotKey{startTime: slot.StartTime, slotType: slot.SlotType}
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		result = append(result, slot)
	}

	// HH:MM is zero padded, so lexical order is chronological
	slices.SortStableFunc(result, func(a, b BookingSlot) int {
		return strings.Compare(a.StartTime, b.StartTime)
	})

	return result
}
