package model_test

import (
	"bazaar/infras/bookingapi"
	"bazaar/internal/domains/slot/model"
	"bazaar/shared/timezone"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDay(t *testing.T, day string) time.Time {
	t.Helper()

	parsed, err := timezone.ParseDay(day)
	require.NoError(t, err)

	return parsed
}

func slot(id, date string, slotType model.SlotType) model.BookingSlot {
	return model.BookingSlot{ID: id, Date: date, StartTime: "09:00", SlotType: slotType, IsAvailable: true}
}

func ids(slots []model.BookingSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.ID)
	}

	return out
}

func TestParseSlotType(t *testing.T) {
	tests := []struct {
		input string
		want  model.SlotType
	}{
		{input: "normal", want: model.SlotTypeNormal},
		{input: " Express ", want: model.SlotTypeExpress},
		{input: "URGENT", want: model.SlotTypeUrgent},
		{input: "emergency", want: model.SlotTypeEmergency},
		{input: "", want: model.SlotTypeNormal},
		{input: "standard", want: model.SlotTypeExpress},
		{input: " Standard ", want: model.SlotTypeExpress},
		{input: "vip", want: model.SlotTypeNormal},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, model.ParseSlotType(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     bookingapi.RawSlot
		want    model.BookingSlot
		wantErr error
	}{
		{
			name: "numeric id and seconds in times",
			raw: bookingapi.RawSlot{
				ID: "17", Date: "2025-03-01", StartTime: "09:00:00", EndTime: "10:30:00",
				SlotType: "Urgent", IsAvailable: true, MaxBookings: 3, CurrentBookings: 1,
				ProviderNote: "  gate code 1234 ",
			},
			want: model.BookingSlot{
				ID: "17", Date: "2025-03-01", StartTime: "09:00", EndTime: "10:30",
				SlotType: model.SlotTypeUrgent, IsAvailable: true, MaxBookings: 3, CurrentBookings: 1,
				ProviderNote: "gate code 1234",
			},
		},
		{
			name: "full capacity is fully booked and counters are clamped",
			raw: bookingapi.RawSlot{
				ID: "a", Date: "2025-03-01", StartTime: "09:00", IsAvailable: true,
				MaxBookings: 2, CurrentBookings: 5,
			},
			want: model.BookingSlot{
				ID: "a", Date: "2025-03-01", StartTime: "09:00", SlotType: model.SlotTypeNormal,
				IsAvailable: true, IsFullyBooked: true, MaxBookings: 2, CurrentBookings: 2,
			},
		},
		{
			name: "reported fully booked is kept for uncapped slots",
			raw: bookingapi.RawSlot{
				ID: "b", Date: "2025-03-01", StartTime: "09:00", IsAvailable: true, IsFullyBooked: true,
			},
			want: model.BookingSlot{
				ID: "b", Date: "2025-03-01", StartTime: "09:00", SlotType: model.SlotTypeNormal,
				IsAvailable: true, IsFullyBooked: true,
			},
		},
		{
			name:    "missing id",
			raw:     bookingapi.RawSlot{Date: "2025-03-01", StartTime: "09:00"},
			wantErr: model.ErrMissingID,
		},
		{
			name:    "bad date",
			raw:     bookingapi.RawSlot{ID: "c", Date: "01/03/2025", StartTime: "09:00"},
			wantErr: model.ErrInvalidDate,
		},
		{
			name:    "bad start time",
			raw:     bookingapi.RawSlot{ID: "c", Date: "2025-03-01", StartTime: "9am"},
			wantErr: model.ErrInvalidTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.Normalize(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePriceOverride(t *testing.T) {
	raw := bookingapi.RawSlot{
		ID: "p", Date: "2025-03-01", StartTime: "09:00",
		CalculatedPrice:   decimal.NewNullDecimal(decimal.NewFromInt(1500)),
		BasePriceOverride: decimal.NewNullDecimal(decimal.NewFromInt(1200)),
	}

	got, err := model.Normalize(raw)
	require.NoError(t, err)
	assert.True(t, got.PriceOverride.Decimal.Equal(decimal.NewFromInt(1500)))

	raw.CalculatedPrice = decimal.NullDecimal{}

	got, err = model.Normalize(raw)
	require.NoError(t, err)
	assert.True(t, got.PriceOverride.Decimal.Equal(decimal.NewFromInt(1200)))
}

func TestSelectable(t *testing.T) {
	assert.True(t, model.BookingSlot{IsAvailable: true}.Selectable())
	assert.False(t, model.BookingSlot{IsAvailable: false}.Selectable())
	assert.False(t, model.BookingSlot{IsAvailable: true, IsFullyBooked: true}.Selectable())
}

func TestParseFilter(t *testing.T) {
	for _, value := range []string{"", "all", " ALL "} {
		filter, err := model.ParseFilter(value)
		require.NoError(t, err)
		assert.Equal(t, model.FilterAll, filter)
	}

	filter, err := model.ParseFilter("Express")
	require.NoError(t, err)
	assert.Equal(t, model.TypeFilter("express"), filter)

	filter, err = model.ParseFilter("standard")
	require.NoError(t, err)
	assert.Equal(t, model.TypeFilter("express"), filter)

	_, err = model.ParseFilter("vip")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	day := mustDay(t, "2025-03-01")
	slots := []model.BookingSlot{
		slot("1", "2025-03-01", model.SlotTypeNormal),
		slot("2", "2025-03-01", model.SlotTypeExpress),
		slot("3", "2025-03-01", model.SlotTypeUrgent),
		slot("4", "2025-03-02", model.SlotTypeExpress),
	}

	tests := []struct {
		name   string
		filter model.TypeFilter
		want   []string
	}{
		{name: "all keeps upstream order for the day", filter: model.FilterAll, want: []string{"1", "2", "3"}},
		{name: "express only", filter: "express", want: []string{"2"}},
		{name: "no emergency slots", filter: "emergency", want: []string{}},
		{name: "unknown filter matches nothing", filter: "vip", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(model.Filter(slots, tt.filter, day)))
		})
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	day := mustDay(t, "2025-03-01")
	slots := []model.BookingSlot{
		slot("1", "2025-03-01", model.SlotTypeUrgent),
		slot("2", "2025-02-28", model.SlotTypeUrgent),
		slot("3", "2025-03-01", model.SlotTypeNormal),
		slot("4", "2025-03-01", model.SlotTypeUrgent),
	}

	for _, filter := range []model.TypeFilter{model.FilterAll, "urgent", "normal"} {
		once := model.Filter(slots, filter, day)
		twice := model.Filter(once, filter, day)

		assert.Equal(t, once, twice, "filter %s", filter)
	}
}

func slotAt(id, startTime string, slotType model.SlotType) model.BookingSlot {
	s := slot(id, "2025-03-01", slotType)
	s.StartTime = startTime

	return s
}

func TestFilterDeduplicatesByStartTime(t *testing.T) {
	day := mustDay(t, "2025-03-01")

	tests := []struct {
		name   string
		slots  []model.BookingSlot
		filter model.TypeFilter
		want   []string
	}{
		{
			name: "same start time and type keeps the first",
			slots: []model.BookingSlot{
				slotAt("1", "09:00", model.SlotTypeNormal),
				slotAt("2", "09:00", model.SlotTypeNormal),
			},
			filter: model.FilterAll,
			want:   []string{"1"},
		},
		{
			name: "repeated id",
			slots: []model.BookingSlot{
				slotAt("1", "09:00", model.SlotTypeNormal),
				slotAt("2", "10:00", model.SlotTypeNormal),
				slotAt("1", "09:00", model.SlotTypeNormal),
			},
			filter: model.FilterAll,
			want:   []string{"1", "2"},
		},
		{
			name: "distinct tiers at the same time all survive",
			slots: []model.BookingSlot{
				slotAt("1", "09:00", model.SlotTypeNormal),
				slotAt("2", "09:00", model.SlotTypeUrgent),
			},
			filter: model.FilterAll,
			want:   []string{"1", "2"},
		},
		{
			name: "type filter then dedupe",
			slots: []model.BookingSlot{
				slotAt("1", "09:00", model.SlotTypeNormal),
				slotAt("2", "09:00", model.SlotTypeUrgent),
				slotAt("3", "09:00", model.SlotTypeUrgent),
			},
			filter: "urgent",
			want:   []string{"2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(model.Filter(tt.slots, tt.filter, day)))
		})
	}
}

func TestFilterOrdersByStartTime(t *testing.T) {
	day := mustDay(t, "2025-03-01")
	slots := []model.BookingSlot{
		slotAt("late", "14:00", model.SlotTypeNormal),
		slotAt("early", "08:30", model.SlotTypeNormal),
		slotAt("noon-urgent", "12:00", model.SlotTypeUrgent),
		slotAt("noon", "12:00", model.SlotTypeNormal),
	}

	assert.Equal(t, []string{"early", "noon-urgent", "noon", "late"}, ids(model.Filter(slots, model.FilterAll, day)))
}

func TestFilterEmpty(t *testing.T) {
	got := model.Filter(nil, model.FilterAll, mustDay(t, "2025-03-01"))

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterMatchesCalendarDayNotTimestamp(t *testing.T) {
	slots := []model.BookingSlot{slot("1", "2025-03-01", model.SlotTypeNormal)}

	lateEvening := mustDay(t, "2025-03-01").Add(23*time.Hour + 59*time.Minute)

	assert.Equal(t, []string{"1"}, ids(model.Filter(slots, model.FilterAll, lateEvening)))
}
