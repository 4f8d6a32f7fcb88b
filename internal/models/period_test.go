package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPeriodTable(t *testing.T) {
	table := DefaultPeriodTable()
	require.Equal(t, 12, table.Len())

	r, ok := table.Range("09:15-09:55")
	require.True(t, ok)
	assert.Equal(t, SlotRange{Start: 2, End: 3}, r)
	assert.Equal(t, "09:15-09:55", table.Label(r))

	_, ok = table.Range("09:00-09:40")
	assert.False(t, ok)
	assert.Empty(t, table.Label(SlotRange{Start: 2, End: 4}), "multi-period ranges have no label")
	assert.True(t, table.Contains(SlotRange{Start: 10, End: 12}))
	assert.False(t, table.Contains(SlotRange{Start: 11, End: 13}))
}

func TestNewPeriodTableRejectsBadLabels(t *testing.T) {
	_, err := NewPeriodTable(nil)
	assert.Error(t, err)
	_, err = NewPeriodTable([]string{"08:00-09:00", " "})
	assert.Error(t, err)
	_, err = NewPeriodTable([]string{"08:00-09:00", "08:00-09:00"})
	assert.Error(t, err)
}

func TestSlotRange(t *testing.T) {
	assert.True(t, SlotRange{Start: 0, End: 1}.Valid())
	assert.False(t, SlotRange{Start: 2, End: 2}.Valid())
	assert.False(t, SlotRange{Start: -1, End: 2}.Valid())
	assert.True(t, SlotRange{Start: 2, End: 4}.Intersects(SlotRange{Start: 3, End: 5}))
	assert.False(t, SlotRange{Start: 2, End: 4}.Intersects(SlotRange{Start: 4, End: 6}))
}

func TestDays(t *testing.T) {
	day, ok := ParseDay("tuesday")
	require.True(t, ok)
	assert.Equal(t, 1, day)
	_, ok = ParseDay("Funday")
	assert.False(t, ok)
	assert.Equal(t, "Sunday", DayName(6))
	assert.Empty(t, DayName(7))

	assert.Equal(t, 0, FiveDayWeek.Next(4))
	assert.Equal(t, 5, SevenDayWeek.Next(4))
	assert.Equal(t, 0, SevenDayWeek.Next(6))
	assert.False(t, FiveDayWeek.Contains(5))
	assert.Equal(t, FiveDayWeek, WeekdaySet(6).Normalize())
}

func TestSessionValidate(t *testing.T) {
	s := Session{ID: "s1", Day: 4, StartSlot: 1, EndSlot: 3}
	assert.NoError(t, s.Validate(FiveDayWeek))

	s.Day = 5
	assert.Error(t, s.Validate(FiveDayWeek))
	assert.NoError(t, s.Validate(SevenDayWeek))

	s.EndSlot = 1
	assert.Error(t, s.Validate(SevenDayWeek))
}

func TestResolutionValidate(t *testing.T) {
	assert.NoError(t, Resolution{Action: ActionChangeVenue, NewVenue: "B202"}.Validate())
	assert.NoError(t, Resolution{Action: ActionReschedule, NewDay: IntPtr(2)}.Validate())
	assert.NoError(t, Resolution{Action: ActionSplitGroup}.Validate())

	assert.Error(t, Resolution{Action: ActionChangeVenue}.Validate())
	assert.Error(t, Resolution{Action: ActionChangeVenue, NewVenue: "B202", NewDay: IntPtr(1)}.Validate())
	assert.Error(t, Resolution{Action: ActionChangeTime}.Validate())
	assert.Error(t, Resolution{Action: ActionCancel, NewVenue: "B202"}.Validate())
	assert.Error(t, Resolution{Action: "teleport"}.Validate())
}

func TestVenueCatalog(t *testing.T) {
	catalog := NewVenueCatalog([]Venue{
		{ID: "v1", Name: "A101", Type: "lecture", Capacity: 60},
		{ID: "v1", Name: "Duplicate", Type: "lecture", Capacity: 10},
		{ID: "v2", Name: "Lab", Type: "lab", Capacity: 30},
	})
	assert.Equal(t, 2, catalog.Len())
	v, ok := catalog.ByName("Lab")
	require.True(t, ok)
	assert.Equal(t, "v2", v.ID)
	_, ok = catalog.ByName("Duplicate")
	assert.False(t, ok)
	v, ok = catalog.ByName(" a101 ")
	require.True(t, ok, "names match regardless of case")
	assert.Equal(t, "v1", v.ID)
	_, ok = catalog.ByName("")
	assert.False(t, ok)

	var empty *VenueCatalog
	assert.Zero(t, empty.Len())
	_, ok = empty.ByID("v1")
	assert.False(t, ok)
}
