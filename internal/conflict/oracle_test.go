package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unitime-api/internal/models"
)

func TestOracleAvailability(t *testing.T) {
	oracle := NewOracle([]models.Session{
		session("1", "v-a101", "smith", "cs-1", 0, 2, 4),
		session("2", "v-a102", "jones", "cs-2", 1, 0, 2),
	})

	assert.False(t, oracle.IsVenueAvailable("v-a101", 0, models.SlotRange{Start: 3, End: 5}, ""))
	assert.True(t, oracle.IsVenueAvailable("v-a101", 0, models.SlotRange{Start: 4, End: 5}, ""), "touching end is free")
	assert.True(t, oracle.IsVenueAvailable("v-a101", 1, models.SlotRange{Start: 2, End: 4}, ""))
	assert.True(t, oracle.IsVenueAvailable("v-a101", 0, models.SlotRange{Start: 2, End: 4}, "1"), "own booking is excluded")

	assert.False(t, oracle.IsLecturerAvailable("jones", 1, models.SlotRange{Start: 1, End: 2}, ""))
	assert.True(t, oracle.IsLecturerAvailable("jones", 0, models.SlotRange{Start: 1, End: 2}, ""))
	assert.False(t, oracle.IsGroupAvailable("cs-1", 0, models.SlotRange{Start: 0, End: 3}, ""))
	assert.True(t, oracle.IsGroupAvailable("", 0, models.SlotRange{Start: 0, End: 3}, ""))
}

func TestOracleClashes(t *testing.T) {
	oracle := NewOracle([]models.Session{
		session("1", "v-a101", "smith", "cs-1", 0, 2, 4),
		session("2", "v-a102", "jones", "cs-1", 0, 3, 5),
	})

	clashes := oracle.Clashes(session("new", "v-a101", "jones", "cs-9", 0, 3, 4))
	require.Len(t, clashes, 2)
	assert.Equal(t, models.ConflictVenue, clashes[0].Type)
	assert.Equal(t, "1", clashes[0].Session.ID)
	assert.Equal(t, models.ConflictLecturer, clashes[1].Type)
	assert.Equal(t, "2", clashes[1].Session.ID)

	assert.Empty(t, oracle.Clashes(session("1", "v-a101", "smith", "cs-1", 0, 2, 4)), "editing a session never clashes with itself")
}

func TestOracleFreeVenues(t *testing.T) {
	oracle := NewOracle([]models.Session{
		session("1", "v-a102", "smith", "cs-1", 0, 2, 4),
	})
	free := oracle.FreeVenues(testCatalog(), VenueQuery{
		Day:         0,
		Slot:        models.SlotRange{Start: 2, End: 3},
		Type:        "lecture",
		MinCapacity: 50,
	})

	names := make([]string, len(free))
	for i, v := range free {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"A101", "A103"}, names)

	all := oracle.FreeVenues(testCatalog(), VenueQuery{Day: 0, Slot: models.SlotRange{Start: 2, End: 3}, ExcludingSessionID: "1"})
	assert.Len(t, all, 5)
	assert.Equal(t, "S1", all[0].Name)
}

func TestParseResource(t *testing.T) {
	r, ok := ParseResource("lecturer")
	require.True(t, ok)
	assert.Equal(t, models.ConflictLecturer, r.ConflictType())
	_, ok = ParseResource("room")
	assert.False(t, ok)
}
