package handlers

import (
	"testing"
	"time"

	"farmcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpcomingVaccinations(t *testing.T) {
	now := time.Now().UnixMilli()
	day := 24 * time.Hour.Milliseconds()

	pets := []models.Pet{
		{
			PetID: "pet-1", Name: "Bessie", Type: "cow",
			Vaccinations: []models.Vaccination{
				{VaccinationID: "v1", Name: "FMD booster", DueDate: now + 20*day},
				{VaccinationID: "v2", Name: "Anthrax", DueDate: now + 5*day},
				{VaccinationID: "v3", Name: "Old shot", DueDate: now - day},
			},
		},
		{
			PetID: "pet-2", Name: "Rex", Type: "dog",
			Vaccinations: []models.Vaccination{
				{VaccinationID: "v4", Name: "Rabies", DueDate: now + 45*day},
			},
		},
	}

	upcoming := upcomingVaccinations(pets, now, now+30*day)

	// Past and beyond-horizon vaccinations are excluded; rest sorted soonest first.
	require.Len(t, upcoming, 2)
	assert.Equal(t, "v2", upcoming[0].Vaccination.VaccinationID)
	assert.Equal(t, "v1", upcoming[1].Vaccination.VaccinationID)
	assert.Equal(t, "Bessie", upcoming[0].PetName)
	assert.Equal(t, "cow", upcoming[0].PetType)

	// A wider horizon picks up the other pet's vaccination.
	upcoming = upcomingVaccinations(pets, now, now+60*day)
	require.Len(t, upcoming, 3)
	assert.Equal(t, "v4", upcoming[2].Vaccination.VaccinationID)
}

func TestUpcomingVaccinationsEmpty(t *testing.T) {
	now := time.Now().UnixMilli()
	assert.Empty(t, upcomingVaccinations(nil, now, now))
	assert.Empty(t, upcomingVaccinations([]models.Pet{{PetID: "p"}}, now, now))
}
