package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/featurelist/internal/catalog"
)

func TestPhases_BuildFullCatalog(t *testing.T) {
	phases, err := Phases()
	require.NoError(t, err)
	require.Len(t, phases, 2)

	assert.Equal(t, 215, phases[0].EntryCount())
	assert.Equal(t, 40, phases[1].EntryCount())

	b := catalog.NewBuilder()
	for _, p := range phases {
		_, err := b.AddPhase(p)
		require.NoError(t, err)
		assert.Empty(t, catalog.DeclaredMismatches(p.Batches), "phase %s", p.Name)
	}

	c := b.Build(catalog.Metadata{Project: Project, Version: Version, Timestamp: time.Now()})
	require.NoError(t, catalog.Verify(c))
	assert.Equal(t, 255, c.TotalFeatures)
	assert.Equal(t, []string{
		"Authentication",
		"Home Page",
		"Prediction System",
		"Standings",
		"Matches & Groups",
		"Statistics",
		"Admin Panel",
		"API Integration",
		"Security",
		"Responsive Design",
		"Internationalization",
		"Email & Notifications",
		"Flexible Participation",
		"Admin Insights",
	}, c.Categories.Keys())

	first := c.Features[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "User can register with email, password, first name, last name, and department", first.Description)
	assert.Equal(t, "seed/initial/01-authentication.yaml", phases[0].Batches[0].Source)

	n, _ := c.Categories.Get("Admin Insights")
	assert.Equal(t, 15, n)
	assert.Equal(t, 216, c.Features[215].ID)
	assert.Equal(t, "Email & Notifications", c.Features[215].Category)
}

func TestPhase_Unknown(t *testing.T) {
	_, err := Phase("missing")
	assert.Error(t, err)
}
