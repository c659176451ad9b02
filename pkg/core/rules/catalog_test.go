package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbett/rostergen/pkg/core/model"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("06:30")
	require.NoError(t, err)
	assert.Equal(t, Clock(6*60+30), c)
	assert.Equal(t, "06:30", c.String())

	_, err = ParseClock("25:00")
	assert.Error(t, err)

	_, err = ParseClock("nonsense")
	assert.Error(t, err)
}

func TestDefaultCatalog_Templates(t *testing.T) {
	catalog := Default()

	assert.Equal(t, []string{"1F", "2F", "3F", "S", "SC"}, catalog.Codes())

	tpl, ok := catalog.Template("S")
	require.True(t, ok)
	assert.Equal(t, MustClock("06:30"), tpl.Start)
	assert.Equal(t, MustClock("15:00"), tpl.End)
	assert.Equal(t, 8.5, tpl.Hours)

	assert.Equal(t, 12.0, catalog.Duration("3F"))

	// Unknown codes fall back to the default duration instead of failing.
	assert.Equal(t, DefaultShiftHours, catalog.Duration("XX"))
}

func TestNewCatalog_Overrides(t *testing.T) {
	catalog := NewCatalog(map[string]TemplateOverride{
		"S":  {Hours: 8.0},                                    // partial: keep default window
		"N":  {TimeRange: "22:00 - 24:00", Hours: 2.0},        // brand-new code
		"M":  {TimeRange: "10:00 - 14:00"},                    // new code, hours from window
		"ZZ": {TimeRange: "garbage"},                          // unusable new code: skipped
		"1F": {TimeRange: "07:00 - 16:00"},                    // window override, hours kept
	})

	tpl, ok := catalog.Template("S")
	require.True(t, ok)
	assert.Equal(t, 8.0, tpl.Hours)
	assert.Equal(t, MustClock("06:30"), tpl.Start)

	tpl, ok = catalog.Template("N")
	require.True(t, ok)
	assert.Equal(t, 2.0, tpl.Hours)

	tpl, ok = catalog.Template("M")
	require.True(t, ok)
	assert.Equal(t, 4.0, tpl.Hours)

	_, ok = catalog.Template("ZZ")
	assert.False(t, ok)

	tpl, ok = catalog.Template("1F")
	require.True(t, ok)
	assert.Equal(t, MustClock("07:00"), tpl.Start)
	assert.Equal(t, 9.0, tpl.Hours)
}

func TestContractBounds(t *testing.T) {
	catalog := Default()

	b, ok := catalog.ContractBounds(model.ContractFullTime, HorizonBiWeekly)
	require.True(t, ok)
	assert.Equal(t, Bounds{Min: 70.0, Max: 76.0}, b)

	b, ok = catalog.ContractBounds(model.ContractCasual, HorizonWeekly)
	require.True(t, ok)
	assert.Equal(t, Bounds{Min: 8.0, Max: 24.0}, b)

	_, ok = catalog.ContractBounds(model.ContractType("intern"), HorizonBiWeekly)
	assert.False(t, ok)
}

func TestRestHoursBetween(t *testing.T) {
	catalog := Default()

	// 2F ends 23:00, S starts 06:30 next day: 7.5 hours of rest.
	assert.Equal(t, 7.5, catalog.RestHoursBetween("2F", "S"))

	// S ends 15:00, S starts 06:30 next day: 15.5 hours.
	assert.Equal(t, 15.5, catalog.RestHoursBetween("S", "S"))

	// Unknown codes are treated as safe.
	assert.Equal(t, 24.0, catalog.RestHoursBetween("XX", "S"))
}

func TestOpeningClosingAndPeaks(t *testing.T) {
	catalog := Default()

	assert.True(t, catalog.IsOpening("S"))
	assert.True(t, catalog.IsOpening("1F"))
	assert.False(t, catalog.IsOpening("2F"))

	assert.True(t, catalog.IsClosing("2F"))
	assert.False(t, catalog.IsClosing("S"))
	assert.False(t, catalog.IsClosing("3F")) // ends 20:00, before the 22:00 cutoff

	assert.True(t, catalog.CoversLunch("S"))
	assert.True(t, catalog.CoversLunch("2F")) // starts 14:00, touches lunch end
	assert.True(t, catalog.CoversDinner("2F"))
	assert.False(t, catalog.CoversDinner("S")) // ends 15:00
	assert.False(t, catalog.CoversWindow("XX", LunchStart, LunchEnd))
}
