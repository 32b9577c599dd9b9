package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetPeriod(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	now := time.Date(2025, time.January, 1, 9, 0, 0, 0, jakarta)

	tests := []struct {
		preset Preset
		label  string
		from   time.Time
		to     time.Time
	}{
		{PresetToday, "01/01/2025", time.Date(2025, 1, 1, 0, 0, 0, 0, jakarta), time.Date(2025, 1, 2, 0, 0, 0, 0, jakarta)},
		{PresetYesterday, "31/12/2024", time.Date(2024, 12, 31, 0, 0, 0, 0, jakarta), time.Date(2025, 1, 1, 0, 0, 0, 0, jakarta)},
		{PresetThisMonth, "Januari 2025", time.Date(2025, 1, 1, 0, 0, 0, 0, jakarta), time.Date(2025, 2, 1, 0, 0, 0, 0, jakarta)},
		{PresetLastMonth, "Desember 2024", time.Date(2024, 12, 1, 0, 0, 0, 0, jakarta), time.Date(2025, 1, 1, 0, 0, 0, 0, jakarta)},
	}

	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			p := presetPeriod(tt.preset, now)
			from, to := p.Range(jakarta)

			assert.Equal(t, tt.label, p.Label())
			assert.True(t, tt.from.Equal(from), "from = %s", from)
			assert.True(t, tt.to.Equal(to), "to = %s", to)
		})
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := parsePeriod(PresetCustomMonth, "2025-11", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, Period{Monthly: true, Year: 2025, Month: 11}, p)

	p, err = parsePeriod(PresetCustomDay, "2025-11-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "15/11/2025", p.Label())

	_, err = parsePeriod(PresetCustomDay, "15-11-2025", time.UTC)
	assert.Error(t, err)

	_, err = parsePeriod(PresetCustomMonth, "2025-13", time.UTC)
	assert.Error(t, err)
}
