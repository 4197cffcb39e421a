package fitness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePace(t *testing.T) {
	assert.Equal(t, int64(600), CalculatePace(2, 1200))
	assert.Equal(t, int64(0), CalculatePace(0, 1200))
	assert.Equal(t, int64(0), CalculatePace(-1, 1200))
	assert.Equal(t, int64(0), CalculatePace(5, 0))
	// Fractional distances truncate toward zero.
	assert.Equal(t, int64(387), CalculatePace(3.1, 1200))
}

func TestFormatPace(t *testing.T) {
	assert.Equal(t, "10:00", FormatPace(600))
	assert.Equal(t, "0:00", FormatPace(0))
	assert.Equal(t, "9:05", FormatPace(545))
	assert.Equal(t, "0:59", FormatPace(59))
	assert.Equal(t, "12:30", FormatPace(750))
}

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "2024-01", PeriodKey(time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2024-02", PeriodKey(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2023-12", PeriodKey(time.Date(2023, time.December, 15, 12, 0, 0, 0, time.UTC)))
}
