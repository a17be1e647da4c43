package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto-api/models"
)

func TestCalendarNormalize(t *testing.T) {
	cal := NewCalendar()

	key, err := cal.Normalize("2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", key)

	key, err = cal.Normalize("")
	require.NoError(t, err)
	assert.Equal(t, cal.Today(), key)

	_, err = cal.Normalize("31/08/2026")
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestCalendarKeyFormats(t *testing.T) {
	cal := NewCalendar()
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), cal.Today())
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-W\d{2}$`), cal.WeekKey())
}
