package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/lenslink/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DaysInMonth(tc.year, tc.month), "%d-%02d", tc.year, tc.month)
	}
}

func TestLeadingBlanks(t *testing.T) {
	// 2024-09-01 is a Sunday
	assert.Equal(t, 6, LeadingBlanks(2024, time.September, Monday))
	assert.Equal(t, 0, LeadingBlanks(2024, time.September, Sunday))

	// 2024-07-01 is a Monday
	assert.Equal(t, 0, LeadingBlanks(2024, time.July, Monday))
	assert.Equal(t, 1, LeadingBlanks(2024, time.July, Sunday))
}

func TestBuildMarksCells(t *testing.T) {
	m, err := Build(2024, time.February, Options{
		Today:    "2024-02-14",
		Selected: "2024-02-29",
		Sessions: []*models.Session{{Date: "2024-02-29"}, {Date: "2024-03-01"}},
	})
	require.NoError(t, err)

	assert.Equal(t, Monday, m.WeekStart)

	// 2024-02-01 is a Thursday
	require.Len(t, m.Cells, 3+29)
	for _, c := range m.Cells[:3] {
		assert.True(t, c.Blank())
	}

	first := m.Cells[3]
	assert.Equal(t, "2024-02-01", first.Date)
	assert.Equal(t, 1, first.Day)

	valentine := m.Cells[3+13]
	assert.True(t, valentine.Today)
	assert.False(t, valentine.HasSessions)

	leap := m.Cells[len(m.Cells)-1]
	assert.Equal(t, "2024-02-29", leap.Date)
	assert.True(t, leap.Selected)
	assert.True(t, leap.HasSessions)
}

func TestBuildRejectsBadMonth(t *testing.T) {
	_, err := Build(2024, 13, Options{})
	assert.Equal(t, ErrInvalidMonth, err)
}

func TestWeeksAndNavigation(t *testing.T) {
	m, err := Build(2024, time.December, Options{WeekStart: Sunday})
	require.NoError(t, err)

	weeks := m.Weeks()
	// 2024-12-01 is a Sunday: 31 days fill four full weeks and three days
	require.Len(t, weeks, 5)
	assert.Len(t, weeks[4], 3)

	y, mo := m.Next()
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.January, mo)

	y, mo = m.Prev()
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.November, mo)
}

func TestRender(t *testing.T) {
	m, err := Build(2024, time.July, Options{
		Today:    "2024-07-02",
		Sessions: []*models.Session{{Date: "2024-07-03"}},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(m.Render(), "\n"), "\n")
	assert.Equal(t, "July 2024", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], " Mo "))
	assert.Equal(t, "  1  [ 2 ]  3*   4    5    6    7  ", lines[2])
}
