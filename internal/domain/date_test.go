package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2018-12-09")
	require.NoError(t, err)
	require.Equal(t, Date{Year: 2018, Month: time.December, Day: 9}, date)
	require.Equal(t, "2018-12-09", date.String())

	_, err = ParseDate("09/12/2018")
	require.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseDate("2018-02-30")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateNext(t *testing.T) {
	require.Equal(t, Date{2018, time.December, 10}, Date{2018, time.December, 9}.Next())
	require.Equal(t, Date{2019, time.January, 1}, Date{2018, time.December, 31}.Next())
	require.Equal(t, Date{2020, time.February, 29}, Date{2020, time.February, 28}.Next())
}

func TestDateContainsUsesOwnOffset(t *testing.T) {
	date := Date{2018, time.December, 9}
	east := time.FixedZone("", 2*60*60)
	west := time.FixedZone("", -5*60*60)

	require.True(t, date.Contains(time.Date(2018, time.December, 9, 0, 30, 0, 0, east)))
	require.True(t, date.Contains(time.Date(2018, time.December, 9, 23, 0, 0, 0, west)))
	require.False(t, date.Contains(time.Date(2018, time.December, 10, 0, 0, 0, 0, time.UTC)))
	require.False(t, date.Contains(time.Date(2017, time.December, 9, 12, 0, 0, 0, time.UTC)))
}

func TestDateEndsBefore(t *testing.T) {
	date := Date{2018, time.December, 31}

	require.False(t, date.EndsBefore(time.Date(2018, time.December, 31, 23, 59, 59, 0, time.UTC)))
	require.True(t, date.EndsBefore(time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)))
	require.False(t, date.EndsBefore(time.Date(2018, time.June, 1, 0, 0, 0, 0, time.UTC)))
}
