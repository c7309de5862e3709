package rollno

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	n, err := Parse("2023BMS-025")
	require.NoError(t, err)
	assert.Equal(t, 2023, n.Year)
	assert.Equal(t, "BMS", n.Branch.Code)
	assert.Equal(t, "Management Studies", n.Branch.Name)
	assert.Equal(t, 25, n.Seq)
	assert.Equal(t, "2023BMS-025", n.String())
}

func TestParseRejects(t *testing.T) {
	tests := []string{
		"2023XYZ-025",
		"2023bms-025",
		"2023BMS025",
		"23BMS-025",
		"2023BMS-25",
		"2023BMS-000",
		"1999BMS-001",
		"",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.False(t, Valid(in))
		})
	}
}

func TestParseTrimsSpace(t *testing.T) {
	assert.True(t, Valid(" 2022BCA-101 "))
}

func TestAcademicYear(t *testing.T) {
	n, err := Parse("2023BMS-025")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before joining", time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), 1},
		{"first session", time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), 1},
		{"first year spring", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 1},
		{"second year", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 2},
		{"third year", time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), 3},
		{"graduated", time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.AcademicYear(tt.now))
		})
	}
	assert.True(t, n.IsAlumnus(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBranchesSorted(t *testing.T) {
	list := Branches()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Code, list[i].Code)
	}
	_, ok := LookupBranch("bms")
	assert.True(t, ok)
}
