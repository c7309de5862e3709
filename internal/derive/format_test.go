package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Annual Tech Fest 2024":  "annual-tech-fest-2024",
		"  Hello,   World!  ":    "hello-world",
		"Already-a-slug":         "already-a-slug",
		"C++ & Go -- Workshop":   "c-go-workshop",
		"":                       "",
		"!!!":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Fri, 15 Mar 2024", FormatDate(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.Equal(t, "Fri, 15 Mar 2024", FormatDay("2024-03-15"))
	assert.Equal(t, "", FormatDay("soon"))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "6:30 PM", FormatClock("18:30"))
	assert.Equal(t, "9:05 AM", FormatClock("09:05"))
	assert.Equal(t, "evening", FormatClock("evening"))
}
