package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		wantRaw  string
		wantYear int // 0 means absent
	}{
		{name: "single token", text: "...01.02.2025 10:00:00...", wantRaw: "01.02.2025 10:00:00", wantYear: 2025},
		{name: "tab separated cells", text: "A1\tItem\t15.06.2024 23:59:59\tY", wantRaw: "15.06.2024 23:59:59", wantYear: 2024},
		{name: "first token wins", text: "01.01.2023 00:00:00 then 02.02.2025 12:00:00", wantRaw: "01.01.2023 00:00:00", wantYear: 2023},
		{name: "wide whitespace", text: "31.12.2025\t \n08:30:00", wantRaw: "31.12.2025\t \n08:30:00", wantYear: 2025},
		{name: "no token", text: "A1 Item without date", wantRaw: ""},
		{name: "date without time", text: "01.02.2025", wantRaw: ""},
		{name: "empty", text: "", wantRaw: ""},
		{name: "impossible date", text: "31.02.2025 10:00:00", wantRaw: "31.02.2025 10:00:00"},
		{name: "impossible time", text: "01.02.2025 25:00:00", wantRaw: "01.02.2025 25:00:00"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractYear(tt.text)
			assert.Equal(t, tt.wantRaw, got.RawText)
			if tt.wantYear == 0 {
				assert.False(t, got.HasYear())
				return
			}
			require.True(t, got.HasYear())
			assert.Equal(t, tt.wantYear, *got.Year)
		})
	}
}

func TestExtractYearIsIdempotent(t *testing.T) {
	t.Parallel()

	text := "A7\tWidget\t03.03.2025 09:15:00"
	first := ExtractYear(text)
	second := ExtractYear(text)

	assert.Equal(t, first.RawText, second.RawText)
	require.True(t, first.HasYear())
	require.True(t, second.HasYear())
	assert.Equal(t, *first.Year, *second.Year)
}
