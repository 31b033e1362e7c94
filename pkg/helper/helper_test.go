package helper

import "testing"

func TestFormatPoints(t *testing.T) {
	tests := []struct {
		points float64
		want   string
	}{
		{25, "25"},
		{0, "0"},
		{18.5, "18.5"},
		{33.0, "33"},
	}
	for _, test := range tests {
		if got := FormatPoints(test.points); got != test.want {
			t.Errorf("FormatPoints(%v): expected %q, got %q", test.points, test.want, got)
		}
	}
}

func TestShortenEventName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Bahrain Grand Prix", "Bahrain"},
		{"Grand Prix of Monaco", "of Monaco"},
		{"Sprint Shootout", "Sprint Shootout"},
	}
	for _, test := range tests {
		if got := ShortenEventName(test.name); got != test.want {
			t.Errorf("ShortenEventName(%q): expected %q, got %q", test.name, test.want, got)
		}
	}
}
