package formatting_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/finsight/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1024", 1024},
		{"512B", 512},
		{"1KB", 1 << 10},
		{"50MB", 50 << 20},
		{"10mb", 10 << 20},
		{"2 GB", 2 << 30},
		{"1.5MB", 3 << 19},
		{"  8MB  ", 8 << 20},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if err != nil {
				t.Fatalf("ParseBytes(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBytesInvalid(t *testing.T) {
	for _, input := range []string{"", "MB", "-5MB", "50XX", "1.2.3KB", "99999999EB"} {
		t.Run(input, func(t *testing.T) {
			if _, err := formatting.ParseBytes(input); !errors.Is(err, formatting.ErrInvalidSize) {
				t.Errorf("ParseBytes(%q) error = %v, want ErrInvalidSize", input, err)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 2, "0 B"},
		{500, 0, "500 B"},
		{1 << 10, 0, "1 KB"},
		{50 << 20, 0, "50 MB"},
		{3 << 19, 1, "1.5 MB"},
		{1 << 30, -1, "1 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, n := range []int64{512, 1 << 10, 50 << 20, 2 << 30} {
		got, err := formatting.ParseBytes(formatting.FormatBytes(n, 0))
		if err != nil {
			t.Fatalf("round trip %d: %v", n, err)
		}
		if got != n {
			t.Errorf("round trip %d = %d", n, got)
		}
	}
}
