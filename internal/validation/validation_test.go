package validation

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func TestIsSchoolYearName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2024-2025", true},
		{"1999-2000", true},
		{"2024-2026", false},
		{"2025-2024", false},
		{"24-25", false},
		{"2024/2025", false},
		{"2024-2025 ", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSchoolYearName(tt.in); got != tt.want {
			t.Errorf("IsSchoolYearName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsHHMM(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"07:30", true},
		{"00:00", true},
		{"23:59", true},
		{"24:00", false},
		{"7:30", false},
		{"07:60", false},
		{"0730", false},
	}
	for _, tt := range tests {
		if got := IsHHMM(tt.in); got != tt.want {
			t.Errorf("IsHHMM(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsLRN(t *testing.T) {
	if !IsLRN("123456789012") {
		t.Error("12 digits should be valid")
	}
	for _, bad := range []string{"12345678901", "1234567890123", "12345678901a", ""} {
		if IsLRN(bad) {
			t.Errorf("IsLRN(%q) should be false", bad)
		}
	}
}

type sampleForm struct {
	Name      string `form:"name"       label:"Name"        binding:"notblank"`
	Year      string `form:"year"       label:"School year" binding:"required,schoolyear"`
	StartTime string `form:"start_time" label:"Start time"  binding:"required,hhmm"`
	LRN       string `form:"lrn"        label:"LRN"         binding:"lrn"`
}

func TestMessages_CustomTags(t *testing.T) {
	Setup()

	form := sampleForm{Name: "  ", Year: "2024-2026", StartTime: "7:30", LRN: "123"}
	err := binding.Validator.ValidateStruct(&form)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	msgs := Messages(err)
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4: %v", len(msgs), msgs)
	}
	joined := strings.Join(msgs, "\n")
	for _, want := range []string{"Name cannot be blank", "School year must look like", "Start time must be a time", "LRN must be exactly 12 digits"} {
		if !strings.Contains(joined, want) {
			t.Errorf("messages missing %q: %v", want, msgs)
		}
	}
}

func TestMessages_Valid(t *testing.T) {
	Setup()

	form := sampleForm{Name: "Rizal", Year: "2024-2025", StartTime: "07:30"}
	if err := binding.Validator.ValidateStruct(&form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Messages(nil) != nil {
		t.Error("Messages(nil) should be nil")
	}
}
