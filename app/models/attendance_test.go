package models

import "testing"

func TestParseAttendanceStatus(t *testing.T) {
	for _, valid := range []string{"Present", "Absent", "Late", "Half Day"} {
		if _, ok := ParseAttendanceStatus(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "present", "Excused", "HalfDay"} {
		if _, ok := ParseAttendanceStatus(invalid); ok {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}

func TestValidRating(t *testing.T) {
	for _, r := range []int{1, 2, 3, 4, 5} {
		if !ValidRating(r) {
			t.Errorf("expected rating %d to be valid", r)
		}
	}
	for _, r := range []int{0, -1, 6, 100} {
		if ValidRating(r) {
			t.Errorf("expected rating %d to be invalid", r)
		}
	}
}
