package idvalidate

import "testing"

func TestIsValid(t *testing.T) {
	valid := []string{"acme", "acme.hello", "acme.suite.a", "acme-corp.tool-kit"}
	for _, id := range valid {
		if !IsValid(id) {
			t.Errorf("expected %q to be valid", id)
		}
	}

	invalid := []string{"", ".", "acme.", ".acme", "acme..hello", "Acme.Hello", "-acme", "acme-"}
	for _, id := range invalid {
		if IsValid(id) {
			t.Errorf("expected %q to be invalid", id)
		}
	}
}
