package auth

import "testing"

func TestAllow(t *testing.T) {
	testCases := []struct {
		name     string
		caller   []string
		required []string
		want     bool
	}{
		{"no requirement", []string{"teller"}, nil, true},
		{"no requirement, no roles", nil, nil, true},
		{"exact match", []string{"administrator"}, []string{"administrator"}, true},
		{"any of several required", []string{"auditor"}, []string{"administrator", "auditor"}, true},
		{"caller holds extra roles", []string{"teller", "administrator"}, []string{"administrator"}, true},
		{"missing role", []string{"teller"}, []string{"administrator"}, false},
		{"caller has no roles", nil, []string{"administrator"}, false},
		{"case sensitive", []string{"Administrator"}, []string{"administrator"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allow(tc.caller, tc.required); got != tc.want {
				t.Errorf("Allow(%v, %v) = %v; want %v", tc.caller, tc.required, got, tc.want)
			}
		})
	}
}
