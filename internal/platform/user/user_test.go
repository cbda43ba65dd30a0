package user

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestTranslateCreateError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want error
	}{
		{"duplicated key", gorm.ErrDuplicatedKey, ErrEmailTaken},
		{"wrapped duplicated key", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), ErrEmailTaken},
		{"other error passes through", gorm.ErrInvalidDB, gorm.ErrInvalidDB},
		{"nil stays nil", nil, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := translateCreateError(tc.err)
			if tc.want == nil {
				if got != nil {
					t.Errorf("translateCreateError() = %v; want nil", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Errorf("translateCreateError() = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Alice@Bank.Test", "alice@bank.test"},
		{"  bob@bank.test ", "bob@bank.test"},
		{"carol@bank.test", "carol@bank.test"},
	}

	for _, tc := range testCases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
