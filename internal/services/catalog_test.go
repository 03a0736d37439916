package services

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Go Fundamentals", "go-fundamentals"},
		{"  Building Web APIs  ", "building-web-apis"},
		{"C++ & Rust!", "c-rust"},
		{"Déjà Vu", "d-j-vu"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
