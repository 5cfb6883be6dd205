package cmd

import "testing"

func TestResolveServeAddr(t *testing.T) {
	cases := []struct {
		flag, port, cfg string
		want            string
	}{
		{"", "", "", ":8001"},
		{"", "", ":9000", ":9000"},
		{"", "3000", ":9000", ":3000"},
		{"", "not-a-port", ":9000", ":9000"},
		{"127.0.0.1:8080", "3000", ":9000", "127.0.0.1:8080"},
	}
	for _, c := range cases {
		got := resolveServeAddr(c.flag, c.port, c.cfg)
		if got != c.want {
			t.Fatalf("resolveServeAddr(%q, %q, %q)=%q want %q", c.flag, c.port, c.cfg, got, c.want)
		}
	}
}
