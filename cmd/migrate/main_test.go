package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  string
		want string
	}{
		{"default", nil, "", defaultDSN},
		{"env", nil, "postgres://env/db", "postgres://env/db"},
		{"flag wins", []string{"-dsn", "postgres://flag/db"}, "postgres://env/db", "postgres://flag/db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(envDSN, tt.env)

			o, _, err := parse(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("parse() error = %v", err)
			}
			if o.dsn != tt.want {
				t.Errorf("dsn = %q, want %q", o.dsn, tt.want)
			}
		})
	}
}

func TestParseForce(t *testing.T) {
	o, _, err := parse([]string{"-force", "0"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	if !o.forced || o.force != 0 {
		t.Errorf("force = %d forced = %v, want 0 true", o.force, o.forced)
	}

	o, _, _ = parse(nil, &bytes.Buffer{})
	if o.forced {
		t.Error("forced set without -force flag")
	}
}

func TestRunUsage(t *testing.T) {
	var out bytes.Buffer
	if err := run(nil, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "usage: migrate") {
		t.Errorf("output = %q, want usage", out.String())
	}
}

func TestRunBadFlag(t *testing.T) {
	if err := run([]string{"-bogus"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown flag")
	}
}
