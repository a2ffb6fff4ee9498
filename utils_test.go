package main

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"mvdan.cc/sh/v3/pattern"
)

func Test_filterRegex(t *testing.T) {
	ss := []string{"abcde", "abxde", "xyz"}

	xwant := map[string][]string{
		"ab?de":    {"abcde", "abxde"},
		"ab*":      {"abcde", "abxde"},
		"ab[cx]de": {"abcde", "abxde"},
		"*":        ss,
	}

	for pat, want := range xwant {
		expr, err := pattern.Regexp(pat, 0)
		if err != nil {
			panic(err)
		}
		regex := regexp.MustCompile("^" + expr + "$")

		got := filterRegex(ss, regex)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("filterRegex(%v, %s) mismatch (-want +got):\n%s", ss, regex, diff)
		}
	}

	got := filterRegex(ss, nil)
	if diff := cmp.Diff(ss, got); diff != "" {
		t.Errorf("filterRegex(%v, nil) mismatch (-want +got):\n%s", ss, diff)
	}
}

func Test_fmtDuration(t *testing.T) {
	xwant := map[time.Duration]string{
		90 * time.Second:       "90s",
		time.Second:            "1s",
		999 * time.Millisecond: "999ms",
		time.Millisecond:       "1ms",
		999 * time.Microsecond: "999µs",
		0:                      "0µs",
	}

	for d, want := range xwant {
		if got := fmtDuration(d); got != want {
			t.Errorf("fmtDuration(%v) got %q; want %q", d, got, want)
		}
	}
}

func Test_fmtAge(t *testing.T) {
	now := time.Unix(1700000000, 0)

	xwant := map[int64]string{
		now.Add(-48 * time.Hour).Unix():   "2 days",
		now.Add(-5 * time.Hour).Unix():    "5 hours",
		now.Add(-10 * time.Minute).Unix(): "10 minutes",
		now.Add(-30 * time.Second).Unix(): "30 seconds",
	}

	for epoch, want := range xwant {
		if got := fmtAge(now, epoch); got != want {
			t.Errorf("fmtAge(%d) got %q; want %q", epoch, got, want)
		}
	}
}
