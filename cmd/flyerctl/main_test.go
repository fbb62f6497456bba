package main

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	got := splitList(" descriptions, cma;\tsocial ,, ")
	want := []string{"descriptions", "cma", "social"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitList = %v, want %v", got, want)
	}
	if splitList("") != nil {
		t.Error("empty input should yield nil")
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"", true, true},
		{"yes", false, true},
		{" OFF ", true, false},
		{"maybe", true, true},
	}
	for _, tt := range tests {
		if got := parseBool(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBool(%q, %v) = %v", tt.in, tt.def, got)
		}
	}
}

func TestWithSuffix(t *testing.T) {
	if got := withSuffix("out/report.html", "cma"); got != "out/report-cma.html" {
		t.Errorf("got %q", got)
	}
	if got := withSuffix("report", "social"); got != "report-social" {
		t.Errorf("got %q", got)
	}
}
