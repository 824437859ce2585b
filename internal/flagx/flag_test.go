package flagx

import (
	"reflect"
	"testing"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	got := FilterArgs([]string{"-a", ":8080", "-x", "junk"}, []string{"-a"})
	want := []string{"-a", ":8080"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	got := FilterArgs([]string{"--config=conf.json", "-d=dsn"}, []string{"--config"})
	want := []string{"--config=conf.json"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFilterArgs_FlagFollowedByFlag(t *testing.T) {
	// The value slot is occupied by another flag; only the flag itself survives.
	got := FilterArgs([]string{"-a", "-d", "dsn"}, []string{"-a"})
	want := []string{"-a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestFilterArgs_Empty(t *testing.T) {
	got := FilterArgs(nil, []string{"-a"})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}
