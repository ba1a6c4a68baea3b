//go:build windows

package svgsource

import (
	"errors"
	"testing"

	"golang.org/x/sys/windows"
)

func TestModuleResourceNotFound(t *testing.T) {
	for _, name := range []string{"NO_SUCH_ICON", "#4242", "#not-a-number"} {
		src := Module{Name: name}
		if _, err := src.Load(); !errors.Is(err, ErrResourceNotFound) {
			t.Errorf("%s: expected ErrResourceNotFound, got %v", name, err)
		}
		if got := Describe(src); got != "module:"+name {
			t.Errorf("unexpected description %q", got)
		}
	}
}

func TestModuleResourceName(t *testing.T) {
	if id, ok := (Module{Name: "#12"}).resourceName().(windows.ResourceID); !ok || id != 12 {
		t.Errorf("expected the integer identifier 12, got %v", id)
	}
	if name, ok := (Module{Name: "ICON"}).resourceName().(string); !ok || name != "ICON" {
		t.Errorf("expected a string name, got %v", name)
	}
}
