//go:build !occt

package occt

import (
	"errors"
	"testing"

	"github.com/chazu/partview/pkg/brep"
)

func TestNewReturnsError(t *testing.T) {
	k, err := New()
	if err == nil {
		t.Fatal("New() error = nil, want non-nil error when occt tag is not set")
	}
	if k != nil {
		t.Fatal("New() returned non-nil kernel, want nil when occt tag is not set")
	}
	if !errors.Is(err, brep.ErrKernelUnavailable) {
		t.Errorf("New() error = %v, want ErrKernelUnavailable", err)
	}
}
