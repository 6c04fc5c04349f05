package upload

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyQuotaExhausted(t *testing.T) {
	err := classify(status.Error(codes.ResourceExhausted, "quota exceeded"))
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("ResourceExhausted not classified as quota exhaustion: %v", err)
	}
}

func TestClassifyPassesThroughOtherErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unavailable", status.Error(codes.Unavailable, "transient")},
		{"permission denied", status.Error(codes.PermissionDenied, "nope")},
		{"plain error", errors.New("disk on fire")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := classify(tt.err); errors.Is(err, ErrQuotaExhausted) {
				t.Errorf("%v wrongly classified as quota exhaustion", tt.err)
			}
		})
	}
}
