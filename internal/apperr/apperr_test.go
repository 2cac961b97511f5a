package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "NoCause", err: New(NotOpen, "repository path is not set"), want: "[NOT_OPEN] repository path is not set"},
		{name: "WithCause", err: Wrap(NotABlob, "read object", errors.New("tree")), want: "[NOT_A_BLOB] read object: tree"},
		{name: "Formatted", err: Newf(RevisionUnresolvable, "unknown revision %q", "abc"), want: `[REVISION_UNRESOLVABLE] unknown revision "abc"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs_ThroughWrapping(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("prepare cache: %w", Wrap(TraversalFailed, "walk", cause))

	if !Is(err, TraversalFailed) {
		t.Fatalf("Is(err, TraversalFailed) = false, want true")
	}
	if Is(err, NotOpen) {
		t.Fatalf("Is(err, NotOpen) = true, want false")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(err, cause) = false, want true")
	}
	if Is(nil, NotOpen) {
		t.Fatalf("Is(nil, NotOpen) = true, want false")
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Fatalf("CodeOf(plain) = %q, want empty", got)
	}
}
