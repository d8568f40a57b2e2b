package reconcile

import (
	"errors"
	"testing"

	"github.com/spec-kit/zammad-reconcile/pkg/util"
)

func intPtr(i int) *int { return &i }

func TestResolveOperation(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Operation
	}{
		{"present without id creates", Input{State: StatePresent}, OpCreate},
		{"present with id updates", Input{State: StatePresent, TicketID: intPtr(12345)}, OpUpdate},
		{"absent closes", Input{State: StateAbsent, TicketID: intPtr(12345)}, OpClose},
		{"object id wins over state", Input{State: StatePresent, TicketID: intPtr(12345), ObjectID: "56789"}, OpAssociateExternalID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOperation(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("operation = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveOperationRejectsUnknownState(t *testing.T) {
	if _, err := ResolveOperation(Input{State: "recreate"}); err == nil {
		t.Error("expected an error for an unknown state selector")
	}
}

func TestValidateCreateListsAllMissingFields(t *testing.T) {
	err := validate(OpCreate, Input{State: StatePresent, Desired: DesiredState{
		Title: strPtr("Internet Outage"),
		Group: strPtr("Support"),
	}})

	var vErr *util.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{"customer", "subject", "body", "ticket_state", "priority"}
	if len(vErr.Missing) != len(want) {
		t.Fatalf("missing = %v, want %v", vErr.Missing, want)
	}
	for i, field := range want {
		if vErr.Missing[i] != field {
			t.Errorf("missing[%d] = %q, want %q", i, vErr.Missing[i], field)
		}
	}
}

func TestValidateCloseRequiresTicketID(t *testing.T) {
	err := validate(OpClose, Input{State: StateAbsent})
	var vErr *util.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestValidateAssociateRequiresTicketID(t *testing.T) {
	err := validate(OpAssociateExternalID, Input{ObjectID: "56789"})
	var vErr *util.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Missing) != 1 || vErr.Missing[0] != "ticket_id" {
		t.Errorf("missing = %v, want [ticket_id]", vErr.Missing)
	}
}
