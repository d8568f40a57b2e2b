package reconcile

import (
	"fmt"

	"github.com/spec-kit/zammad-reconcile/pkg/util"
)

// Operation is the closed set of things one invocation can do. It is
// resolved exactly once from the input and then dispatched exhaustively;
// there is no string-typed state flag past this point.
type Operation int

const (
	OpCreate Operation = iota
	OpUpdate
	OpClose
	OpAssociateExternalID
)

func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpClose:
		return "close"
	case OpAssociateExternalID:
		return "associate-external-id"
	}
	return fmt.Sprintf("operation(%d)", int(op))
}

// State selector values accepted on the invocation surface.
const (
	StatePresent = "present"
	StateAbsent  = "absent"
)

// Input is the complete invocation surface: the state selector, the
// optional ticket id, the desired ticket fields, and the optional
// external object id for the i-doit association.
type Input struct {
	State      string
	TicketID   *int
	ObjectID   string
	CloseState string
	Desired    DesiredState
}

// ResolveOperation maps the input onto one Operation. An external object
// id selects the association operation regardless of the state selector;
// otherwise present means create or update depending on whether a ticket
// id was supplied, and absent means close.
func ResolveOperation(in Input) (Operation, error) {
	if in.ObjectID != "" {
		return OpAssociateExternalID, nil
	}
	switch in.State {
	case StatePresent:
		if in.TicketID != nil {
			return OpUpdate, nil
		}
		return OpCreate, nil
	case StateAbsent:
		return OpClose, nil
	default:
		return 0, fmt.Errorf("invalid state %q: must be %q or %q", in.State, StatePresent, StateAbsent)
	}
}

// validate checks the required field set of an operation before any
// network call is made.
func validate(op Operation, in Input) error {
	var missing []string
	switch op {
	case OpCreate:
		for _, field := range [...]struct {
			name  string
			value *string
		}{
			{"customer", in.Desired.Customer},
			{"title", in.Desired.Title},
			{"group", in.Desired.Group},
			{"subject", in.Desired.Subject},
			{"body", in.Desired.Body},
			{"ticket_state", in.Desired.TicketState},
			{"priority", in.Desired.Priority},
		} {
			if field.value == nil || *field.value == "" {
				missing = append(missing, field.name)
			}
		}
	case OpUpdate, OpClose:
		if in.TicketID == nil {
			missing = append(missing, "ticket_id")
		}
	case OpAssociateExternalID:
		if in.TicketID == nil {
			missing = append(missing, "ticket_id")
		}
		if in.ObjectID == "" {
			missing = append(missing, "object_id")
		}
	}
	if len(missing) > 0 {
		return util.NewValidationError(missing...)
	}
	return nil
}
