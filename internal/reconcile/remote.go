package reconcile

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/spec-kit/zammad-reconcile/internal/lookup"
	"github.com/spec-kit/zammad-reconcile/internal/zammad"
)

// RemoteState mirrors DesiredState but holds what the remote ticket looks
// like right now, with every foreign key already resolved to a name. It is
// rebuilt from scratch on every invocation and never persisted. Comparing
// an unresolved id against a desired name would be a correctness bug, so
// ids never appear here.
type RemoteState struct {
	Customer    string
	Title       string
	Group       string
	Subject     string
	Body        string
	Internal    string
	TicketState string
	Priority    string
	Owner       string
}

// BuildRemoteState resolves a remote ticket and its most recent article
// into name representation. The most recent article is the last element
// of the list in the order the service returned it; no re-sort happens.
// A lookup miss (for example a since-deleted group) leaves the field
// empty and logs a warning instead of failing the invocation.
func BuildRemoteState(ticket *zammad.Ticket, articles []zammad.Article, ref *lookup.ReferenceData, logger *zap.Logger) RemoteState {
	remote := RemoteState{Title: ticket.Title}

	var ok bool
	if remote.Customer, ok = ref.Users.EmailByID(ticket.CustomerID); !ok {
		logger.Warn("customer id did not resolve", zap.Int("customer_id", ticket.CustomerID))
	}
	if remote.Group, ok = ref.Groups.NameByID(ticket.GroupID); !ok {
		logger.Warn("group id did not resolve", zap.Int("group_id", ticket.GroupID))
	}
	if remote.TicketState, ok = ref.States.NameByID(ticket.StateID); !ok {
		logger.Warn("state id did not resolve", zap.Int("state_id", ticket.StateID))
	}
	if remote.Priority, ok = ref.Priorities.NameByID(ticket.PriorityID); !ok {
		logger.Warn("priority id did not resolve", zap.Int("priority_id", ticket.PriorityID))
	}
	if ticket.OwnerID != 0 {
		if remote.Owner, ok = ref.Users.DisplayNameByID(ticket.OwnerID); !ok {
			logger.Warn("owner id did not resolve to a composed display name", zap.Int("owner_id", ticket.OwnerID))
		}
	}

	if len(articles) > 0 {
		latest := articles[len(articles)-1]
		remote.Subject = latest.Subject
		remote.Body = latest.Body
		remote.Internal = strconv.FormatBool(latest.Internal)
	}

	return remote
}

// diff lists the names of every desired field that is present and differs
// from the remote value. The internal flag compares as a lower-cased
// string, matching its wire representation.
func diff(desired DesiredState, remote RemoteState) []string {
	var changed []string
	compare := func(name string, want *string, have string) {
		if want != nil && *want != have {
			changed = append(changed, name)
		}
	}

	compare("customer", desired.Customer, remote.Customer)
	compare("title", desired.Title, remote.Title)
	compare("group", desired.Group, remote.Group)
	compare("subject", desired.Subject, remote.Subject)
	compare("body", desired.Body, remote.Body)
	if desired.Internal != nil && desired.InternalString() != remote.Internal {
		changed = append(changed, "internal")
	}
	compare("ticket_state", desired.TicketState, remote.TicketState)
	compare("priority", desired.Priority, remote.Priority)
	compare("owner", desired.Owner, remote.Owner)

	return changed
}
