package reconcile

import "strconv"

// DesiredState describes the ticket the caller wants. A nil field means
// "leave unchanged" on update and "required" on create. All foreign-keyed
// attributes are carried as names (customer by email, owner by composed
// display name, group/state/priority by name), never as numeric ids.
type DesiredState struct {
	Customer    *string
	Title       *string
	Group       *string
	Subject     *string
	Body        *string
	Internal    *bool
	TicketState *string
	Priority    *string
	Owner       *string
}

// InternalString renders the internal flag the way it travels on the
// wire: a lower-cased string, defaulting to "false" when unset.
func (d DesiredState) InternalString() string {
	if d.Internal == nil {
		return "false"
	}
	return strconv.FormatBool(*d.Internal)
}

// article builds the nested article object for a write payload. The
// article always replaces the latest one wholesale; there is no partial
// article update.
func (d DesiredState) article(withType bool) map[string]any {
	article := map[string]any{
		"subject":  deref(d.Subject),
		"body":     deref(d.Body),
		"internal": d.InternalString(),
	}
	if withType {
		article["type"] = "note"
	}
	return article
}

// CreatePayload renders the full ticket-creation body. Validation has
// already guaranteed every required field is present.
func (d DesiredState) CreatePayload() map[string]any {
	return map[string]any{
		"title":    deref(d.Title),
		"group":    deref(d.Group),
		"state":    deref(d.TicketState),
		"customer": deref(d.Customer),
		"priority": deref(d.Priority),
		"article":  d.article(true),
	}
}

// UpdatePayload renders a partial update body containing only the fields
// named in changed, plus a fully replaced latest article when a body was
// supplied. Emitting only present fields keeps unset attributes untouched
// on the remote side.
func (d DesiredState) UpdatePayload(changed []string) map[string]any {
	payload := map[string]any{}
	for _, field := range changed {
		switch field {
		case "customer":
			payload["customer"] = deref(d.Customer)
		case "title":
			payload["title"] = deref(d.Title)
		case "group":
			payload["group"] = deref(d.Group)
		case "ticket_state":
			payload["state"] = deref(d.TicketState)
		case "priority":
			payload["priority"] = deref(d.Priority)
		case "owner":
			payload["owner"] = deref(d.Owner)
		}
	}
	if d.Body != nil {
		payload["article"] = d.article(false)
	}
	return payload
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
