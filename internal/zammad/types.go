package zammad

// Ticket is the remote ticket record as returned by GET /api/v1/tickets/{id}.
// Foreign keys stay numeric here; the lookup resolver translates them to
// names before any comparison.
type Ticket struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	GroupID     int            `json:"group_id"`
	StateID     int            `json:"state_id"`
	PriorityID  int            `json:"priority_id"`
	CustomerID  int            `json:"customer_id"`
	OwnerID     int            `json:"owner_id"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

// Article is one message attached to a ticket.
type Article struct {
	ID       int    `json:"id"`
	TicketID int    `json:"ticket_id"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Type     string `json:"type"`
	Internal bool   `json:"internal"`
}

// User is a Zammad user/customer record, reduced to the fields the
// resolver needs.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// Group is one entry of the groups reference collection.
type Group struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// State is one entry of the ticket_states reference collection.
type State struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Priority is one entry of the ticket_priorities reference collection.
type Priority struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
