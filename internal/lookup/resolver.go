package lookup

import (
	"context"
	"strings"

	"github.com/spec-kit/zammad-reconcile/internal/zammad"
)

// Entry is one id/name pair of a reference collection.
type Entry struct {
	ID   int
	Name string
}

// Collection is an ordered reference collection (groups, states,
// priorities). It is immutable for the duration of one reconciliation and
// re-fetched on every invocation.
type Collection []Entry

// NameByID resolves an id to its display name. A missing entry is not an
// error; ok is false and the caller decides how to proceed.
func (c Collection) NameByID(id int) (string, bool) {
	for _, entry := range c {
		if entry.ID == id {
			return entry.Name, true
		}
	}
	return "", false
}

// IDByName resolves a display name back to its id.
func (c Collection) IDByName(name string) (int, bool) {
	for _, entry := range c {
		if entry.Name == name {
			return entry.ID, true
		}
	}
	return 0, false
}

// Users resolves user foreign keys by email and by composed display name.
type Users []zammad.User

// EmailByID resolves a user id to the account email.
func (u Users) EmailByID(id int) (string, bool) {
	for _, user := range u {
		if user.ID == id {
			return user.Email, true
		}
	}
	return "", false
}

// IDByEmail resolves an email back to the user id.
func (u Users) IDByEmail(email string) (int, bool) {
	for _, user := range u {
		if user.Email == email {
			return user.ID, true
		}
	}
	return 0, false
}

// DisplayNameByID composes "Firstname Lastname" for a user id. Users with
// an empty first or last name resolve to not-found rather than a partial
// name, so that the round trip through IDByDisplayName stays symmetric.
func (u Users) DisplayNameByID(id int) (string, bool) {
	for _, user := range u {
		if user.ID == id {
			if user.Firstname == "" || user.Lastname == "" {
				return "", false
			}
			return user.Firstname + " " + user.Lastname, true
		}
	}
	return "", false
}

// IDByDisplayName resolves a composed "Firstname Lastname" back to a user
// id. The name splits on the first whitespace boundary: the first token is
// the first name, everything after it the last name, so multi-part
// surnames stay intact. A name with no whitespace at all cannot be split
// and resolves to not-found.
func (u Users) IDByDisplayName(name string) (int, bool) {
	first, last, found := strings.Cut(name, " ")
	if !found || first == "" || last == "" {
		return 0, false
	}
	for _, user := range u {
		if user.Firstname == first && user.Lastname == last {
			return user.ID, true
		}
	}
	return 0, false
}

// ReferenceData bundles every lookup collection one reconciliation needs.
// All collections are fetched in full, with no pagination parameters, and
// all fetches complete before any comparison step runs.
type ReferenceData struct {
	Users      Users
	Groups     Collection
	States     Collection
	Priorities Collection
}

// Fetch pulls all reference collections from the remote instance. The
// fetch order carries no meaning; any failure aborts the invocation.
func Fetch(ctx context.Context, client *zammad.Client) (*ReferenceData, error) {
	users, err := client.Users(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := client.Groups(ctx)
	if err != nil {
		return nil, err
	}
	states, err := client.States(ctx)
	if err != nil {
		return nil, err
	}
	priorities, err := client.Priorities(ctx)
	if err != nil {
		return nil, err
	}

	ref := &ReferenceData{Users: users}
	for _, g := range groups {
		ref.Groups = append(ref.Groups, Entry{ID: g.ID, Name: g.Name})
	}
	for _, s := range states {
		ref.States = append(ref.States, Entry{ID: s.ID, Name: s.Name})
	}
	for _, p := range priorities {
		ref.Priorities = append(ref.Priorities, Entry{ID: p.ID, Name: p.Name})
	}
	return ref, nil
}

// FetchStates pulls only the ticket state collection, for operations that
// compare nothing but the lifecycle state.
func FetchStates(ctx context.Context, client *zammad.Client) (Collection, error) {
	states, err := client.States(ctx)
	if err != nil {
		return nil, err
	}
	var collection Collection
	for _, s := range states {
		collection = append(collection, Entry{ID: s.ID, Name: s.Name})
	}
	return collection, nil
}
