package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/zammad-reconcile/internal/reconcile"
)

// TicketManifest is the YAML description of one desired ticket, as
// written by the calling automation. Absent keys decode to nil and mean
// "leave unchanged" on update.
type TicketManifest struct {
	State       string  `yaml:"state"`
	TicketID    *int    `yaml:"ticket_id"`
	ObjectID    string  `yaml:"object_id"`
	Customer    *string `yaml:"customer"`
	Title       *string `yaml:"title"`
	Group       *string `yaml:"group"`
	Subject     *string `yaml:"subject"`
	Body        *string `yaml:"body"`
	Internal    *bool   `yaml:"internal"`
	TicketState *string `yaml:"ticket_state"`
	Priority    *string `yaml:"priority"`
	Owner       *string `yaml:"owner"`
}

// Load reads and decodes a manifest file. Unknown keys are rejected so a
// typo in a field name fails loudly instead of silently leaving the field
// unmanaged.
func Load(path string) (*TicketManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(raw)
}

// Parse decodes manifest bytes.
func Parse(raw []byte) (*TicketManifest, error) {
	var m TicketManifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode manifest: manifest is empty")
		}
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// Input converts the manifest into a reconciler input. With state absent
// the ticket_state key doubles as the close target, matching how the
// calling automation expresses "close to this state".
func (m *TicketManifest) Input() reconcile.Input {
	in := reconcile.Input{
		State:    m.State,
		TicketID: m.TicketID,
		ObjectID: m.ObjectID,
		Desired: reconcile.DesiredState{
			Customer:    m.Customer,
			Title:       m.Title,
			Group:       m.Group,
			Subject:     m.Subject,
			Body:        m.Body,
			Internal:    m.Internal,
			TicketState: m.TicketState,
			Priority:    m.Priority,
			Owner:       m.Owner,
		},
	}
	if m.State == reconcile.StateAbsent && m.TicketState != nil {
		in.CloseState = *m.TicketState
	}
	return in
}
