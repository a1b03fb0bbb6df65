package pharmacy

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/apotekanet/crm-api/internal/gateway"
	"github.com/apotekanet/crm-api/internal/notify"
)

var (
	// ErrMissingData blocks submission before any gateway call is made.
	ErrMissingData = errors.New("name, address and city are required")
	// ErrBusy rejects resubmission while a call is in flight.
	ErrBusy = errors.New("submission already in flight")
)

// FormInput is the raw field state of a pharmacy dialog.
type FormInput struct {
	Name          string
	Address       string
	City          string
	Phone         string
	Email         string
	ContactPerson string
}

func (in FormInput) trimmed() FormInput {
	return FormInput{
		Name:          strings.TrimSpace(in.Name),
		Address:       strings.TrimSpace(in.Address),
		City:          strings.TrimSpace(in.City),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
	}
}

// record builds insert/update fields. Optionals trim to null.
func (in FormInput) record() gateway.Record {
	return gateway.Record{
		"name":           in.Name,
		"address":        in.Address,
		"city":           in.City,
		"phone":          nullable(in.Phone),
		"email":          nullable(in.Email),
		"contact_person": nullable(in.ContactPerson),
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateForm owns the "new pharmacy" dialog state: validates, submits, and
// reports the server-confirmed entity upward through the success callback.
type CreateForm struct {
	mu    sync.Mutex
	busy  bool
	input FormInput

	gw       gateway.Gateway
	notifier notify.Notifier
}

func NewCreateForm(gw gateway.Gateway, notifier notify.Notifier) *CreateForm {
	return &CreateForm{gw: gw, notifier: notifier}
}

func (f *CreateForm) SetInput(in FormInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = in
}

func (f *CreateForm) Input() FormInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

func (f *CreateForm) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Submit validates the current input and inserts the pharmacy. On success
// the input resets and onCreated receives the server-returned record; on
// failure the input stays intact for correction.
func (f *CreateForm) Submit(ctx context.Context, onCreated func(Pharmacy)) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	in := f.input.trimmed()
	if in.Name == "" || in.Address == "" || in.City == "" {
		f.mu.Unlock()
		f.notifier.Error("Missing data", "Name, address and city are required.")
		return ErrMissingData
	}
	f.busy = true
	f.mu.Unlock()

	rec, err := f.gw.Insert(ctx, gateway.CollectionPharmacies, in.record())

	f.mu.Lock()
	f.busy = false
	if err != nil {
		f.mu.Unlock()
		f.notifier.Error("Error", err.Error())
		return err
	}
	created, decodeErr := FromRecord(rec)
	if decodeErr != nil {
		f.mu.Unlock()
		f.notifier.Error("Error", decodeErr.Error())
		return decodeErr
	}
	f.input = FormInput{}
	f.mu.Unlock()

	f.notifier.Success("Pharmacy added", "The new pharmacy was saved.")
	if onCreated != nil {
		onCreated(created)
	}
	return nil
}

// EditForm owns one "edit pharmacy" dialog, pre-filled from an existing
// entity, submitting an update by id.
type EditForm struct {
	mu    sync.Mutex
	busy  bool
	id    string
	input FormInput

	gw       gateway.Gateway
	notifier notify.Notifier
}

// NewEditForm pre-fills the form from the entity being edited.
func NewEditForm(gw gateway.Gateway, notifier notify.Notifier, p Pharmacy) *EditForm {
	return &EditForm{
		gw:       gw,
		notifier: notifier,
		id:       p.ID,
		input: FormInput{
			Name:          p.Name,
			Address:       p.Address,
			City:          p.City,
			Phone:         deref(p.Phone),
			Email:         deref(p.Email),
			ContactPerson: deref(p.ContactPerson),
		},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (f *EditForm) SetInput(in FormInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = in
}

func (f *EditForm) Input() FormInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

func (f *EditForm) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Submit validates and updates the pharmacy, passing the server-confirmed
// entity to onUpdated. The input is kept either way so the dialog can stay
// open after a failure.
func (f *EditForm) Submit(ctx context.Context, onUpdated func(Pharmacy)) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	in := f.input.trimmed()
	if in.Name == "" || in.Address == "" || in.City == "" {
		f.mu.Unlock()
		f.notifier.Error("Missing data", "Name, address and city are required.")
		return ErrMissingData
	}
	f.busy = true
	f.mu.Unlock()

	rec, err := f.gw.Update(ctx, gateway.CollectionPharmacies, f.id, in.record())

	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()

	if err != nil {
		f.notifier.Error("Error", err.Error())
		return err
	}
	updated, decodeErr := FromRecord(rec)
	if decodeErr != nil {
		f.notifier.Error("Error", decodeErr.Error())
		return decodeErr
	}

	f.notifier.Success("Pharmacy updated", "The changes were saved.")
	if onUpdated != nil {
		onUpdated(updated)
	}
	return nil
}
