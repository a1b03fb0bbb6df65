package visit

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/apotekanet/crm-api/internal/gateway"
	"github.com/apotekanet/crm-api/internal/notify"
	"github.com/apotekanet/crm-api/internal/pharmacy"
	"github.com/apotekanet/crm-api/internal/session"
)

var (
	// ErrMissingData blocks submission before any gateway call is made.
	ErrMissingData = errors.New("pharmacy and date are required")
	// ErrBusy rejects resubmission while a call is in flight.
	ErrBusy = errors.New("submission already in flight")
	// ErrInvalidStatus blocks submission of a status outside the known
	// set before any gateway call is made.
	ErrInvalidStatus = errors.New("unknown visit status")
	// ErrNotSignedIn means no acting identity is available to attribute
	// the visit to.
	ErrNotSignedIn = errors.New("not signed in")
)

// FormInput is the raw field state of a visit dialog. VisitDateLocal is the
// wall-clock string the user typed, in the form's location.
type FormInput struct {
	PharmacyID     string
	VisitDateLocal string
	Status         string
	Notes          string
}

// CreateForm owns the "new visit" dialog: pharmacy options prefetch, local
// datetime conversion, validation and submission. The acting identity comes
// from the session authority and becomes the immutable sales_rep_id.
type CreateForm struct {
	mu      sync.Mutex
	busy    bool
	closed  bool
	input   FormInput
	options []pharmacy.Option

	gw       gateway.Gateway
	notifier notify.Notifier
	auth     *session.Authority
	loc      *time.Location
}

func NewCreateForm(gw gateway.Gateway, notifier notify.Notifier, auth *session.Authority, loc *time.Location) *CreateForm {
	if loc == nil {
		loc = time.Local
	}
	return &CreateForm{
		gw:       gw,
		notifier: notifier,
		auth:     auth,
		loc:      loc,
		input:    FormInput{Status: StatusPlanned},
	}
}

// LoadOptions prefetches the pharmacy dropdown entries, ordered by name.
// This is a background read: a failure is logged and leaves the options
// empty, it is never surfaced to the user.
func (f *CreateForm) LoadOptions(ctx context.Context) {
	records, err := f.gw.List(ctx, gateway.CollectionPharmacies, "name")

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	if err != nil {
		log.Printf("visit form: loading pharmacies failed: %v", err)
		return
	}
	options := make([]pharmacy.Option, 0, len(records))
	for _, rec := range records {
		options = append(options, pharmacy.Option{ID: rec.String("id"), Name: rec.String("name")})
	}
	f.options = options
}

// Options returns the prefetched dropdown entries.
func (f *CreateForm) Options() []pharmacy.Option {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]pharmacy.Option, len(f.options))
	copy(out, f.options)
	return out
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

// Close marks the dialog as torn down; an options prefetch resolving
// afterwards discards its result.
func (f *CreateForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// Submit validates the input, converts the wall-clock date to an absolute
// instant and inserts the visit. On success the input resets and onCreated
// receives the server-returned entity.
func (f *CreateForm) Submit(ctx context.Context, onCreated func(Visit)) error {
	actor := f.auth.CurrentIdentity()
	if actor == nil {
		return ErrNotSignedIn
	}

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	in := f.input
	pharmacyID := strings.TrimSpace(in.PharmacyID)
	dateLocal := strings.TrimSpace(in.VisitDateLocal)
	if pharmacyID == "" || dateLocal == "" {
		f.mu.Unlock()
		f.notifier.Error("Missing data", "Select a pharmacy and date.")
		return ErrMissingData
	}
	instant, err := ParseLocalDateTime(dateLocal, f.loc)
	if err != nil {
		f.mu.Unlock()
		f.notifier.Error("Missing data", "Select a pharmacy and date.")
		return ErrMissingData
	}
	status := in.Status
	if status == "" {
		status = StatusPlanned
	}
	if !ValidStatus(status) {
		f.mu.Unlock()
		f.notifier.Error("Missing data", "Unknown visit status.")
		return ErrInvalidStatus
	}
	fields := gateway.Record{
		"pharmacy_id":  pharmacyID,
		"visit_date":   instant.Format(time.RFC3339),
		"status":       status,
		"notes":        nullable(in.Notes),
		"sales_rep_id": actor.ID,
	}
	f.busy = true
	f.mu.Unlock()

	rec, err := f.gw.Insert(ctx, gateway.CollectionVisits, fields)

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
	f.input = FormInput{Status: StatusPlanned}
	f.mu.Unlock()

	f.notifier.Success("Visit added", "The new visit was saved.")
	if onCreated != nil {
		onCreated(created)
	}
	return nil
}

func nullable(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// EditForm owns one "edit visit" dialog, pre-filled from the entity being
// edited. sales_rep_id is immutable and never part of the update.
type EditForm struct {
	mu      sync.Mutex
	busy    bool
	closed  bool
	id      string
	input   FormInput
	options []pharmacy.Option

	gw       gateway.Gateway
	notifier notify.Notifier
	loc      *time.Location
}

// NewEditForm pre-fills the form; the stored instant comes back as the same
// wall-clock string the user originally entered.
func NewEditForm(gw gateway.Gateway, notifier notify.Notifier, v Visit, loc *time.Location) *EditForm {
	if loc == nil {
		loc = time.Local
	}
	notes := ""
	if v.Notes != nil {
		notes = *v.Notes
	}
	return &EditForm{
		gw:       gw,
		notifier: notifier,
		loc:      loc,
		id:       v.ID,
		input: FormInput{
			PharmacyID:     v.PharmacyID,
			VisitDateLocal: FormatLocalDateTime(v.VisitDate, loc),
			Status:         v.Status,
			Notes:          notes,
		},
	}
}

// LoadOptions mirrors CreateForm.LoadOptions.
func (f *EditForm) LoadOptions(ctx context.Context) {
	records, err := f.gw.List(ctx, gateway.CollectionPharmacies, "name")

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	if err != nil {
		log.Printf("visit form: loading pharmacies failed: %v", err)
		return
	}
	options := make([]pharmacy.Option, 0, len(records))
	for _, rec := range records {
		options = append(options, pharmacy.Option{ID: rec.String("id"), Name: rec.String("name")})
	}
	f.options = options
}

func (f *EditForm) Options() []pharmacy.Option {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]pharmacy.Option, len(f.options))
	copy(out, f.options)
	return out
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

func (f *EditForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// Submit validates and updates the visit, passing the server-confirmed
// entity to onUpdated. Input is kept intact on failure.
func (f *EditForm) Submit(ctx context.Context, onUpdated func(Visit)) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	in := f.input
	pharmacyID := strings.TrimSpace(in.PharmacyID)
	dateLocal := strings.TrimSpace(in.VisitDateLocal)
	if pharmacyID == "" || dateLocal == "" {
		f.mu.Unlock()
		f.notifier.Error("Missing data", "Select a pharmacy and date.")
		return ErrMissingData
	}
	instant, err := ParseLocalDateTime(dateLocal, f.loc)
	if err != nil {
		f.mu.Unlock()
		f.notifier.Error("Missing data", "Select a pharmacy and date.")
		return ErrMissingData
	}
	status := in.Status
	if status == "" {
		status = StatusPlanned
	}
	if !ValidStatus(status) {
		f.mu.Unlock()
		f.notifier.Error("Missing data", "Unknown visit status.")
		return ErrInvalidStatus
	}
	fields := gateway.Record{
		"pharmacy_id": pharmacyID,
		"visit_date":  instant.Format(time.RFC3339),
		"status":      status,
		"notes":       nullable(in.Notes),
	}
	f.busy = true
	f.mu.Unlock()

	rec, err := f.gw.Update(ctx, gateway.CollectionVisits, f.id, fields)

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

	f.notifier.Success("Visit updated", "The changes were saved.")
	if onUpdated != nil {
		onUpdated(updated)
	}
	return nil
}

// DeleteDialog confirms and performs one visit deletion.
type DeleteDialog struct {
	mu   sync.Mutex
	busy bool
	id   string

	gw       gateway.Gateway
	notifier notify.Notifier
}

func NewDeleteDialog(gw gateway.Gateway, notifier notify.Notifier, id string) *DeleteDialog {
	return &DeleteDialog{gw: gw, notifier: notifier, id: id}
}

func (d *DeleteDialog) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

// Confirm deletes the visit and reports the removed id upward. The snapshot
// is only touched after confirmed success.
func (d *DeleteDialog) Confirm(ctx context.Context, onDeleted func(id string)) error {
	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		return ErrBusy
	}
	d.busy = true
	d.mu.Unlock()

	err := d.gw.Delete(ctx, gateway.CollectionVisits, d.id)

	d.mu.Lock()
	d.busy = false
	d.mu.Unlock()

	if err != nil {
		d.notifier.Error("Error", err.Error())
		return err
	}

	d.notifier.Success("Visit deleted", "The visit was removed.")
	if onDeleted != nil {
		onDeleted(d.id)
	}
	return nil
}
