// Package verification implements the moderator dialog used before an
// account's status is moved to "needs verification". The dialog only
// collects the decision; the caller performs the status change.
package verification

import (
	"context"
	"sync"

	"portal/internal/domain"
)

// Result is what an Open call eventually receives.
type Result struct {
	Decision  domain.VerificationDecision
	Cancelled bool
}

type Dialog struct {
	mu     sync.Mutex
	title  string
	note   string
	choice domain.ConfirmationChoice
	result chan Result
}

func NewDialog(title string) *Dialog {
	return &Dialog{title: title}
}

func (d *Dialog) Title() string {
	return d.title
}

// Open shows the dialog prefilled with initial. The returned channel receives
// exactly one Result and is then closed.
func (d *Dialog) Open(initial domain.VerificationDecision) (<-chan Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.result != nil {
		return nil, domain.ErrDialogOpen
	}

	d.note = initial.Note
	d.choice = initial.PreserveConfirmations
	d.result = make(chan Result, 1)
	return d.result, nil
}

func (d *Dialog) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.result != nil
}

// SetNote stores the reviewer note as typed.
func (d *Dialog) SetNote(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.result == nil {
		return domain.ErrDialogClosed
	}
	d.note = text
	return nil
}

// NoteProvided is the boolean view of the note field.
func (d *Dialog) NoteProvided() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.note != ""
}

// SelectChoice takes a radio option value: "" or "true".
func (d *Dialog) SelectChoice(value string) error {
	choice, err := domain.ParseConfirmationChoice(value)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.result == nil {
		return domain.ErrDialogClosed
	}
	d.choice = choice
	return nil
}

// Current returns the values currently held by the form fields.
func (d *Dialog) Current() domain.VerificationDecision {
	d.mu.Lock()
	defer d.mu.Unlock()
	return domain.VerificationDecision{Note: d.note, PreserveConfirmations: d.choice}
}

func (d *Dialog) Confirm() (domain.VerificationDecision, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.result == nil {
		return domain.VerificationDecision{}, domain.ErrDialogClosed
	}

	decision := domain.VerificationDecision{Note: d.note, PreserveConfirmations: d.choice}
	d.finish(Result{Decision: decision})
	return decision, nil
}

func (d *Dialog) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.result == nil {
		return domain.ErrDialogClosed
	}

	d.finish(Result{Cancelled: true})
	return nil
}

// finish must be called with mu held.
func (d *Dialog) finish(r Result) {
	d.result <- r
	close(d.result)
	d.result = nil
	d.note = ""
	d.choice = domain.ChoiceUnset
}

// Await blocks until the dialog resolves or ctx is done.
func Await(ctx context.Context, ch <-chan Result) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r, ok := <-ch:
		if !ok {
			return Result{}, domain.ErrDialogClosed
		}
		return r, nil
	}
}
