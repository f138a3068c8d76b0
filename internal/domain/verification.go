package domain

import "fmt"

// ConfirmationChoice is the "critical field confirmations" radio group.
// Only two values are wired to options; an explicit false has no option.
type ConfirmationChoice int

const (
	ChoiceUnset ConfirmationChoice = iota
	ChoicePreserve
)

const (
	ChoiceValueUnset    = ""
	ChoiceValuePreserve = "true"
)

func ParseConfirmationChoice(value string) (ConfirmationChoice, error) {
	switch value {
	case ChoiceValueUnset:
		return ChoiceUnset, nil
	case ChoiceValuePreserve:
		return ChoicePreserve, nil
	default:
		return ChoiceUnset, fmt.Errorf("%w: %q", ErrUnreachableChoice, value)
	}
}

func (c ConfirmationChoice) Value() string {
	if c == ChoicePreserve {
		return ChoiceValuePreserve
	}
	return ChoiceValueUnset
}

func (c ConfirmationChoice) Label() string {
	if c == ChoicePreserve {
		return "Leave confirmation checkboxes unchanged"
	}
	return "Uncheck all confirmation checkboxes"
}

func (c ConfirmationChoice) MarshalText() ([]byte, error) {
	return []byte(c.Value()), nil
}

func (c *ConfirmationChoice) UnmarshalText(text []byte) error {
	parsed, err := ParseConfirmationChoice(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type VerificationDecision struct {
	Note                  string             `json:"note"`
	PreserveConfirmations ConfirmationChoice `json:"preserveConfirmations"`
}
