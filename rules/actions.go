package rules

import (
	"errors"
	"fmt"
)

// Action is a single-character action code from the judge protocol.
type Action byte

const (
	Wait          Action = 'N'
	Microbiology  Action = 'M' // own infection rate -4
	Epidemiology  Action = 'E' // own contagion -0.08
	Immunology    Action = 'I' // own lethality -0.04
	Vaccination   Action = 'V'
	Cure          Action = 'C'
	Quarantine    Action = 'Q'
	OpenBorders   Action = 'O'
	CloseBorders  Action = 'B'
	Bioterrorism  Action = 'T' // global
	Weaponization Action = 'W' // global
	Dissemination Action = 'D' // global
	Pacification  Action = 'P' // global
)

// Menu is every action in evaluation order. Search ties resolve to the
// earliest entry.
var Menu = []Action{
	Wait,
	Microbiology,
	Epidemiology,
	Immunology,
	Vaccination,
	Cure,
	Quarantine,
	OpenBorders,
	CloseBorders,
	Bioterrorism,
	Weaponization,
	Dissemination,
	Pacification,
}

var actionNames = map[Action]string{
	Wait:          "wait",
	Microbiology:  "microbiology",
	Epidemiology:  "epidemiology",
	Immunology:    "immunology",
	Vaccination:   "vaccination",
	Cure:          "cure",
	Quarantine:    "quarantine",
	OpenBorders:   "open-borders",
	CloseBorders:  "close-borders",
	Bioterrorism:  "bioterrorism",
	Weaponization: "weaponization",
	Dissemination: "dissemination",
	Pacification:  "pacification",
}

// ErrInvalidAction is wrapped by every InvalidActionError.
var ErrInvalidAction = errors.New("invalid action")

// InvalidActionError identifies an action code outside the menu.
type InvalidActionError struct {
	Code byte
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action: %q", e.Code)
}

func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }

// ParseAction converts a protocol character into an Action.
func ParseAction(c byte) (Action, error) {
	a := Action(c)
	if !a.Valid() {
		return 0, &InvalidActionError{Code: c}
	}
	return a, nil
}

// Valid reports whether a is on the menu.
func (a Action) Valid() bool {
	_, ok := actionNames[a]
	return ok
}

// Global reports whether the action touches every region instead of only the actor.
func (a Action) Global() bool {
	switch a {
	case Bioterrorism, Weaponization, Dissemination, Pacification:
		return true
	}
	return false
}

// Code is the protocol character.
func (a Action) Code() byte { return byte(a) }

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%q)", byte(a))
}
