// Package problem is the closed set of user-facing circulation errors.
//
// Every failure a patron can see is a *Problem of one Kind. Problems are returned as values
// (they implement error) and render as problem-detail JSON.
package problem

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

// Kind identifies one entry of the error taxonomy.
type Kind int

const (
	InvalidCredentials Kind = iota + 1
	UnsupportedUserType
	NotEligible
	ForbiddenByPolicy
	CannotReleaseHold
	BadDeliveryMechanism
	NoAvailableCopies
	InvalidInput
	NoActiveLoan
)

const uriPrefix = "http://librarysimplified.org/terms/problem/"

type definition struct {
	name   string
	uri    string
	status int
	title  string
	detail string
}

var definitions = map[Kind]definition{
	InvalidCredentials: {
		name:   "InvalidCredentials",
		uri:    uriPrefix + "credentials-invalid",
		status: 401,
		title:  "Invalid credentials",
		detail: "A valid library card barcode number and PIN are required.",
	},
	UnsupportedUserType: {
		name:   "UnsupportedUserType",
		uri:    uriPrefix + "unsupported-clever-user-type",
		status: 401,
		title:  "Your Clever user type is not supported.",
		detail: "Your Clever user type is not supported. You can request a code from First Book instead",
	},
	NotEligible: {
		name:   "NotEligible",
		uri:    uriPrefix + "clever-not-eligible",
		status: 401,
		title:  "Your Clever account is not eligible to access this application.",
		detail: "Your Clever account is not eligible to access this application.",
	},
	ForbiddenByPolicy: {
		name:   "ForbiddenByPolicy",
		uri:    uriPrefix + "forbidden-by-policy",
		status: 403,
		title:  "Forbidden by policy",
		detail: "Library policy prohibits this action.",
	},
	CannotReleaseHold: {
		name:   "CannotReleaseHold",
		uri:    uriPrefix + "cannot-release-hold",
		status: 400,
		title:  "Hold release failed",
		detail: "Could not release hold.",
	},
	BadDeliveryMechanism: {
		name:   "BadDeliveryMechanism",
		uri:    uriPrefix + "bad-delivery-mechanism",
		status: 400,
		title:  "Unsupported delivery mechanism",
		detail: "You selected a delivery mechanism that's not supported by this book.",
	},
	NoAvailableCopies: {
		name:   "NoAvailableCopies",
		uri:    uriPrefix + "no-licenses",
		status: 404,
		title:  "No available license",
		detail: "All licenses for this book are loaned out.",
	},
	InvalidInput: {
		name:   "InvalidInput",
		uri:    uriPrefix + "invalid-input",
		status: 400,
		title:  "Invalid input",
		detail: "You provided invalid or unrecognized input.",
	},
	NoActiveLoan: {
		name:   "NoActiveLoan",
		uri:    uriPrefix + "no-active-loan",
		status: 400,
		title:  "No active loan",
		detail: "You can't do this without first borrowing this book.",
	},
}

func (k Kind) String() string {
	if d, ok := definitions[k]; ok {
		return d.name
	}

	return "Unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, d := range definitions {
		if d.name == name {
			return k, true
		}
	}

	return 0, false
}

// Problem is a user-facing error: a Kind plus the details rendered to the client.
type Problem struct {
	Kind   Kind
	URI    string
	Status int
	Title  string
	Detail string
}

// New returns the Problem of kind k with its default status, title and detail.
func New(k Kind) *Problem {
	d := definitions[k]

	return &Problem{
		Kind:   k,
		URI:    d.uri,
		Status: d.status,
		Title:  d.title,
		Detail: d.detail,
	}
}

// Detailed returns a Problem of kind k with a specific detail message.
func Detailed(k Kind, detail string) *Problem {
	return New(k).Detailed(detail)
}

// Detailed returns a copy with the given detail message.
func (p *Problem) Detailed(detail string) *Problem {
	c := *p
	c.Detail = detail

	return &c
}

// WithStatus returns a copy with another HTTP status.
func (p *Problem) WithStatus(status int) *Problem {
	c := *p
	c.Status = status

	return &c
}

func (p *Problem) Error() string {
	return p.Kind.String() + ": " + p.Detail
}

// Is matches any Problem of the same Kind, so errors.Is(err, problem.New(problem.NotEligible)) works.
func (p *Problem) Is(target error) bool {
	var t *Problem
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == p.Kind
}

// As extracts the Problem from err, if there is one.
func As(err error) (*Problem, bool) {
	var p *Problem
	if errors.As(err, &p) {
		return p, true
	}

	return nil, false
}

// KindOf returns the Kind of the Problem in err, or 0.
func KindOf(err error) Kind {
	if p, ok := As(err); ok {
		return p.Kind
	}

	return 0
}

type document struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON renders the problem-detail document.
func (p *Problem) JSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(document{
		Type:   p.URI,
		Title:  p.Title,
		Status: p.Status,
		Detail: p.Detail,
	}, "", "  ")
}
