package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a registration.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

// Gender captured on the registration form.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// LearningMode is how the student attends the course.
type LearningMode string

const (
	LearningOnsite  LearningMode = "onsite"
	LearningVirtual LearningMode = "virtual"
)

// PaymentOption is the plan the student chose on the form. The gateway is always asked for the
// full course fee; an installment plan is recorded for staff follow-up.
type PaymentOption string

const (
	PaymentFull        PaymentOption = "full"
	PaymentInstallment PaymentOption = "installment"
)

// Label renders the option for emails and exports.
func (o PaymentOption) Label() string {
	switch o {
	case PaymentInstallment:
		return "Installment"
	case PaymentFull, "":
		return "Full"
	}
	return string(o)
}

// RegistrationAction distinguishes a first intake from an existing student adding a course.
type RegistrationAction int

const (
	ActionNewRegistration RegistrationAction = iota + 1
	ActionNewCourse
)

func (a RegistrationAction) String() string {
	switch a {
	case ActionNewRegistration:
		return "newRegistration"
	case ActionNewCourse:
		return "newCourse"
	}
	return "unknown"
}

// ParseRegistrationAction maps the wire value onto a RegistrationAction.
func ParseRegistrationAction(raw string) (RegistrationAction, error) {
	switch raw {
	case "newRegistration":
		return ActionNewRegistration, nil
	case "newCourse":
		return ActionNewCourse, nil
	}
	return 0, fmt.Errorf("unknown registration action %q", raw)
}

// Registration is one student's enrollment attempt in one course.
type Registration struct {
	ID               string              `db:"id" json:"id"`
	FullName         string              `db:"full_name" json:"full_name"`
	Gender           *Gender             `db:"gender" json:"gender,omitempty"`
	Email            string              `db:"email" json:"email"`
	Phone            string              `db:"phone" json:"phone"`
	Address          *string             `db:"address" json:"address,omitempty"`
	Occupation       *string             `db:"occupation" json:"occupation,omitempty"`
	ModeOfLearning   *LearningMode       `db:"mode_of_learning" json:"mode_of_learning,omitempty"`
	PaymentOption    PaymentOption       `db:"payment_option" json:"payment_option"`
	CourseID         string              `db:"course_id" json:"course_id"`
	PaymentStatus    PaymentStatus       `db:"payment_status" json:"payment_status"`
	PaymentReference string              `db:"payment_reference" json:"payment_reference"`
	Gateway          string              `db:"gateway" json:"gateway"`
	AmountDue        decimal.Decimal     `db:"amount_due" json:"amount_due"`
	AmountPaid       decimal.NullDecimal `db:"amount_paid" json:"amount_paid"`
	Message          *string             `db:"message" json:"message,omitempty"`
	VerifiedAt       *time.Time          `db:"verified_at" json:"verified_at,omitempty"`
	CreatedAt        time.Time           `db:"created_at" json:"created_at"`
}

// RegistrationDetail joins a registration with its course.
type RegistrationDetail struct {
	Registration
	CourseName string          `db:"course_name" json:"course_name"`
	CourseCode string          `db:"course_code" json:"course_code"`
	CourseFee  decimal.Decimal `db:"course_fee" json:"course_fee"`
}

// RegistrationFilter narrows staff listings.
type RegistrationFilter struct {
	Status   *PaymentStatus
	Email    string
	CourseID string
	Search   string
	Page     int
	PageSize int
}
