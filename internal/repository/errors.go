package repository

import "errors"

var (
	// ErrDuplicateReference is returned when a payment reference is already stored.
	ErrDuplicateReference = errors.New("payment reference already exists")
	// ErrDuplicateCourse is returned when a course name is already taken.
	ErrDuplicateCourse = errors.New("course name already exists")
	// ErrDuplicateSubscriber is returned when an email is already on the mailing list.
	ErrDuplicateSubscriber = errors.New("subscriber already exists")
)
