package attendance

import "errors"

var (
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrRecordExists   = errors.New("attendance record already exists for this user and date")
	ErrInvalidType    = errors.New("invalid attendance type")
	ErrInvalidHours   = errors.New("hours worked are invalid for this attendance type")
)
