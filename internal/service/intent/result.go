package intent

import (
	"fmt"
	"strings"
)

const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldDate  = "date"
	FieldTime  = "time"
)

// Fields lists the booking fields in the order they are reported.
var Fields = []string{FieldName, FieldEmail, FieldDate, FieldTime}

const unprocessableMessage = "I am unable to process your booking request at this time."

type Booking struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// Result is one of NoIntent, Incomplete, Complete or Unprocessable.
type Result interface {
	isResult()
}

type NoIntent struct{}

type Incomplete struct {
	Missing []string
}

func (r Incomplete) Message() string {
	return fmt.Sprintf(
		"I am missing the following information to book your interview: %s. Can you please provide them?",
		strings.Join(r.Missing, ", "),
	)
}

type Complete struct {
	Booking Booking
}

type Unprocessable struct{}

func (Unprocessable) Message() string {
	return unprocessableMessage
}

func (NoIntent) isResult()      {}
func (Incomplete) isResult()    {}
func (Complete) isResult()      {}
func (Unprocessable) isResult() {}
