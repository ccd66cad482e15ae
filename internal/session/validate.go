package session

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ValidationError is a field-level, recoverable failure. The flow never
// advances past one; the HTTP layer renders it inline as a 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

var (
	nameRegexp  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	otpRegexp   = regexp.MustCompile(`^\d{4}$`)
	yearRegexp  = regexp.MustCompile(`^\d{4}$`)
)

func validateFullName(name string) error {
	if len(name) < 2 {
		return invalid("fullName", "Name must be at least 2 characters")
	}
	if !nameRegexp.MatchString(name) {
		return invalid("fullName", "Name can only contain letters")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailRegexp.MatchString(email) {
		return invalid("email", "Invalid email address")
	}
	return nil
}

// validateLoginEmail adds the domain allow-list on top of the syntactic
// check. The allow-list applies to login only, not to signup; the original
// app shipped with that asymmetry and it is kept on purpose.
func validateLoginEmail(email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if strings.HasSuffix(domain, "gmail.com") ||
		strings.HasSuffix(domain, ".ac.in") ||
		strings.HasSuffix(domain, ".edu") {
		return nil
	}
	return invalid("email", "Only gmail.com, .ac.in, or .edu emails allowed")
}

func validatePassword(field, password string) error {
	if len(password) < 8 {
		return invalid(field, "Password must be at least 8 characters")
	}
	return nil
}

func validateYearBatch(year string) error {
	if !yearRegexp.MatchString(year) {
		return invalid("yearBatch", "Year must be a 4-digit number")
	}
	n, _ := strconv.Atoi(year)
	if n < 2020 || n > 2035 {
		return invalid("yearBatch", "Please enter a valid batch year")
	}
	return nil
}

// semesterLimits mirrors the course catalogue of the student profile form.
var semesterLimits = map[string]int{
	"B.Tech": 8,
	"BCA":    6,
	"BBA":    6,
	"M.Tech": 4,
	"Others": 8,
}

func validateSemester(course string, semester int) error {
	limit, ok := semesterLimits[course]
	if !ok {
		limit = 8
	}
	if semester < 1 || semester > limit {
		return invalid("semester", "Invalid semester for the selected course")
	}
	return nil
}
