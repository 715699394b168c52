package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyExists   = errors.New("already exists")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrMalformedUpload = errors.New("malformed upload")
	ErrIO              = errors.New("attachment io failure")
	ErrCrypto          = errors.New("credential hashing failure")
	ErrStorage         = errors.New("storage failure")
)

// ValidationError lists request fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Fields, ", "))
}

// Is makes ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Stage names a step of the registration pipeline.
type Stage string

const (
	StageReceiving  Stage = "receiving"
	StageHashing    Stage = "hashing"
	StagePersisting Stage = "persisting"
)

// StageError records the pipeline stage in which a registration failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
