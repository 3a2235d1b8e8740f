package contract

import "errors"

var (
	ErrUnknownPersona = errors.New("unknown persona")
	ErrRoutingParse   = errors.New("routing response is not valid json")
	ErrRoutingFormat  = errors.New("routing response violates schema")
	ErrGeneration     = errors.New("response generation failed")
	ErrValidation     = errors.New("validation failed")
)
