package models

import "errors"

// Domain specific errors for itinerary generation and chat.
var (
	ErrMissingRequiredField       = errors.New("missing required field")
	ErrInvalidDateRange           = errors.New("invalid date range")
	ErrUpstreamRateLimited        = errors.New("upstream rate limit exceeded")
	ErrUpstreamQuotaExceeded      = errors.New("upstream usage limit reached")
	ErrMalformedItineraryResponse = errors.New("failed to parse itinerary response")
	ErrNetworkOrUnknown           = errors.New("upstream request failed")

	ErrNotFound             = errors.New("requested item not found")
	ErrValidation           = errors.New("validation failed")
	ErrGenerationInProgress = errors.New("itinerary generation already in progress")
	ErrUnauthenticated      = errors.New("authentication required or invalid credentials")
)
