package calendar

import "errors"

// ErrTimezoneNotSet is returned by Timezone.Location for the empty zone.
var ErrTimezoneNotSet = errors.New("timezone is not set")

// ErrInvalidTimezone is returned by Timezone.Location for an unknown zone name.
var ErrInvalidTimezone = errors.New("invalid timezone")
