package data

import "errors"

// ErrCreateJobRequired is returned by JobRepo.Create when given a nil request.
var ErrCreateJobRequired = errors.New("create job request is required")
