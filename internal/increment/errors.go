package increment

import "errors"

// ErrNoCommitFound is returned when Auto produced NoBump and no explicit
// increment command was given (§4.5, §7): cmd/bump.go reports it as a
// controlled failure and exits 1.
var ErrNoCommitFound = errors.New("no commit found that would trigger a bump")

// ErrSemVerMonotonicity is returned when a Manual version does not exceed
// the prior tag (§7).
var ErrSemVerMonotonicity = errors.New("new version must be strictly greater than the previous one")
