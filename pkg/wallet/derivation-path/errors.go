package path

import "fmt"

var (
	ErrMissingDerivationPath          = fmt.Errorf("missing derivation path")
	ErrMalformedDerivationPath        = fmt.Errorf("path must not start or end with a '/'")
	ErrRequiredAbsoluteDerivationPath = fmt.Errorf("path must be an absolute derivation starting with 'm/'")
	ErrInvalidAccountPath             = fmt.Errorf("account path must contain only hardened steps")
)
