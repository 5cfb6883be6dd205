package switcher

import "errors"

var (
	// ErrIncompatibleDimension rejects a switch to a model whose output
	// width differs from the index baseline, unless forced.
	ErrIncompatibleDimension = errors.New("model dimensions incompatible with index baseline")
	// ErrNotAvailable marks a model whose runtime prerequisite is not
	// satisfied and cannot be installed automatically (no install
	// directive). Surfaced by the check command and by switches to cloud
	// models whose credential is missing.
	ErrNotAvailable = errors.New("model is not available")
	// ErrInstallationFailed marks a failed install attempt. The active
	// configuration is untouched.
	ErrInstallationFailed = errors.New("model installation failed")
)
