package profile

import "errors"

var (
	ErrEmptyName        = errors.New("profile name is required")
	ErrDuplicateProfile = errors.New("profile already registered")
	ErrNoProfiles       = errors.New("no profiles defined")
	ErrNotFound         = errors.New("profile not found")
	ErrReadFile         = errors.New("failed to read profiles file")
	ErrDecodeFile       = errors.New("failed to decode profiles file")
)
