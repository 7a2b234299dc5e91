package common

import "time"

const (
	// AuthorizationHeaderScheme prefixes the session token in the
	// Authorization header.
	AuthorizationHeaderScheme = "Bearer"

	// TasksPageSize is the fixed page size for task listing and search.
	TasksPageSize = 10

	// LinkTokenTTL bounds confirmation and password reset links.
	LinkTokenTTL = 5 * time.Minute

	// SessionTokenTTL bounds session tokens returned by sign-in and confirm.
	SessionTokenTTL = 24 * time.Hour
)
