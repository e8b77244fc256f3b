package session

import "errors"

var (
	// UnlinkedAccountErr means the partner record carries no admin scope and
	// the admin-email lookup found none either. Authenticating without a
	// scope would leave every order query unanswerable, so this is surfaced
	// instead of proceeding.
	UnlinkedAccountErr = errors.New("partner account not linked to an admin user")

	EmptyScopeErr         = errors.New("scope identifier is empty")
	NilPartnerErr         = errors.New("partner record is required")
	StoreRequiredErr      = errors.New("store is required")
	ProfileAPIRequiredErr = errors.New("profile API is required")
)
