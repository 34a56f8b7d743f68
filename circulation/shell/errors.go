package shell

import (
	"errors"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

var domainErrors = []error{
	core.ErrInvalidTransition,
	core.ErrNotCustodian,
	core.ErrNotOwner,
	core.ErrDuplicateRequest,
	core.ErrAlreadyQueued,
	core.ErrNoSuchItem,
	core.ErrNoSuchRequest,
	core.ErrInvalidJoin,
	core.ErrStorageUnavailable,
	core.ErrInvalidInput,
	core.ErrNoSuchMember,
	core.ErrMemberNotApproved,
	core.ErrNotAdmin,
	core.ErrNoSuchReview,
	core.ErrMemberAlreadyExists,
}

// IsDomainError tells whether err already belongs to the error taxonomy of the engine or the community.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// StorageError joins err with core.ErrStorageUnavailable unless it is a domain error already.
// Concurrency conflicts stay detectable with errors.Is.
func StorageError(err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}

	return errors.Join(core.ErrStorageUnavailable, err)
}
