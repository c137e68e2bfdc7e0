package eventkit

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// accessResult carries one authorization completion through the bridge.
type accessResult struct {
	granted bool
	err     error
}

// requestAccess blocks until the store's access request completes. A zero
// deadline waits indefinitely.
func requestAccess(store Store, entity EntityType, deadline time.Time) (bool, error) {
	cell := newResultCell[accessResult]()
	store.RequestAccess(entity, func(granted bool, err error) {
		cell.put(accessResult{granted: granted, err: err})
	})

	var res accessResult
	if deadline.IsZero() {
		res = cell.wait()
	} else {
		var ok bool
		res, ok = cell.waitUntil(deadline)
		if !ok {
			// The true outcome is unknown; a late completion is dropped by
			// the cell.
			return false, ErrOperationTimedOut
		}
	}

	if res.err != nil {
		return false, &AuthorizationRequestError{Detail: res.err.Error()}
	}
	log.Debugf("access request for %s completed: granted=%v", entity, res.granted)
	return res.granted, nil
}

// ensureAuthorized gates every store-touching operation. FullAccess and
// WriteOnly pass; NotDetermined triggers a blocking access request; Denied
// and Restricted fail without prompting.
func ensureAuthorized(store Store, entity EntityType) error {
	switch store.AuthorizationStatus(entity) {
	case StatusFullAccess, StatusWriteOnly:
		return nil
	case StatusNotDetermined:
		granted, err := requestAccess(store, entity, time.Time{})
		if err != nil {
			return err
		}
		if !granted {
			return ErrAuthorizationDenied
		}
		return nil
	case StatusDenied:
		return ErrAuthorizationDenied
	case StatusRestricted:
		return ErrAuthorizationRestricted
	}
	return ErrAuthorizationNotDetermined
}
