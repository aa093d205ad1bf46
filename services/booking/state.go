package booking

import "autocare/models"

// transitionTable is the single authorization artifact for status
// transitions: source status -> actor role -> allowed target statuses.
// Owners may only ever cancel; no_show is called by admin or the
// assigned mechanic. A rescheduled booking behaves like a pending one,
// which includes the no_show edge: a customer who never shows up for the
// moved appointment is marked the same way as one who skipped the
// original. Terminal statuses (completed, cancelled, no_show) have no row.
var transitionTable = map[models.BookingStatus]map[models.Role][]models.BookingStatus{
	models.StatusPending: {
		models.RoleAdmin:    {models.StatusConfirmed, models.StatusCancelled, models.StatusNoShow},
		models.RoleMechanic: {models.StatusConfirmed, models.StatusCancelled, models.StatusNoShow},
		models.RoleCustomer: {models.StatusCancelled},
	},
	models.StatusConfirmed: {
		models.RoleAdmin:    {models.StatusInProgress, models.StatusCompleted, models.StatusCancelled, models.StatusNoShow},
		models.RoleMechanic: {models.StatusInProgress, models.StatusCompleted, models.StatusCancelled, models.StatusNoShow},
		models.RoleCustomer: {models.StatusCancelled},
	},
	models.StatusInProgress: {
		models.RoleAdmin:    {models.StatusCompleted, models.StatusCancelled},
		models.RoleMechanic: {models.StatusCompleted, models.StatusCancelled},
	},
	models.StatusRescheduled: {
		models.RoleAdmin:    {models.StatusConfirmed, models.StatusCancelled, models.StatusNoShow},
		models.RoleMechanic: {models.StatusConfirmed, models.StatusCancelled, models.StatusNoShow},
		models.RoleCustomer: {models.StatusCancelled},
	},
}

// CanTransition checks whether role may move a booking from one status to
// another. It distinguishes illegal state changes (no role could make
// this move) from authorization failures (some role could, but not this
// one).
func CanTransition(from models.BookingStatus, role models.Role, to models.BookingStatus) error {
	if !to.Valid() {
		return NewError(CodeValidation, "unknown target status %q", to)
	}
	if from.Terminal() {
		return NewError(CodeInvalidTransition, "booking is %s; no further transitions are allowed", from)
	}

	row, ok := transitionTable[from]
	if !ok {
		return NewError(CodeInvalidTransition, "no transitions defined from status %q", from)
	}
	for _, allowed := range row[role] {
		if allowed == to {
			return nil
		}
	}
	// The edge exists for another role: this is an authorization failure,
	// not an impossible state change.
	for _, targets := range row {
		for _, allowed := range targets {
			if allowed == to {
				return NewError(CodeForbidden, "role %s may not move a %s booking to %s", role, from, to)
			}
		}
	}
	return NewError(CodeInvalidTransition, "cannot move a %s booking to %s", from, to)
}
