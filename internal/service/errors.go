package service

import pkgerrors "github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/errors"

// ── 业务错误 ──
// Message 原样返回给客户端，保持与现有前端一致的英文文案

var (
	ErrDutyTypeFieldsRequired = pkgerrors.Validation("zone_id and name are required")
	ErrDutyTypeNotFound       = pkgerrors.NotFound("Duty type not found")
)

var (
	ErrMehfilRequired     = pkgerrors.Validation("Please select a mehfil first")
	ErrUserRequired       = pkgerrors.Validation("user_id is required")
	ErrZoneRequired       = pkgerrors.Validation("zoneId is required")
	ErrRosterExists       = pkgerrors.Conflict("Karkun is already in the roster")
	ErrRosterNotFound     = pkgerrors.NotFound("Duty roster not found")
	ErrUserNotFound       = pkgerrors.NotFound("Karkun not found")
	ErrMehfilNotFound     = pkgerrors.NotFound("Mehfil not found")
	ErrZoneNotFound       = pkgerrors.NotFound("Zone not found")
	ErrMehfilZoneMismatch = pkgerrors.Validation("Mehfil does not belong to the selected zone")
)

var (
	ErrAssignmentFieldsRequired   = pkgerrors.Validation("rosterId, day and dutyTypeId are required")
	ErrInvalidDay                 = pkgerrors.Validation("Invalid day. Must be one of: monday, tuesday, wednesday, thursday, friday, saturday, sunday")
	ErrDutyAlreadyAssigned        = pkgerrors.Conflict("This duty is already assigned for this day")
	ErrCoordinatorAlreadyAssigned = pkgerrors.Conflict("A coordinator is already assigned for this day. Only one coordinator per day is allowed.")
	ErrAssignmentNotFound         = pkgerrors.NotFound("Duty assignment not found")
)

var (
	ErrUnauthenticated  = pkgerrors.Unauthorized("Authentication required")
	ErrInvalidMonth     = pkgerrors.Validation("selected_month must be between 1 and 12")
	ErrInvalidYear      = pkgerrors.Validation("selected_year is required")
	ErrZoneNotVisible   = pkgerrors.Forbidden("You do not have access to this zone")
	ErrMehfilNotVisible = pkgerrors.Forbidden("You do not have access to this mehfil")
)
