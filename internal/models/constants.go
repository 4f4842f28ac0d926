package models

const (
	// StatusPublish is the only publication state bookings are created in.
	// There is no draft or pending workflow.
	StatusPublish = "publish"
)

// Metadata storage keys, one per visitor-supplied field.
const (
	MetaName    = "_bm_name"
	MetaEmail   = "_bm_email"
	MetaDate    = "_bm_date"
	MetaTime    = "_bm_time"
	MetaService = "_bm_service"
)

// Form field names as submitted by the public booking form.
const (
	FieldAction  = "action"
	FieldNonce   = "nonce"
	FieldName    = "bm_name"
	FieldEmail   = "bm_email"
	FieldDate    = "bm_date"
	FieldTime    = "bm_time"
	FieldService = "bm_service"
)

// ActionSubmitBooking identifies the submission handler to the dispatcher.
const ActionSubmitBooking = "bm_submit_booking"

// Anti-forgery token scopes.
const (
	NonceScopeSubmit = "bm_booking_nonce_action"
	NonceScopeBulk   = "bm_bulk_action"
)

// User-facing messages returned in the JSON envelope.
const (
	MsgInvalidNonce   = "Invalid nonce"
	MsgMissingFields  = "Please fill required fields"
	MsgCreateFailed   = "Unable to create booking"
	MsgBookingCreated = "Booking created. We will contact you soon."
	MsgDeletedBulk    = "Deleted selected bookings."
	MsgInvalidRequest = "Invalid request"
	MsgUnauthorized   = "Unauthorized"
)

// DefaultFormTitle is used when no title is configured or supplied.
const DefaultFormTitle = "Book an appointment"
