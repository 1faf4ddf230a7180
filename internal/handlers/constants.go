package handlers

// Common error message constants shared across handlers
const (
	ErrMsgInvalidRequestBody  = "Invalid request body"
	ErrMsgInvalidSubmissionID = "Invalid submission ID"
	ErrMsgInvalidBoardID      = "Invalid board ID"
	ErrMsgInvalidVersionID    = "Invalid version ID"
	ErrMsgInvalidFormID       = "Invalid form ID"
	ErrMsgUnauthorized        = "Unauthorized"
	ErrMsgUserOIDNotFound     = "User identity not found"
)
