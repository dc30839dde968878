package common

// GuestOwnerID is the owner id written to and queried for every record created
// without an authenticated identity. All guests share it.
const GuestOwnerID = "guest"

// AuthorizationHeaderName carries the access token as "Bearer <token>".
const AuthorizationHeaderName = "Authorization"

// DateLayout is the calendar date format used by record fields ("2024-06-01").
const DateLayout = "2006-01-02"
