// Package client holds the front-end's view of the petcare backend: the
// identity provider, the record store and the blob store, together with
// their HTTP implementations and the local SQLite bootstrap.
//
// Every error returned from this package is, or wraps, one of the sentinels
// in internal/common so that callers can match it with errors.Is:
// ErrInvalidCredentials and ErrEmailInUse for identity rejections,
// ErrInvalidInput for validation, ErrorNotFound for a vanished record,
// ErrNotAuthenticated when the session ended, ErrStoreUnavailable for
// everything the backend or the network could not serve.
//
// The HTTP identity provider keeps its tokens in the local metadata store.
// An expired access token is refreshed once, transparently, for any call
// made through Authorize.
package client
