package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/petcare/internal/api"
	"github.com/dmitrijs2005/petcare/internal/common"
	"github.com/dmitrijs2005/petcare/internal/netx"
)

// mapError translates a transport error into the common sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	switch se.StatusCode {
	case http.StatusBadRequest:
		detail := strings.TrimPrefix(se.Body, common.ErrInvalidInput.Error())
		detail = strings.TrimPrefix(detail, ": ")
		if detail == "" {
			return common.ErrInvalidInput
		}
		return fmt.Errorf("%w: %s", common.ErrInvalidInput, detail)
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: file is too large", common.ErrInvalidInput)
	case http.StatusUnauthorized:
		switch se.Body {
		case api.BodyTokenExpired:
			return common.ErrTokenExpired
		case api.BodyRefreshTokenExpired:
			return common.ErrRefreshTokenExpired
		case common.ErrInvalidToken.Error():
			return common.ErrInvalidToken
		default:
			return common.ErrInvalidCredentials
		}
	case http.StatusForbidden:
		return common.ErrNotAuthenticated
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrEmailInUse
	default:
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, se)
	}
}

// sessionEnded reports whether err means the stored tokens are no longer
// usable.
func sessionEnded(err error) bool {
	return errors.Is(err, common.ErrInvalidToken) ||
		errors.Is(err, common.ErrTokenExpired) ||
		errors.Is(err, common.ErrRefreshTokenExpired) ||
		errors.Is(err, common.ErrInvalidCredentials)
}
