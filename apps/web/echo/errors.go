package echoweb

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/user"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows
// how to handle our errors: API failures are dispatched on their Kind
// (session expiry redirects to login, permission failures render a page
// without touching state), form failures render field messages, anything
// else is a logged server error.
func newAppHTTPErrorHandler(opts *Options) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var code int
		var message string
		var fields map[string]string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			fields = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fields[vErr.Field()] = vErr.Translate(core.Translator)
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			if origErr.Fields != nil {
				fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fields[fErr.Field] = fErr.Error
				}
			} else {
				message = origErr.Error()
			}
		case *core.APIError:
			switch origErr.Kind {
			case core.KindAuth:
				// backend session expired; drop ours and start over
				expireSession(ctx, opts)
				if rErr := ctx.Redirect(http.StatusFound, loginPath); rErr != nil {
					ctx.Echo().Logger.Error(rErr)
				}
				return
			case core.KindValidation:
				// backend rejected the payload; show its messages as-is
				code = http.StatusBadRequest
				message = origErr.Detail
				fields = origErr.Fields
			case core.KindForbidden:
				code = http.StatusForbidden
				message = "You don't have permission to do this."
			case core.KindNotFound:
				code = http.StatusNotFound
				message = "Not found."
			case core.KindNetwork:
				code = http.StatusBadGateway
				message = "Could not reach the server. Please try again."
			default:
				code = http.StatusInternalServerError
				message = http.StatusText(code)
				logServerError(opts.Logger, ctx, err)
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			logServerError(opts.Logger, ctx, err)
		}

		if ctx.Echo().Debug && message == http.StatusText(http.StatusInternalServerError) {
			message = err.Error()
		}

		rErr := render(ctx, code, "error", echo.Map{
			"Title":   "Error",
			"Code":    code,
			"Message": message,
			"Fields":  fields,
		})
		if rErr != nil {
			ctx.Echo().Logger.Error(rErr)
			if sErr := ctx.String(code, message); sErr != nil {
				ctx.Echo().Logger.Error(sErr)
			}
		}
	}
}

// expireSession clears the dashboard cookie and forgets the stored session.
func expireSession(ctx echo.Context, opts *Options) {
	clearSessionCookie(ctx, opts.Conf)
	if svcs := contextServices(ctx); svcs != nil && svcs.sess != nil {
		if err := opts.SessionStore.DeleteSession(ctx.Request().Context(), svcs.sess.ID); err != nil {
			opts.Logger.Warn("deleting expired session", err)
		}
		svcs.sess = nil
	}
}

func logServerError(logger core.Logger, ctx echo.Context, err error) {
	msg := http.StatusText(http.StatusInternalServerError)
	args := []interface{}{errors.Wrap(err, msg)}
	if sess := contextSession(ctx); sess.IsAuthenticated() {
		args = append(args, user.User{
			ID:       sess.User.ID,
			Username: sess.User.Username,
			Email:    sess.User.Email,
		})
	}
	logger.Error(msg, args...)
}
