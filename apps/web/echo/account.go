package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core/session"
	"github.com/gradegator/dashboard/core/user"
)

type accountPages struct {
	opts *Options
}

func registerAccountPages(e *echo.Echo, opts *Options) {
	pages := accountPages{opts: opts}

	e.GET(loginPath, pages.loginForm)
	e.POST(loginPath, pages.login)
	e.GET(signupPath, pages.signupForm)
	e.POST(signupPath, pages.signup)
	e.POST(logoutPath, pages.logout, requireAuth())
}

func (p *accountPages) loginForm(ctx echo.Context) error {
	if contextSession(ctx).IsAuthenticated() {
		return ctx.Redirect(http.StatusFound, dashboardPath)
	}
	return render(ctx, http.StatusOK, "login", echo.Map{"Title": "Sign In"})
}

func (p *accountPages) login(ctx echo.Context) error {
	var creds user.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	svcs := contextServices(ctx)
	mgr := session.NewManager(svcs.usrSvc, p.opts.SessionStore, p.opts.Logger)
	sess, err := mgr.Login(ctx.Request().Context(), creds)
	if err != nil {
		if isFormError(err) {
			message, fields := formErrors(err)
			return render(ctx, http.StatusBadRequest, "login", echo.Map{
				"Title":    "Sign In",
				"Error":    message,
				"Fields":   fields,
				"Username": creds.Username,
			})
		}
		return err
	}

	if err := setSessionCookie(ctx, p.opts.Conf, sess); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, dashboardPath)
}

func (p *accountPages) signupForm(ctx echo.Context) error {
	if contextSession(ctx).IsAuthenticated() {
		return ctx.Redirect(http.StatusFound, dashboardPath)
	}
	return render(ctx, http.StatusOK, "signup", echo.Map{"Title": "Sign Up"})
}

func (p *accountPages) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	svcs := contextServices(ctx)
	if _, err := svcs.usrSvc.Register(ctx.Request().Context(), data); err != nil {
		if isFormError(err) {
			message, fields := formErrors(err)
			return render(ctx, http.StatusBadRequest, "signup", echo.Map{
				"Title":  "Sign Up",
				"Error":  message,
				"Fields": fields,
				"Form":   data,
			})
		}
		return err
	}

	return ctx.Redirect(http.StatusFound, loginPath)
}

func (p *accountPages) logout(ctx echo.Context) error {
	svcs := contextServices(ctx)
	mgr := session.NewManager(svcs.usrSvc, p.opts.SessionStore, p.opts.Logger)
	if svcs.sess != nil {
		mgr.Rehydrate(*svcs.sess)
	}
	mgr.Logout(ctx.Request().Context())

	svcs.sess = nil
	clearSessionCookie(ctx, p.opts.Conf)
	return ctx.Redirect(http.StatusFound, loginPath)
}
