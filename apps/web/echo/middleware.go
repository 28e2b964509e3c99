package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core/assignment"
	"github.com/gradegator/dashboard/core/client"
	"github.com/gradegator/dashboard/core/course"
	"github.com/gradegator/dashboard/core/session"
	"github.com/gradegator/dashboard/core/submission"
	"github.com/gradegator/dashboard/core/user"
)

const contextServicesKey = "services"

// reqServices bundles the per-request API services. Each request gets its
// own client seeded with the session's backend cookies; views never share a
// jar.
type reqServices struct {
	cli    *client.Client
	usrSvc *user.Service
	crsSvc *course.Service
	asgSvc *assignment.Service
	subSvc *submission.Service
	sess   *session.Session // nil when unauthenticated
}

func contextServices(ctx echo.Context) *reqServices {
	if svcs, ok := ctx.Get(contextServicesKey).(*reqServices); ok {
		return svcs
	}
	return nil
}

func contextSession(ctx echo.Context) *session.Session {
	if svcs := contextServices(ctx); svcs != nil {
		return svcs.sess
	}
	return nil
}

// sessionMiddleware resolves the visitor's session and wires the request's
// service bundle. Resolution is a single attempt: a missing cookie, a bad
// token or a failed store fetch all degrade to "unauthenticated" without
// retry. After the handler runs, rotated backend cookies are persisted back
// to the store.
func (s *server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		conf := s.opts.Conf

		var sess *session.Session
		if cookie, err := ctx.Cookie(conf.Server.SessionName); err == nil && cookie.Value != "" {
			if claims, err := parseToken(conf, cookie.Value); err != nil {
				clearSessionCookie(ctx, conf)
			} else {
				stored, err := s.opts.SessionStore.GetSession(ctx.Request().Context(), claims.SessionID)
				switch errors.Cause(err) {
				case nil:
					sess = &stored
				case session.ErrNotFound:
					clearSessionCookie(ctx, conf)
				default:
					s.opts.Logger.Warn("fetching session", err)
					clearSessionCookie(ctx, conf)
				}
			}
		}

		var cookies []*http.Cookie
		if sess != nil {
			cookies = sess.HTTPCookies()
		}
		cli, err := client.NewWithCookies(conf, cookies)
		if err != nil {
			return errors.Wrap(err, "building API client")
		}

		svcs := &reqServices{
			cli:    cli,
			usrSvc: user.NewService(cli),
			crsSvc: course.NewService(cli),
			asgSvc: assignment.NewService(cli),
			subSvc: submission.NewService(cli, conf),
			sess:   sess,
		}
		ctx.Set(contextServicesKey, svcs)

		if err := next(ctx); err != nil {
			return err
		}

		if svcs.sess != nil {
			svcs.sess.SetCookies(cli.Cookies())
			if err := s.opts.SessionStore.SaveSession(ctx.Request().Context(), *svcs.sess); err != nil {
				s.opts.Logger.Warn("persisting session cookies", err)
			}
		}
		return nil
	}
}

// requireRoles gates a subtree: authentication is checked first, then each
// required flag in turn. Unauthenticated visitors go to the login page,
// authenticated ones missing a role go to the unauthorized page.
func requireRoles(requireStaff, requireInstructor, requireStudent bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess := contextSession(ctx)
			if !sess.IsAuthenticated() {
				return ctx.Redirect(http.StatusFound, loginPath)
			}
			if requireStaff && !sess.IsStaff() {
				return ctx.Redirect(http.StatusFound, unauthorizedPath)
			}
			if requireInstructor && !sess.IsInstructor() {
				return ctx.Redirect(http.StatusFound, unauthorizedPath)
			}
			if requireStudent && !sess.IsStudent() {
				return ctx.Redirect(http.StatusFound, unauthorizedPath)
			}
			return next(ctx)
		}
	}
}

func requireAuth() echo.MiddlewareFunc {
	return requireRoles(false, false, false)
}
