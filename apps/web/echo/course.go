package echoweb

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core/course"
)

type coursePages struct {
	opts *Options
}

func registerCoursePages(e *echo.Echo, opts *Options) {
	pages := coursePages{opts: opts}

	g := e.Group("", requireAuth())
	g.GET(dashboardPath, pages.dashboard)
	g.GET("/courses/:id", pages.detail)

	// instructor-only management
	ig := e.Group("/courses", requireRoles(false, true, false))
	ig.GET("/new", pages.createForm)
	ig.POST("/new", pages.create)
	ig.POST("/:id/edit", pages.update)
	ig.POST("/:id/delete", pages.destroy)
}

func (p *coursePages) dashboard(ctx echo.Context) error {
	var query DashboardQuery
	query.Bind(ctx)

	svcs := contextServices(ctx)
	courses, err := svcs.crsSvc.List(ctx.Request().Context())
	if err != nil {
		return err
	}

	currentTerm := course.CurrentTerm(time.Now())
	current, past := course.Split(courses, currentTerm)
	past = course.FilterByName(past, query.Search)
	course.SortCourses(past, query.Sort)

	return render(ctx, http.StatusOK, "dashboard", echo.Map{
		"Title":       "Dashboard",
		"CurrentTerm": currentTerm,
		"Current":     current,
		"Past":        past,
		"Search":      query.Search,
		"Sort":        query.Sort,
	})
}

func (p *coursePages) detail(ctx echo.Context) error {
	id, err := courseID(ctx)
	if err != nil {
		return err
	}

	svcs := contextServices(ctx)
	crs, err := svcs.crsSvc.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	assignments, err := svcs.asgSvc.ListByCourse(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	// students only see released assignments
	if sess := contextSession(ctx); !sess.IsInstructor() {
		visible := assignments[:0]
		for _, a := range assignments {
			if a.IsVisibleToStudents {
				visible = append(visible, a)
			}
		}
		assignments = visible
	}

	return render(ctx, http.StatusOK, "course_detail", echo.Map{
		"Title":       crs.Name,
		"Course":      crs,
		"Assignments": assignments,
	})
}

func (p *coursePages) createForm(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "course_form", echo.Map{"Title": "Create Course"})
}

func (p *coursePages) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}

	svcs := contextServices(ctx)
	crs, err := svcs.crsSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		if isFormError(err) {
			message, fields := formErrors(err)
			return render(ctx, http.StatusBadRequest, "course_form", echo.Map{
				"Title":  "Create Course",
				"Error":  message,
				"Fields": fields,
				"Form":   data,
			})
		}
		return err
	}

	return ctx.Redirect(http.StatusFound, "/courses/"+strconv.Itoa(crs.ID))
}

func (p *coursePages) update(ctx echo.Context) error {
	id, err := courseID(ctx)
	if err != nil {
		return err
	}

	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}

	svcs := contextServices(ctx)
	crs, err := svcs.crsSvc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, "/courses/"+strconv.Itoa(crs.ID))
}

func (p *coursePages) destroy(ctx echo.Context) error {
	id, err := courseID(ctx)
	if err != nil {
		return err
	}

	svcs := contextServices(ctx)
	if err := svcs.crsSvc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, dashboardPath)
}

func courseID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "course not found")
	}
	return id, nil
}
