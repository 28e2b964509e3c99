package echoweb

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/assignment"
)

type assignmentPages struct {
	opts *Options
}

func registerAssignmentPages(e *echo.Echo, opts *Options) {
	pages := assignmentPages{opts: opts}

	g := e.Group("", requireAuth())
	g.GET("/assignments/:id", pages.detail)

	ig := e.Group("", requireRoles(false, true, false))
	ig.GET("/courses/:id/assignments/new", pages.createForm)
	ig.POST("/courses/:id/assignments/new", pages.create)
	ig.POST("/assignments/:id/delete", pages.destroy)
}

func (p *assignmentPages) detail(ctx echo.Context) error {
	id, err := assignmentID(ctx)
	if err != nil {
		return err
	}

	svcs := contextServices(ctx)
	asg, err := svcs.asgSvc.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	data := echo.Map{
		"Title":      asg.Title,
		"Assignment": asg,
	}
	if contextSession(ctx).IsInstructor() {
		submissions, err := svcs.subSvc.ListForAssignment(ctx.Request().Context(), id)
		if err != nil {
			return err
		}
		data["Submissions"] = submissions
	}
	return render(ctx, http.StatusOK, "assignment_detail", data)
}

func (p *assignmentPages) createForm(ctx echo.Context) error {
	id, err := courseID(ctx)
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "assignment_form", echo.Map{
		"Title":    "Create Assignment",
		"CourseID": id,
	})
}

// assignmentForm is the browser-side shape of the create form; dates arrive
// as datetime-local strings and are parsed here, not by the binder.
type assignmentForm struct {
	Title               string `form:"title"`
	Description         string `form:"description"`
	Questions           string `form:"questions"`
	GradeMethod         string `form:"grade_method"`
	ScoringBreakdown    string `form:"scoring_breakdown"`
	Timing              string `form:"timing"`
	DueDate             string `form:"due_date"`
	IsVisibleToStudents bool   `form:"is_visible_to_students"`
}

func (f *assignmentForm) toNewAssignment(courseID int) (assignment.NewAssignment, error) {
	data := assignment.NewAssignment{
		Title:               f.Title,
		Description:         f.Description,
		Questions:           f.Questions,
		GradeMethod:         assignment.GradeMethod(f.GradeMethod),
		ScoringBreakdown:    f.ScoringBreakdown,
		IsVisibleToStudents: f.IsVisibleToStudents,
		Course:              courseID,
	}

	if f.DueDate != "" { // left empty, the required check reports it
		due, err := parseLocalTime(f.DueDate)
		if err != nil {
			return data, core.NewValidationError(
				errors.New("enter a valid due date"),
				core.FieldError{Field: "due_date", Error: "enter a valid date"},
			)
		}
		data.DueDate = due
	}

	if f.Timing != "" {
		release, err := parseLocalTime(f.Timing)
		if err != nil {
			return data, core.NewValidationError(
				errors.New("enter a valid release date"),
				core.FieldError{Field: "timing", Error: "enter a valid date"},
			)
		}
		data.Timing = release
	}
	return data, nil
}

// parseLocalTime accepts the datetime-local input format, with or without
// seconds.
func parseLocalTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized time %q", s)
}

func (p *assignmentPages) create(ctx echo.Context) error {
	id, err := courseID(ctx)
	if err != nil {
		return err
	}

	var form assignmentForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding assignment form")
	}

	renderErr := func(err error) error {
		message, fields := formErrors(err)
		return render(ctx, http.StatusBadRequest, "assignment_form", echo.Map{
			"Title":    "Create Assignment",
			"CourseID": id,
			"Error":    message,
			"Fields":   fields,
			"Form":     form,
		})
	}

	data, err := form.toNewAssignment(id)
	if err != nil {
		return renderErr(err)
	}

	svcs := contextServices(ctx)
	asg, err := svcs.asgSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		if isFormError(err) {
			return renderErr(err)
		}
		return err
	}

	return ctx.Redirect(http.StatusFound, "/assignments/"+strconv.Itoa(asg.ID))
}

func (p *assignmentPages) destroy(ctx echo.Context) error {
	id, err := assignmentID(ctx)
	if err != nil {
		return err
	}

	svcs := contextServices(ctx)
	asg, err := svcs.asgSvc.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if err := svcs.asgSvc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, "/courses/"+strconv.Itoa(asg.Course))
}

func assignmentID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "assignment not found")
	}
	return id, nil
}
