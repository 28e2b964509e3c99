package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core/assignment"
	"github.com/gradegator/dashboard/core/submission"
)

type uploadPages struct {
	opts *Options
}

func registerUploadPages(e *echo.Echo, opts *Options) {
	pages := uploadPages{opts: opts}

	sg := e.Group("/assignments/:id/submit", requireRoles(false, false, true))
	sg.GET("", pages.submitForm)
	sg.POST("", pages.submit)

	ig := e.Group("/assignments/:id/rubric", requireRoles(false, true, false))
	ig.GET("", pages.rubricForm)
	ig.POST("", pages.rubric)
}

func (p *uploadPages) submitForm(ctx echo.Context) error {
	asg, err := loadAssignment(ctx)
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "submit_form", echo.Map{
		"Title":      "Submit " + asg.Title,
		"Assignment": asg,
	})
}

func (p *uploadPages) submit(ctx echo.Context) error {
	id, err := assignmentID(ctx)
	if err != nil {
		return err
	}

	file, err := formFile(ctx, "submission_file")
	if err != nil {
		return err
	}
	defer file.close()

	svcs := contextServices(ctx)
	studentID, ok := contextSession(ctx).User.StudentPK()
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "no student record on file")
	}
	sub, err := svcs.subSvc.Upload(ctx.Request().Context(), file.file, studentID, id)
	if err != nil {
		if isFormError(err) {
			asg, aerr := loadAssignment(ctx)
			if aerr != nil {
				return aerr
			}
			message, fields := formErrors(err)
			return render(ctx, http.StatusBadRequest, "submit_form", echo.Map{
				"Title":      "Submit " + asg.Title,
				"Assignment": asg,
				"Error":      message,
				"Fields":     fields,
			})
		}
		return err
	}

	return render(ctx, http.StatusOK, "submitted", echo.Map{
		"Title":      "Submission received",
		"Submission": sub,
	})
}

func (p *uploadPages) rubricForm(ctx echo.Context) error {
	asg, err := loadAssignment(ctx)
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "rubric_form", echo.Map{
		"Title":      "Rubric for " + asg.Title,
		"Assignment": asg,
	})
}

func (p *uploadPages) rubric(ctx echo.Context) error {
	id, err := assignmentID(ctx)
	if err != nil {
		return err
	}

	file, err := formFile(ctx, "rubric_file")
	if err != nil {
		return err
	}
	defer file.close()

	svcs := contextServices(ctx)
	instructorID, ok := contextSession(ctx).User.InstructorPK()
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "no instructor record on file")
	}
	_, err = svcs.subSvc.UploadRubric(ctx.Request().Context(), file.file, instructorID, id)
	if err != nil {
		if isFormError(err) {
			asg, aerr := loadAssignment(ctx)
			if aerr != nil {
				return aerr
			}
			message, fields := formErrors(err)
			return render(ctx, http.StatusBadRequest, "rubric_form", echo.Map{
				"Title":      "Rubric for " + asg.Title,
				"Assignment": asg,
				"Error":      message,
				"Fields":     fields,
			})
		}
		return err
	}

	return ctx.Redirect(http.StatusFound, "/assignments/"+strconv.Itoa(id))
}

type uploadedFile struct {
	file  submission.File
	close func() error
}

func formFile(ctx echo.Context, field string) (uploadedFile, error) {
	hdr, err := ctx.FormFile(field)
	if err != nil {
		// missing file is a form error the upload service reports uniformly
		return uploadedFile{
			file:  submission.File{},
			close: func() error { return nil },
		}, nil
	}
	src, err := hdr.Open()
	if err != nil {
		return uploadedFile{}, errors.Wrap(err, "opening uploaded file")
	}
	return uploadedFile{
		file: submission.File{
			Name:    hdr.Filename,
			Size:    hdr.Size,
			Content: src,
		},
		close: src.Close,
	}, nil
}

func loadAssignment(ctx echo.Context) (assignment.Assignment, error) {
	id, err := assignmentID(ctx)
	if err != nil {
		return assignment.Assignment{}, err
	}
	svcs := contextServices(ctx)
	return svcs.asgSvc.Get(ctx.Request().Context(), id)
}
