package echoweb

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/course"
)

// DashboardQuery binds the dashboard's search/sort controls.
type DashboardQuery struct {
	Search string `query:"search"`
	Sort   string `query:"sort"`
}

func (q *DashboardQuery) Bind(ctx echo.Context) {
	_ = ctx.Bind(q)
	q.Search = core.CleanString(q.Search)
	switch q.Sort {
	case course.SortByName, course.SortBySemester: // pass
	default:
		q.Sort = course.SortByName
	}
}

// formErrors flattens a failed form action into a banner message and
// per-field messages for re-rendering, so view code never probes error
// shapes.
func formErrors(err error) (message string, fields map[string]string) {
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		fields = make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			fields[vErr.Field()] = vErr.Translate(core.Translator)
		}
	case *core.ValidationError:
		message = origErr.Error()
		if origErr.Fields != nil {
			fields = make(map[string]string, len(origErr.Fields))
			for _, fErr := range origErr.Fields {
				fields[fErr.Field] = fErr.Error
			}
		}
	case *core.APIError:
		switch origErr.Kind {
		case core.KindValidation:
			message = origErr.Detail
			fields = origErr.Fields
		case core.KindNetwork:
			message = "Could not reach the server. Please try again."
		default:
			return "", nil // not a form failure; let the error handler deal with it
		}
	default:
		return "", nil
	}
	if message == "" && len(fields) == 0 {
		message = "Please correct the errors below."
	}
	return message, fields
}

// isFormError reports whether err should re-render the form instead of
// bubbling to the HTTP error handler.
func isFormError(err error) bool {
	msg, fields := formErrors(err)
	return msg != "" || len(fields) > 0
}
