package assignment

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core/client"
)

type Service struct {
	client *client.Client
}

func NewService(c *client.Client) *Service {
	return &Service{client: c}
}

func (svc *Service) List(ctx context.Context) ([]Assignment, error) {
	var assignments []Assignment
	if err := svc.client.Get(ctx, "/assignments/", &assignments); err != nil {
		return nil, errors.Wrap(err, "listing assignments")
	}
	return assignments, nil
}

// ListByCourse asks the server to filter by course and re-filters the result
// locally; some deployments ignore the query parameter.
func (svc *Service) ListByCourse(ctx context.Context, courseID int) ([]Assignment, error) {
	var assignments []Assignment
	query := map[string]string{"course": strconv.Itoa(courseID)}
	if err := svc.client.GetQuery(ctx, "/assignments/", query, &assignments); err != nil {
		return nil, errors.Wrapf(err, "listing assignments for course %d", courseID)
	}
	filtered := assignments[:0]
	for _, a := range assignments {
		if a.Course == courseID {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Assignment, error) {
	var asg Assignment
	if err := svc.client.Get(ctx, "/assignments/"+strconv.Itoa(id)+"/", &asg); err != nil {
		return Assignment{}, errors.Wrapf(err, "fetching assignment %d", id)
	}
	return asg, nil
}

func (svc *Service) Create(ctx context.Context, data NewAssignment) (Assignment, error) {
	if err := data.Validate(); err != nil {
		return Assignment{}, err
	}
	var asg Assignment
	if err := svc.client.Post(ctx, "/assignments/", data, &asg); err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return asg, nil
}

func (svc *Service) Update(ctx context.Context, id int, data UpdateAssignment) (Assignment, error) {
	if err := data.Validate(); err != nil {
		return Assignment{}, err
	}
	var asg Assignment
	if err := svc.client.Patch(ctx, "/assignments/"+strconv.Itoa(id)+"/", data, &asg); err != nil {
		return Assignment{}, errors.Wrapf(err, "updating assignment %d", id)
	}
	return asg, nil
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if err := svc.client.Delete(ctx, "/assignments/"+strconv.Itoa(id)+"/"); err != nil {
		return errors.Wrapf(err, "deleting assignment %d", id)
	}
	return nil
}
