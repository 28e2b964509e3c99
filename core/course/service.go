package course

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

func (svc *Service) List(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := svc.client.Get(ctx, "/courses/", &courses); err != nil {
		return nil, errors.Wrap(err, "listing courses")
	}
	return courses, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Course, error) {
	var crs Course
	if err := svc.client.Get(ctx, "/courses/"+strconv.Itoa(id)+"/", &crs); err != nil {
		return Course{}, errors.Wrapf(err, "fetching course %d", id)
	}
	return crs, nil
}

// Create returns the server's canonical representation of the new course.
func (svc *Service) Create(ctx context.Context, data NewCourse) (Course, error) {
	if err := data.Validate(); err != nil {
		return Course{}, err
	}
	var crs Course
	if err := svc.client.Post(ctx, "/courses/", data, &crs); err != nil {
		return Course{}, errors.Wrap(err, "creating course")
	}
	return crs, nil
}

// Update PATCHes the provided fields and returns the canonical record.
func (svc *Service) Update(ctx context.Context, id int, data UpdateCourse) (Course, error) {
	if err := data.Validate(); err != nil {
		return Course{}, err
	}
	var crs Course
	if err := svc.client.Patch(ctx, "/courses/"+strconv.Itoa(id)+"/", data, &crs); err != nil {
		return Course{}, errors.Wrapf(err, "updating course %d", id)
	}
	return crs, nil
}

// Delete is fully delegated to the backend; the client makes no idempotence
// guarantee of its own.
func (svc *Service) Delete(ctx context.Context, id int) error {
	if err := svc.client.Delete(ctx, "/courses/"+strconv.Itoa(id)+"/"); err != nil {
		return errors.Wrapf(err, "deleting course %d", id)
	}
	return nil
}
