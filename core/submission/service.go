package submission

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/client"
)

var (
	errNoFile     = errors.New("no file selected")
	errNotZip     = errors.New("rubric must be a ZIP file")
	errOversizeFn = func(cap int64) error {
		return fmt.Errorf("file size exceeds %dMB limit", cap>>20)
	}
)

type Service struct {
	client *client.Client
	conf   *core.Config
}

func NewService(c *client.Client, conf *core.Config) *Service {
	return &Service{client: c, conf: conf}
}

// Upload sends a student's submission file. The size cap is enforced here,
// before any request is issued.
func (svc *Service) Upload(ctx context.Context, file File, studentID, assignmentID int) (Submission, error) {
	if err := checkFile(file, svc.conf.Uploads.MaxSubmissionSize, "submission_file"); err != nil {
		return Submission{}, err
	}

	body, contentType, err := encodeForm(file, "submission_file", map[string]string{
		"student":    strconv.Itoa(studentID),
		"assignment": strconv.Itoa(assignmentID),
	})
	if err != nil {
		return Submission{}, err
	}

	var sub Submission
	if err := svc.client.PostForm(ctx, "/upload/submission/", body, contentType, &sub); err != nil {
		return Submission{}, errors.Wrap(err, "uploading submission")
	}
	return sub, nil
}

// UploadRubric sends an instructor's grading rubric; rubrics must be ZIP
// archives and are held to a tighter size cap.
func (svc *Service) UploadRubric(ctx context.Context, file File, instructorID, assignmentID int) (Rubric, error) {
	if file.Content == nil {
		return Rubric{}, core.NewValidationError(errNoFile, core.FieldError{Field: "rubric_file", Error: errNoFile.Error()})
	}
	if !strings.EqualFold(filepath.Ext(file.Name), ".zip") {
		return Rubric{}, core.NewValidationError(errNotZip, core.FieldError{Field: "rubric_file", Error: errNotZip.Error()})
	}
	if err := checkFile(file, svc.conf.Uploads.MaxRubricSize, "rubric_file"); err != nil {
		return Rubric{}, err
	}

	body, contentType, err := encodeForm(file, "rubric_file", map[string]string{
		"instructor": strconv.Itoa(instructorID),
		"assignment": strconv.Itoa(assignmentID),
	})
	if err != nil {
		return Rubric{}, err
	}

	var rub Rubric
	if err := svc.client.PostForm(ctx, "/upload/rubric/", body, contentType, &rub); err != nil {
		return Rubric{}, errors.Wrap(err, "uploading rubric")
	}
	return rub, nil
}

// ListForAssignment fetches submissions for an assignment, re-filtering
// locally like the assignment listing does.
func (svc *Service) ListForAssignment(ctx context.Context, assignmentID int) ([]Submission, error) {
	var subs []Submission
	query := map[string]string{"assignment": strconv.Itoa(assignmentID)}
	if err := svc.client.GetQuery(ctx, "/submissions/", query, &subs); err != nil {
		return nil, errors.Wrapf(err, "listing submissions for assignment %d", assignmentID)
	}
	filtered := subs[:0]
	for _, s := range subs {
		if s.Assignment == assignmentID {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func checkFile(file File, sizeCap int64, field string) error {
	if file.Content == nil {
		return core.NewValidationError(errNoFile, core.FieldError{Field: field, Error: errNoFile.Error()})
	}
	if file.Size > sizeCap {
		err := errOversizeFn(sizeCap)
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// encodeForm builds the multipart body. The returned content type carries
// the boundary and must reach the wire untouched.
func encodeForm(file File, fileField string, fields map[string]string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(fileField, slugifyFilename(file.Name))
	if err != nil {
		return nil, "", errors.Wrap(err, "creating form file")
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, "", errors.Wrap(err, "copying file content")
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", errors.Wrapf(err, "writing form field %s", name)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "closing multipart writer")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// slugifyFilename normalizes the base name while keeping the extension.
func slugifyFilename(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if s := slug.Make(stem); s != "" {
		stem = s
	}
	return stem + strings.ToLower(ext)
}
