package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

// ScheduleRepository reads and writes student schedules and their entries.
type ScheduleRepository struct {
	client    *apiclient.Client
	schedules resource[models.Schedule]
}

// NewScheduleRepository constructs a schedule repository.
func NewScheduleRepository(client *apiclient.Client) *ScheduleRepository {
	return &ScheduleRepository{client: client, schedules: newResource[models.Schedule](client, "/schedules")}
}

// List returns schedules for a student and term.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error) {
	q := url.Values{}
	setQuery(q, "student_ref", filter.StudentID)
	setQuery(q, "acad_year", filter.AcadYear)
	setQuery(q, "semester", filter.Semester)
	return r.schedules.list(ctx, q)
}

// FindByID loads a schedule with its entries.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	return r.schedules.get(ctx, id)
}

// Create stores a new schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	return r.schedules.create(ctx, schedule)
}

// Delete removes a schedule.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	return r.schedules.remove(ctx, id)
}

// AddEntry appends an entry and returns the updated schedule.
func (r *ScheduleRepository) AddEntry(ctx context.Context, scheduleID string, entry models.ScheduleEntry) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.client.Post(ctx, r.schedules.itemPath(scheduleID, "entries"), entry, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// RemoveEntry deletes one entry.
func (r *ScheduleRepository) RemoveEntry(ctx context.Context, scheduleID, entryID string) error {
	return r.client.Delete(ctx, r.schedules.itemPath(scheduleID, "entries", entryID))
}

// AssignTeacher sets the teacher and slot of an entry.
func (r *ScheduleRepository) AssignTeacher(ctx context.Context, scheduleID, entryID string, assignment models.EntryAssignment) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.client.Patch(ctx, r.schedules.itemPath(scheduleID, "entries", entryID), assignment, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

type entryReply struct {
	Status   string               `json:"status"`
	Message  string               `json:"message"`
	Official models.EntryMismatch `json:"official"`
}

// UpdateEntry submits an edited day/time/room. A mismatch with the teacher's
// assignment is returned in the result rather than as an error.
func (r *ScheduleRepository) UpdateEntry(ctx context.Context, scheduleID, entryID string, update models.EntryUpdate) (*models.EntryUpdateResult, error) {
	resp, err := r.client.DoRaw(ctx, http.MethodPut, r.schedules.itemPath(scheduleID, "entries", entryID), nil, update)
	if err != nil {
		return nil, err
	}

	if resp.OK() || resp.Status == http.StatusConflict {
		var reply entryReply
		if decodeErr := resp.Decode(&reply); decodeErr == nil && reply.Status == models.EntryStatusMismatch {
			mismatch := reply.Official
			if mismatch.Message == "" {
				mismatch.Message = reply.Message
			}
			return &models.EntryUpdateResult{Mismatch: &mismatch}, nil
		}
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var schedule models.Schedule
	if err := resp.Decode(&schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unexpected response from school API")
	}
	return &models.EntryUpdateResult{Schedule: &schedule}, nil
}
