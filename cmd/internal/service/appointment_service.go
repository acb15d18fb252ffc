package service

import (
	"clinicportal/cmd/internal/domain/entity"
	"clinicportal/cmd/internal/utils"
	"clinicportal/cmd/internal/utils/apierror"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	Save(appointment *entity.Appointment) error
	FindAll(filter entity.AppointmentFilter) ([]*entity.Appointment, error)
	IsAvailable(doctorID int, date, clock, excludeID string) (bool, error)
	FindByID(id string) (*entity.Appointment, error)
	FindMonthAppointments(monthStart, monthEnd string) ([]*entity.Appointment, error)
	Delete(appointment *entity.Appointment) error
}

type AppointmentRequest struct {
	entity.AppointmentDraft
	DoctorID *int `json:"doctor_id"`
}

type StatusChangeRequest struct {
	Action string `json:"action" validate:"required"`
	Date   string `json:"date" validate:"omitempty,isodate"`
	Time   string `json:"time" validate:"omitempty,clocktime"`
}

type StatusView struct {
	Status      entity.AppointmentStatus `json:"status"`
	DisplayName string                   `json:"display_name"`
	Color       string                   `json:"color"`
	Variant     entity.BadgeVariant      `json:"variant"`
}

type StatusCatalogEntry struct {
	StatusView
	Terminal bool          `json:"terminal"`
	Next     []*StatusView `json:"next"`
}

type AppointmentResponse struct {
	ID         string                 `json:"id"`
	Date       string                 `json:"date"`
	Time       string                 `json:"time"`
	Type       entity.AppointmentType `json:"type"`
	Department entity.Department      `json:"department"`
	StatusView
	Next        []*StatusView `json:"next"`
	Notes       string        `json:"notes,omitempty"`
	Location    string        `json:"location,omitempty"`
	PatientID   int           `json:"patient_id"`
	PatientName string        `json:"patient_name"`
	DoctorID    *int          `json:"doctor_id,omitempty"`
	DoctorName  string        `json:"doctor_name,omitempty"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

type ScheduledSlot struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	DoctorID *int   `json:"doctor_id,omitempty"`
}

type CalendarResponse struct {
	ScheduledSlots []*ScheduledSlot `json:"scheduled_slots"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	UserRepo        UserRepository
	Validate        *validator.Validate
	Now             func() time.Time
}

func NewAppointmentService(apptRepo AppointmentRepository, userRepo UserRepository, validate *validator.Validate) *DefaultAppointmentService {
	return &DefaultAppointmentService{AppointmentRepo: apptRepo, UserRepo: userRepo, Validate: validate, Now: time.Now}
}

// GetAppointments lists what the caller may see: clients their own bookings,
// staff the appointments assigned to them or to nobody yet, admins everything.
func (a *DefaultAppointmentService) GetAppointments(subId, rawStatus string) ([]*AppointmentResponse, apierror.ErrorResponse) {
	caller, apierr := a.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	var filter entity.AppointmentFilter
	if rawStatus != "" {
		status, err := entity.ParseAppointmentStatus(rawStatus)
		if err != nil {
			return nil, apierror.NewInvalidParamTypeError("status", "appointment status")
		}
		filter.Status = status
	}

	switch caller.Role {
	case entity.RoleClient:
		filter.PatientID = &caller.ID
	case entity.RoleStaff:
		filter.DoctorID = &caller.ID
		filter.Unassigned = true
	}

	appts, err := a.AppointmentRepo.FindAll(filter)
	if err != nil {
		log.Errorf("failed to find appointments for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

func (a *DefaultAppointmentService) GetAppointment(id, subId string) (*AppointmentResponse, apierror.ErrorResponse) {
	caller, apierr := a.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	appt, apierr := a.fetchVisible(id, caller)
	if apierr != nil {
		return nil, apierr
	}
	return toAppointmentResponse(appt), nil
}

func (a *DefaultAppointmentService) GetTransitions(id, subId string) ([]*StatusView, apierror.ErrorResponse) {
	caller, apierr := a.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	appt, apierr := a.fetchVisible(id, caller)
	if apierr != nil {
		return nil, apierr
	}

	var views []*StatusView
	for _, next := range entity.NextStatuses(appt.Status) {
		if allowedAction(caller, actionFor(next)) {
			views = append(views, toStatusView(next))
		}
	}
	if views == nil {
		views = []*StatusView{}
	}
	return views, nil
}

// CreateAppointment books a new appointment for the calling client. It always starts pending.
func (a *DefaultAppointmentService) CreateAppointment(req *AppointmentRequest, subId string) (*AppointmentResponse, apierror.ErrorResponse) {
	caller, apierr := a.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	if caller.Role != entity.RoleClient {
		return nil, apierror.ForbiddenError
	}

	utils.Sanitize(&req.AppointmentDraft)
	if problems := entity.ValidateAppointmentAt(&req.AppointmentDraft, a.Now()); len(problems) > 0 {
		return nil, apierror.NewValidationListError(problems)
	}

	if req.DoctorID != nil {
		if apierr := a.checkDoctor(*req.DoctorID, req.Date, req.Time, ""); apierr != nil {
			return nil, apierr
		}
	}

	now := a.Now().UTC().UnixMilli()
	appointment := &entity.Appointment{
		Date:       req.Date,
		Time:       req.Time,
		Type:       req.Type,
		Department: req.Department,
		Status:     entity.StatusPending,
		Notes:      optional(req.Notes),
		Location:   optional(req.Location),
		PatientID:  caller.ID,
		DoctorID:   req.DoctorID,
		IsDeleted:  false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := a.AppointmentRepo.Save(appointment)
	if err != nil {
		log.Errorf("failed to save appointment: %v", err)
		return nil, apierror.InternalServerError
	}

	saved, err := a.AppointmentRepo.FindByID(appointment.ID)
	if err != nil || saved == nil {
		log.Errorf("failed to reload appointment %s: %v", appointment.ID, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(saved), nil
}

// ChangeStatus applies a status action. The transition table has the last word:
// an action the table does not allow from the current status is rejected.
func (a *DefaultAppointmentService) ChangeStatus(id string, req *StatusChangeRequest, subId string) (*AppointmentResponse, apierror.ErrorResponse) {
	caller, apierr := a.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	action, err := ParseAction(req.Action)
	if err != nil {
		return nil, apierror.UnknownActionError
	}

	appt, apierr := a.fetchVisible(id, caller)
	if apierr != nil {
		return nil, apierr
	}

	if !allowedAction(caller, action) {
		return nil, apierror.ForbiddenError
	}

	target := action.Target()
	if !entity.CanTransition(appt.Status, target) {
		return nil, apierror.NewIllegalTransitionError(
			entity.DisplayName(appt.Status), entity.DisplayName(target), appt.Status.IsTerminal())
	}

	// Staff acting on an unassigned appointment take it over.
	if appt.DoctorID == nil && caller.Role == entity.RoleStaff {
		appt.DoctorID = &caller.ID
		appt.Doctor = caller
	}

	switch {
	case action == ActionReschedule:
		if apierr := a.moveAppointment(appt, req); apierr != nil {
			return nil, apierr
		}
	case action == ActionReopen:
		if apierr := a.reclaimSlot(appt); apierr != nil {
			return nil, apierr
		}
	case target.HoldsSlot() && appt.DoctorID != nil:
		if apierr := a.checkDoctor(*appt.DoctorID, appt.Date, appt.Time, appt.ID); apierr != nil {
			return nil, apierr
		}
	}

	appt.Status = target
	appt.UpdatedAt = a.Now().UTC().UnixMilli()
	err = a.AppointmentRepo.Save(appt)
	if err != nil {
		log.Errorf("failed to update appointment %s to %s: %v", appt.ID, target, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appt), nil
}

func (a *DefaultAppointmentService) DeleteAppointment(id, issuerSub string) apierror.ErrorResponse {
	caller, apierr := a.fetchCaller(issuerSub)
	if apierr != nil {
		return apierr
	}

	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %s: %v", id, err)
		return apierror.InternalServerError
	}

	if appt == nil || (!caller.IsAdmin() && appt.PatientID != caller.ID) {
		return apierror.NotFoundError
	}

	appt.UpdatedAt = a.Now().UTC().UnixMilli()
	err = a.AppointmentRepo.Delete(appt)
	if err != nil {
		log.Errorf("failed to delete appointment by id %s: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (a *DefaultAppointmentService) GetCalendar(monthStart, monthEnd string) (*CalendarResponse, apierror.ErrorResponse) {
	appts, err := a.AppointmentRepo.FindMonthAppointments(monthStart, monthEnd)
	if err != nil {
		log.Errorf("failed to fetch appointments availability [%s - %s]: %v", monthStart, monthEnd, err)
		return nil, apierror.InternalServerError
	}

	slots := make([]*ScheduledSlot, len(appts))
	for i, appt := range appts {
		slots[i] = &ScheduledSlot{Date: appt.Date, Time: appt.Time, DoctorID: appt.DoctorID}
	}
	return &CalendarResponse{ScheduledSlots: slots}, nil
}

func (a *DefaultAppointmentService) GetStatusCatalog() []*StatusCatalogEntry {
	statuses := entity.AppointmentStatuses()
	catalog := make([]*StatusCatalogEntry, len(statuses))
	for i, s := range statuses {
		catalog[i] = &StatusCatalogEntry{
			StatusView: *toStatusView(s),
			Terminal:   s.IsTerminal(),
			Next:       toStatusViews(entity.NextStatuses(s)),
		}
	}
	return catalog
}

// moveAppointment validates the new slot of a reschedule and writes it onto appt.
func (a *DefaultAppointmentService) moveAppointment(appt *entity.Appointment, req *StatusChangeRequest) apierror.ErrorResponse {
	if req.Date == "" || req.Time == "" {
		return apierror.NewValidationListError([]string{"Rescheduling needs a new date and time"})
	}

	draft := entity.AppointmentDraft{Date: req.Date, Time: req.Time, Type: appt.Type, Department: appt.Department}
	if problems := entity.ValidateAppointmentAt(&draft, a.Now()); len(problems) > 0 {
		return apierror.NewValidationListError(problems)
	}

	if appt.DoctorID != nil {
		if apierr := a.checkDoctor(*appt.DoctorID, req.Date, req.Time, appt.ID); apierr != nil {
			return apierr
		}
	}

	appt.Date = req.Date
	appt.Time = req.Time
	return nil
}

// reclaimSlot checks that a cancelled or missed appointment can take its slot again.
func (a *DefaultAppointmentService) reclaimSlot(appt *entity.Appointment) apierror.ErrorResponse {
	draft := entity.AppointmentDraft{Date: appt.Date, Time: appt.Time, Type: appt.Type, Department: appt.Department}
	if problems := entity.ValidateAppointmentAt(&draft, a.Now()); len(problems) > 0 {
		return apierror.NewValidationListError(problems)
	}

	if appt.DoctorID != nil {
		return a.checkDoctor(*appt.DoctorID, appt.Date, appt.Time, appt.ID)
	}
	return nil
}

func (a *DefaultAppointmentService) checkDoctor(doctorID int, date, clock, excludeID string) apierror.ErrorResponse {
	doctor, err := a.UserRepo.FindByID(doctorID)
	if err != nil {
		log.Errorf("failed to fetch doctor %d: %v", doctorID, err)
		return apierror.InternalServerError
	}
	if doctor == nil || doctor.Role != entity.RoleStaff {
		return apierror.DoctorNotFoundError
	}

	available, err := a.AppointmentRepo.IsAvailable(doctorID, date, clock, excludeID)
	if err != nil {
		log.Errorf("failed to check if %s %s is available for doctor %d: %v", date, clock, doctorID, err)
		return apierror.InternalServerError
	}
	if !available {
		return apierror.MomentNotAvailable
	}
	return nil
}

func (a *DefaultAppointmentService) fetchCaller(sub string) (*entity.User, apierror.ErrorResponse) {
	caller, err := a.UserRepo.FindBySub(sub)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", sub, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.UnknownCallerError
	}
	return caller, nil
}

// fetchVisible loads an appointment, answering not found when the caller has no part in it.
func (a *DefaultAppointmentService) fetchVisible(id string, caller *entity.User) (*entity.Appointment, apierror.ErrorResponse) {
	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil || !canSee(caller, appt) {
		return nil, apierror.NotFoundError
	}
	return appt, nil
}

func canSee(caller *entity.User, appt *entity.Appointment) bool {
	switch caller.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleStaff:
		return appt.DoctorID == nil || *appt.DoctorID == caller.ID
	default:
		return appt.PatientID == caller.ID
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toStatusView(s entity.AppointmentStatus) *StatusView {
	return &StatusView{
		Status:      s,
		DisplayName: entity.DisplayName(s),
		Color:       entity.Color(s),
		Variant:     entity.Variant(s),
	}
}

func toStatusViews(statuses []entity.AppointmentStatus) []*StatusView {
	views := make([]*StatusView, len(statuses))
	for i, s := range statuses {
		views[i] = toStatusView(s)
	}
	return views
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:          appt.ID,
		Date:        appt.Date,
		Time:        appt.Time,
		Type:        appt.Type,
		Department:  appt.Department,
		StatusView:  *toStatusView(appt.Status),
		Next:        toStatusViews(entity.NextStatuses(appt.Status)),
		PatientID:   appt.PatientID,
		PatientName: appt.Patient.Username,
		DoctorID:    appt.DoctorID,
		CreatedAt:   utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(appt.UpdatedAt),
	}
	if appt.Notes != nil {
		resp.Notes = *appt.Notes
	}
	if appt.Location != nil {
		resp.Location = *appt.Location
	}
	if appt.Doctor != nil {
		resp.DoctorName = appt.Doctor.Username
	}
	return resp
}
