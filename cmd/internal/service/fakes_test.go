package service

import (
	"clinicportal/cmd/internal/domain/entity"
	"clinicportal/cmd/internal/utils/validators"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
)

var testNow = time.Date(2025, time.August, 14, 9, 0, 0, 0, time.UTC)

type fakeUserRepo struct {
	users map[int]*entity.User
	err   error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int]*entity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindByID(id int) (*entity.User, error) {
	return f.users[id], f.err
}

func (f *fakeUserRepo) FindBySub(sub string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.SubUUID == sub {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll() ([]*entity.User, error) {
	all := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, f.err
}

func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, f.err
		}
	}
	return nil, f.err
}

func (f *fakeUserRepo) ExistsByEmail(email string) (bool, error) {
	u, err := f.FindByEmail(email)
	return u != nil, err
}

func (f *fakeUserRepo) Save(user *entity.User) error {
	if f.err != nil {
		return f.err
	}
	if user.ID == 0 {
		user.ID = len(f.users) + 1
	}
	f.users[user.ID] = user
	return nil
}

type fakeAppointmentRepo struct {
	appts   map[string]*entity.Appointment
	users   *fakeUserRepo
	saveErr error
	seq     int
}

func newFakeAppointmentRepo(users *fakeUserRepo) *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: make(map[string]*entity.Appointment), users: users}
}

func (f *fakeAppointmentRepo) Save(appt *entity.Appointment) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if appt.ID == "" {
		f.seq++
		appt.ID = fmt.Sprintf("appt-%d", f.seq)
	}
	stored := *appt
	stored.Patient = entity.User{}
	stored.Doctor = nil
	f.appts[appt.ID] = &stored
	return nil
}

func (f *fakeAppointmentRepo) FindAll(filter entity.AppointmentFilter) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range f.appts {
		if a.IsDeleted {
			continue
		}
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil {
			mine := a.DoctorID != nil && *a.DoctorID == *filter.DoctorID
			if !mine && !(filter.Unassigned && a.DoctorID == nil) {
				continue
			}
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, f.hydrate(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date+out[i].Time < out[j].Date+out[j].Time })
	return out, nil
}

func (f *fakeAppointmentRepo) IsAvailable(doctorID int, date, clock, excludeID string) (bool, error) {
	if date == "" || clock == "" {
		return false, errors.New("date and time are required")
	}
	for _, a := range f.appts {
		if a.IsDeleted || a.ID == excludeID || a.DoctorID == nil || *a.DoctorID != doctorID {
			continue
		}
		if a.Date == date && a.Time == clock && a.Status.HoldsSlot() {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakeAppointmentRepo) FindByID(id string) (*entity.Appointment, error) {
	a, ok := f.appts[id]
	if !ok || a.IsDeleted {
		return nil, nil
	}
	return f.hydrate(a), nil
}

func (f *fakeAppointmentRepo) FindMonthAppointments(monthStart, monthEnd string) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range f.appts {
		if a.IsDeleted || a.Date < monthStart || a.Date >= monthEnd {
			continue
		}
		out = append(out, &entity.Appointment{Date: a.Date, Time: a.Time, DoctorID: a.DoctorID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date+out[i].Time < out[j].Date+out[j].Time })
	return out, nil
}

func (f *fakeAppointmentRepo) Delete(appt *entity.Appointment) error {
	appt.IsDeleted = true
	f.appts[appt.ID].IsDeleted = true
	return nil
}

func (f *fakeAppointmentRepo) hydrate(a *entity.Appointment) *entity.Appointment {
	out := *a
	if p := f.users.users[a.PatientID]; p != nil {
		out.Patient = *p
	}
	if a.DoctorID != nil {
		out.Doctor = f.users.users[*a.DoctorID]
	}
	return &out
}

func newTestValidator() *validator.Validate {
	validate := validator.New()
	validators.Register(validate)
	entity.RegisterValidators(validate)
	return validate
}

var (
	testAdmin  = &entity.User{ID: 1, SubUUID: "sub-admin", Username: "ada", Email: "ada@clinic.test", Role: entity.RoleAdmin}
	testDoctor = &entity.User{ID: 2, SubUUID: "sub-doc", Username: "dr-house", Email: "house@clinic.test", Role: entity.RoleStaff}
	testClient = &entity.User{ID: 3, SubUUID: "sub-client", Username: "jane", Email: "jane@clinic.test", Role: entity.RoleClient}
	testOther  = &entity.User{ID: 4, SubUUID: "sub-other", Username: "john", Email: "john@clinic.test", Role: entity.RoleClient}
)

func newTestAppointmentService() (*DefaultAppointmentService, *fakeAppointmentRepo) {
	users := newFakeUserRepo(testAdmin, testDoctor, testClient, testOther)
	appts := newFakeAppointmentRepo(users)
	svc := NewAppointmentService(appts, users, newTestValidator())
	svc.Now = func() time.Time { return testNow }
	return svc, appts
}
