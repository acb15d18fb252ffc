package repository

import (
	"clinicportal/cmd/internal/config"
	"clinicportal/cmd/internal/domain/database"
	"clinicportal/cmd/internal/domain/entity"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func seedUser(t *testing.T, repo *DefaultUserRepository, name string, role entity.Role) *entity.User {
	t.Helper()
	user := &entity.User{
		SubUUID:  "sub-" + name,
		Username: name,
		Email:    name + "@clinic.test",
		Role:     role,
	}
	require.NoError(t, repo.Save(user))
	return user
}

func newAppointment(patient, doctor *entity.User, date, clock string, status entity.AppointmentStatus) *entity.Appointment {
	return &entity.Appointment{
		Date:       date,
		Time:       clock,
		Type:       entity.TypeConsultation,
		Department: entity.DepartmentCardiology,
		Status:     status,
		PatientID:  patient.ID,
		DoctorID:   &doctor.ID,
		CreatedAt:  1,
		UpdatedAt:  1,
	}
}

func TestUserRepository(t *testing.T) {
	users := NewUserRepository(openTestDB(t))
	jane := seedUser(t, users, "jane", entity.RoleClient)
	require.NotZero(t, jane.ID)

	found, err := users.FindBySub("sub-jane")
	require.NoError(t, err)
	assert.Equal(t, jane.ID, found.ID)

	found, err = users.FindByEmail("jane@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, "jane", found.Username)

	missing, err := users.FindByID(999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	exists, err := users.ExistsByEmail("jane@clinic.test")
	require.NoError(t, err)
	assert.True(t, exists)

	all, err := users.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAppointmentRepository_SaveAssignsID(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	appts := NewAppointmentRepository(db)
	patient := seedUser(t, users, "pat", entity.RoleClient)
	doctor := seedUser(t, users, "doc", entity.RoleStaff)

	appt := newAppointment(patient, doctor, "2025-09-01", "10:00", entity.StatusPending)
	require.NoError(t, appts.Save(appt))
	_, err := uuid.Parse(appt.ID)
	require.NoError(t, err)

	found, err := appts.FindByID(appt.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "pat", found.Patient.Username)
	require.NotNil(t, found.Doctor)
	assert.Equal(t, "doc", found.Doctor.Username)
	assert.Equal(t, int64(1), found.CreatedAt)

	found.Status = entity.StatusConfirmed
	found.UpdatedAt = 2
	require.NoError(t, appts.Save(found))

	again, err := appts.FindByID(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, again.Status)
	assert.Equal(t, int64(2), again.UpdatedAt)
}

func TestAppointmentRepository_IsAvailable(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	appts := NewAppointmentRepository(db)
	patient := seedUser(t, users, "pat", entity.RoleClient)
	doctor := seedUser(t, users, "doc", entity.RoleStaff)

	booked := newAppointment(patient, doctor, "2025-09-01", "10:00", entity.StatusConfirmed)
	require.NoError(t, appts.Save(booked))
	cancelled := newAppointment(patient, doctor, "2025-09-01", "11:00", entity.StatusCancelled)
	require.NoError(t, appts.Save(cancelled))

	free, err := appts.IsAvailable(doctor.ID, "2025-09-01", "10:00", "")
	require.NoError(t, err)
	assert.False(t, free)

	free, err = appts.IsAvailable(doctor.ID, "2025-09-01", "10:00", booked.ID)
	require.NoError(t, err)
	assert.True(t, free)

	free, err = appts.IsAvailable(doctor.ID, "2025-09-01", "11:00", "")
	require.NoError(t, err)
	assert.True(t, free)

	_, err = appts.IsAvailable(doctor.ID, "", "11:00", "")
	assert.Error(t, err)
}

func TestAppointmentRepository_FindAllAndDelete(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	appts := NewAppointmentRepository(db)
	pat := seedUser(t, users, "pat", entity.RoleClient)
	other := seedUser(t, users, "other", entity.RoleClient)
	doc := seedUser(t, users, "doc", entity.RoleStaff)

	first := newAppointment(pat, doc, "2025-09-02", "09:00", entity.StatusPending)
	second := newAppointment(pat, doc, "2025-09-01", "09:00", entity.StatusConfirmed)
	third := newAppointment(other, doc, "2025-09-03", "09:00", entity.StatusPending)
	for _, a := range []*entity.Appointment{first, second, third} {
		require.NoError(t, appts.Save(a))
	}

	mine, err := appts.FindAll(entity.AppointmentFilter{PatientID: &pat.ID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	pending, err := appts.FindAll(entity.AppointmentFilter{Status: entity.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	first.UpdatedAt = 5
	require.NoError(t, appts.Delete(first))
	assert.True(t, first.IsDeleted)

	gone, err := appts.FindByID(first.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	all, err := appts.FindAll(entity.AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAppointmentRepository_FindAllUnassigned(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	appts := NewAppointmentRepository(db)
	pat := seedUser(t, users, "pat", entity.RoleClient)
	doc := seedUser(t, users, "doc", entity.RoleStaff)
	colleague := seedUser(t, users, "colleague", entity.RoleStaff)

	assigned := newAppointment(pat, doc, "2025-09-01", "09:00", entity.StatusPending)
	unassigned := newAppointment(pat, doc, "2025-09-02", "09:00", entity.StatusPending)
	unassigned.DoctorID = nil
	elsewhere := newAppointment(pat, colleague, "2025-09-03", "09:00", entity.StatusPending)
	for _, a := range []*entity.Appointment{assigned, unassigned, elsewhere} {
		require.NoError(t, appts.Save(a))
	}

	only, err := appts.FindAll(entity.AppointmentFilter{DoctorID: &doc.ID})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, assigned.ID, only[0].ID)

	open, err := appts.FindAll(entity.AppointmentFilter{DoctorID: &doc.ID, Unassigned: true, Status: entity.StatusPending})
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, assigned.ID, open[0].ID)
	assert.Equal(t, unassigned.ID, open[1].ID)
}

func TestAppointmentRepository_FindMonthAppointments(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	appts := NewAppointmentRepository(db)
	pat := seedUser(t, users, "pat", entity.RoleClient)
	doc := seedUser(t, users, "doc", entity.RoleStaff)

	for _, a := range []*entity.Appointment{
		newAppointment(pat, doc, "2025-08-31", "09:00", entity.StatusPending),
		newAppointment(pat, doc, "2025-09-15", "14:00", entity.StatusConfirmed),
		newAppointment(pat, doc, "2025-09-01", "08:00", entity.StatusPending),
		newAppointment(pat, doc, "2025-09-20", "08:00", entity.StatusCancelled),
		newAppointment(pat, doc, "2025-10-01", "08:00", entity.StatusPending),
	} {
		require.NoError(t, appts.Save(a))
	}

	month, err := appts.FindMonthAppointments("2025-09-01", "2025-10-01")
	require.NoError(t, err)
	require.Len(t, month, 2)
	assert.Equal(t, "2025-09-01", month[0].Date)
	assert.Equal(t, "08:00", month[0].Time)
	assert.Equal(t, "2025-09-15", month[1].Date)
	assert.Empty(t, month[1].ID)
}
