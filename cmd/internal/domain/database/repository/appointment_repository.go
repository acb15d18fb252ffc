package repository

import (
	"clinicportal/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(id string) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.Preload("Patient").Preload("Doctor").
		Where("is_deleted = ?", false).
		First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appt, err
}

// IsAvailable reports whether the doctor has no active appointment at date and clock.
// The appointment named by excludeID is ignored, so it can be moved onto its own slot.
func (a *DefaultAppointmentRepository) IsAvailable(doctorID int, date, clock, excludeID string) (bool, error) {
	if date == "" || clock == "" {
		return false, errors.New("date and time are required")
	}

	var count int64
	err := a.db.Model(&entity.Appointment{}).
		Where("is_deleted = ?", false).
		Where("doctor_id = ?", doctorID).
		Where("date = ? AND time = ?", date, clock).
		Where("status IN ?", entity.ActiveStatuses()).
		Where("id <> ?", excludeID).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (a *DefaultAppointmentRepository) FindAll(filter entity.AppointmentFilter) ([]*entity.Appointment, error) {
	query := a.db.Preload("Patient").Preload("Doctor").
		Where("is_deleted = ?", false)

	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.DoctorID != nil && filter.Unassigned {
		query = query.Where(a.db.Where("doctor_id = ?", *filter.DoctorID).Or("doctor_id IS NULL"))
	} else if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var appts []*entity.Appointment
	err := query.Order("date asc, time asc").Find(&appts).Error
	return appts, err
}

// FindMonthAppointments finds the active appointments with a date in [monthStart, monthEnd).
// This method returns PARTIAL appointment entities, having only `Date`, `Time` and `DoctorID` fields.
func (a *DefaultAppointmentRepository) FindMonthAppointments(monthStart, monthEnd string) ([]*entity.Appointment, error) {
	var results []*entity.Appointment

	err := a.db.Model(&entity.Appointment{}).
		Select("date, time, doctor_id").
		Where("is_deleted = ?", false).
		Where("status IN ?", entity.ActiveStatuses()).
		Where("date >= ?", monthStart).
		Where("date < ?", monthEnd).
		Order("date asc, time asc").
		Find(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (a *DefaultAppointmentRepository) Save(appointment *entity.Appointment) error {
	return a.db.Omit(clause.Associations).Save(appointment).Error
}

// Delete hides the appointment from every listing. Rows are never removed.
func (a *DefaultAppointmentRepository) Delete(appointment *entity.Appointment) error {
	appointment.IsDeleted = true
	return a.db.Model(&entity.Appointment{}).
		Where("id = ?", appointment.ID).
		Updates(map[string]any{"is_deleted": true, "updated_at": appointment.UpdatedAt}).Error
}
