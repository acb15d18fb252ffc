package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentType string

const (
	TypeConsultation AppointmentType = "Consultation"
	TypeFollowUp     AppointmentType = "Follow-up"
	TypeCheckUp      AppointmentType = "Check-up"
	TypeProcedure    AppointmentType = "Procedure"
	TypeEmergency    AppointmentType = "Emergency"
	TypeTelehealth   AppointmentType = "Telehealth"
)

func AppointmentTypes() []AppointmentType {
	return []AppointmentType{TypeConsultation, TypeFollowUp, TypeCheckUp, TypeProcedure, TypeEmergency, TypeTelehealth}
}

func (t AppointmentType) IsValid() bool {
	switch t {
	case TypeConsultation, TypeFollowUp, TypeCheckUp, TypeProcedure, TypeEmergency, TypeTelehealth:
		return true
	}
	return false
}

type Department string

const (
	DepartmentGeneralMedicine Department = "General Medicine"
	DepartmentCardiology      Department = "Cardiology"
	DepartmentDermatology     Department = "Dermatology"
	DepartmentNeurology       Department = "Neurology"
	DepartmentOrthopedics     Department = "Orthopedics"
	DepartmentPediatrics      Department = "Pediatrics"
	DepartmentRadiology       Department = "Radiology"
)

func Departments() []Department {
	return []Department{
		DepartmentGeneralMedicine,
		DepartmentCardiology,
		DepartmentDermatology,
		DepartmentNeurology,
		DepartmentOrthopedics,
		DepartmentPediatrics,
		DepartmentRadiology,
	}
}

func (d Department) IsValid() bool {
	for _, known := range Departments() {
		if d == known {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID         string            `gorm:"primaryKey;size:36"`
	Date       string            `gorm:"not null;size:10;index"` // YYYY-MM-DD
	Time       string            `gorm:"not null;size:5"`        // HH:MM
	Type       AppointmentType   `gorm:"not null;size:32"`
	Department Department        `gorm:"not null;size:32"`
	Status     AppointmentStatus `gorm:"not null;size:16;index"`
	Notes      *string
	Location   *string
	PatientID  int   `gorm:"not null;index"` // References: users(id)
	DoctorID   *int  `gorm:"index"`          // References: users(id)
	IsDeleted  bool  `gorm:"not null"`
	CreatedAt  int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt  int64 `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Patient User  `gorm:"foreignKey:PatientID;references:ID"`
	Doctor  *User `gorm:"foreignKey:DoctorID;references:ID"`
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (a *Appointment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ActiveStatuses are the statuses that hold a doctor's time slot.
func ActiveStatuses() []AppointmentStatus {
	return []AppointmentStatus{StatusPending, StatusConfirmed, StatusInProgress, StatusRescheduled}
}

// HoldsSlot tells whether an appointment in status s occupies its doctor's time slot.
func (s AppointmentStatus) HoldsSlot() bool {
	for _, active := range ActiveStatuses() {
		if s == active {
			return true
		}
	}
	return false
}

// AppointmentFilter narrows an appointment listing. Zero fields match everything.
// With Unassigned set, a DoctorID filter also matches appointments without a doctor.
type AppointmentFilter struct {
	PatientID  *int
	DoctorID   *int
	Unassigned bool
	Status     AppointmentStatus
}
