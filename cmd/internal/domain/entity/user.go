package entity

type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        int    `gorm:"primaryKey"`
	SubUUID   string `gorm:"not null;uniqueIndex;size:64"`
	Username  string `gorm:"not null;size:80"`
	Email     string `gorm:"not null;uniqueIndex;size:255"`
	Role      Role   `gorm:"not null;size:16"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64  `gorm:"not null;autoUpdateTime:false"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
