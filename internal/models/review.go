package models

type Review struct {
	BaseModel
	BookID     string `gorm:"not null;index"`
	UserID     string `gorm:"not null;index"`
	ReviewText string `gorm:"column:review;not null"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Status     string `gorm:"type:varchar(20);not null;default:'pending'"`

	// Relations
	Book Book `gorm:"foreignKey:BookID"`
	User User `gorm:"foreignKey:UserID"`
}

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

func IsValidReviewStatus(status string) bool {
	switch status {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}
