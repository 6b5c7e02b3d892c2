package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ValidWeekdays = map[string]bool{
	"mon": true, "tue": true, "wed": true, "thu": true, "fri": true, "sat": true, "sun": true,
}

// Doctor shares its ID with the owning User.
type Doctor struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName        string             `bson:"fullName" json:"fullName"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone" json:"phone"`
	Specialty       string             `bson:"specialty" json:"specialty"`
	Department      string             `bson:"department" json:"department"`
	Bio             string             `bson:"bio,omitempty" json:"bio,omitempty"`
	YearsExperience int                `bson:"yearsExperience" json:"yearsExperience"`
	ConsultationFee decimal.Decimal    `bson:"consultationFee" json:"consultationFee"`
	AvailableDays   []string           `bson:"availableDays" json:"availableDays"`
	Active          bool               `bson:"active" json:"active"`
	RatingAverage   float64            `bson:"ratingAverage" json:"ratingAverage"`
	RatingCount     int                `bson:"ratingCount" json:"ratingCount"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type DoctorFilter struct {
	Specialty  string
	Department string
	Active     *bool
}

func (f DoctorFilter) BSON() bson.M {
	filter := bson.M{}
	if f.Specialty != "" {
		filter["specialty"] = f.Specialty
	}
	if f.Department != "" {
		filter["department"] = f.Department
	}
	if f.Active != nil {
		filter["active"] = *f.Active
	}
	return filter
}

func (f DoctorFilter) Match(d *Doctor) bool {
	if f.Specialty != "" && d.Specialty != f.Specialty {
		return false
	}
	if f.Department != "" && d.Department != f.Department {
		return false
	}
	if f.Active != nil && d.Active != *f.Active {
		return false
	}
	return true
}
