package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ValidGenders = map[string]bool{
	"male": true, "female": true, "other": true,
}

var ValidBloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

type EmergencyContact struct {
	Name     string `bson:"name" json:"name"`
	Phone    string `bson:"phone" json:"phone"`
	Relation string `bson:"relation" json:"relation"`
}

// Patient shares its ID with the owning User.
type Patient struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName         string             `bson:"fullName" json:"fullName"`
	Email            string             `bson:"email" json:"email"`
	Phone            string             `bson:"phone" json:"phone"`
	DateOfBirth      *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Gender           string             `bson:"gender,omitempty" json:"gender,omitempty"`
	BloodGroup       string             `bson:"bloodGroup,omitempty" json:"bloodGroup,omitempty"`
	Address          string             `bson:"address,omitempty" json:"address,omitempty"`
	Allergies        []string           `bson:"allergies" json:"allergies"`
	EmergencyContact *EmergencyContact  `bson:"emergencyContact,omitempty" json:"emergencyContact,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type PatientFilter struct {
	// Query is a case-insensitive substring of the full name.
	Query string
}

func (f PatientFilter) BSON() bson.M {
	filter := bson.M{}
	if f.Query != "" {
		filter["fullName"] = bson.M{"$regex": regexp.QuoteMeta(f.Query), "$options": "i"}
	}
	return filter
}

func (f PatientFilter) Match(p *Patient) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(p.FullName), strings.ToLower(f.Query)) {
		return false
	}
	return true
}
