package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Candidate statuses stamped by the offer workflow.
const (
	CandidateStatusOfferAccepted = "Offer Accepted"
	CandidateStatusOfferDeclined = "Offer Declined"
)

// Candidate is an applicant record. The application profile is immutable
// once submitted; only Status, AssignmentSent and LastUpdated are touched
// by workflows.
type Candidate struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FullName        string             `bson:"fullName" json:"fullName"`
	Email           string             `bson:"email" json:"email"`
	Mobile          string             `bson:"mobile" json:"mobile"`
	CityState       string             `bson:"cityState" json:"cityState"`
	Address         string             `bson:"address" json:"address"`
	CollegeName     string             `bson:"collegeName" json:"collegeName"`
	Degree          string             `bson:"degree" json:"degree"`
	Branch          string             `bson:"branch" json:"branch"`
	YearOfStudy     string             `bson:"yearOfStudy" json:"yearOfStudy"`
	PreferredDomain string             `bson:"preferredDomain" json:"preferredDomain"`
	TechnicalSkills []string           `bson:"technicalSkills,omitempty" json:"technicalSkills,omitempty"`
	PriorExperience string             `bson:"priorExperience" json:"priorExperience"`
	PortfolioURL    string             `bson:"portfolioUrl,omitempty" json:"portfolioUrl,omitempty"`
	Motivation      string             `bson:"motivation" json:"motivation"`
	Declaration     string             `bson:"declaration" json:"declaration"`
	Status          string             `bson:"status,omitempty" json:"status,omitempty"`
	AssignmentSent  bool               `bson:"assignmentSent" json:"assignmentSent"`
	SentAt          *time.Time         `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	LastUpdated     *time.Time         `bson:"lastUpdated,omitempty" json:"lastUpdated,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
