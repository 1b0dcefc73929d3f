package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/models"
)

// ICandidateService defines the lookups and the single mutation the
// workflows perform against candidate records. Candidates themselves are
// owned by the application-intake side of the system.
type ICandidateService interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Candidate, error)
	FindByEmail(ctx context.Context, email string) (*models.Candidate, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

const candidatesCollection = "students"

type candidateService struct {
	db *mongo.Database
}

// NewCandidateService creates a new CandidateService.
func NewCandidateService(db *mongo.Database) ICandidateService {
	return &candidateService{db: db}
}

func (s *candidateService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Candidate, error) {
	var candidate models.Candidate
	err := s.db.Collection(candidatesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&candidate)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCandidateNotFound
		}
		return nil, &StorageError{Op: "candidate lookup by id", Err: err}
	}
	return &candidate, nil
}

func (s *candidateService) FindByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := s.db.Collection(candidatesCollection).FindOne(ctx, bson.M{"email": email}).Decode(&candidate)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCandidateNotFound
		}
		return nil, &StorageError{Op: "candidate lookup by email", Err: err}
	}
	return &candidate, nil
}

// SetStatus stamps the candidate's status and lastUpdated fields. Used by
// the offer workflow after a response.
func (s *candidateService) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	now := time.Now().UTC()
	res, err := s.db.Collection(candidatesCollection).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": status, "lastUpdated": now, "updatedAt": now},
	})
	if err != nil {
		return &StorageError{Op: "candidate status update", Err: err}
	}
	if res.MatchedCount == 0 {
		return ErrCandidateNotFound
	}
	return nil
}
