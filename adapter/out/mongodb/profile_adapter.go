package mongodb

import (
	"context"
	"fmt"
	"time"

	"devconnect_server/core/domain"
	"devconnect_server/core/port/out"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// =============================================================================
// MongoDB Profile Adapter
// =============================================================================

const collectionProfiles = "profiles"

// ProfileAdapter implements out.ProfileRepository using MongoDB.
type ProfileAdapter struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewProfileAdapter creates a new MongoDB profile adapter.
func NewProfileAdapter(db *mongo.Database) *ProfileAdapter {
	return &ProfileAdapter{
		db:         db,
		collection: db.Collection(collectionProfiles),
	}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *ProfileAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// =============================================================================
// Document Model
// =============================================================================

// profileDocument represents the MongoDB document structure.
type profileDocument struct {
	ID             string               `bson:"_id"`
	UserID         string               `bson:"user"`
	Company        *string              `bson:"company,omitempty"`
	Website        *string              `bson:"website,omitempty"`
	Location       *string              `bson:"location,omitempty"`
	Bio            *string              `bson:"bio,omitempty"`
	Status         string               `bson:"status"`
	GithubUsername *string              `bson:"githubusername,omitempty"`
	Skills         []string             `bson:"skills"`
	Social         socialDocument       `bson:"social"`
	Experience     []experienceDocument `bson:"experience"`
	Education      []educationDocument  `bson:"education"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

type socialDocument struct {
	Youtube   *string `bson:"youtube,omitempty"`
	Twitter   *string `bson:"twitter,omitempty"`
	Facebook  *string `bson:"facebook,omitempty"`
	Linkedin  *string `bson:"linkedin,omitempty"`
	Instagram *string `bson:"instagram,omitempty"`
}

type experienceDocument struct {
	ID          string     `bson:"id"`
	Title       string     `bson:"title"`
	Company     string     `bson:"company"`
	Location    *string    `bson:"location,omitempty"`
	From        time.Time  `bson:"from"`
	To          *time.Time `bson:"to,omitempty"`
	Current     bool       `bson:"current"`
	Description *string    `bson:"description,omitempty"`
}

type educationDocument struct {
	ID           string     `bson:"id"`
	School       string     `bson:"school"`
	Degree       string     `bson:"degree"`
	FieldOfStudy string     `bson:"fieldofstudy"`
	From         time.Time  `bson:"from"`
	To           *time.Time `bson:"to,omitempty"`
	Current      bool       `bson:"current"`
	Description  *string    `bson:"description,omitempty"`
}

// =============================================================================
// Queries
// =============================================================================

// GetByUserID retrieves the profile owned by a user.
func (a *ProfileAdapter) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var doc profileDocument
	filter := bson.M{"user": userID.String()}

	err := a.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return a.toEntity(&doc)
}

// List retrieves all profiles, newest first.
func (a *ProfileAdapter) List(ctx context.Context) ([]*domain.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := a.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*domain.Profile
	for cursor.Next(ctx) {
		var doc profileDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %w", err)
		}
		profile, err := a.toEntity(&doc)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, cursor.Err()
}

// =============================================================================
// Mutations
// =============================================================================

// Upsert creates or replaces the profile keyed on its user.
func (a *ProfileAdapter) Upsert(ctx context.Context, profile *domain.Profile) error {
	doc := a.toDocument(profile)

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"user": doc.UserID}

	if _, err := a.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// DeleteByUserID removes the profile. A missing profile is not an
// error.
func (a *ProfileAdapter) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	filter := bson.M{"user": userID.String()}
	if _, err := a.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// AddExperience prepends a work entry in a single update. Returns false
// when the user has no profile.
func (a *ProfileAdapter) AddExperience(ctx context.Context, userID uuid.UUID, exp domain.Experience) (bool, error) {
	filter := bson.M{"user": userID.String()}
	update := bson.M{
		"$push": bson.M{
			"experience": bson.M{"$each": bson.A{toExperienceDocument(exp)}, "$position": 0},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := a.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to add experience: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// RemoveExperience pulls the entry with the given id. Returns false
// when the profile or the entry is missing.
func (a *ProfileAdapter) RemoveExperience(ctx context.Context, userID uuid.UUID, entryID string) (bool, error) {
	filter := bson.M{"user": userID.String()}
	update := bson.M{
		"$pull": bson.M{"experience": bson.M{"id": entryID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := a.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to remove experience: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// AddEducation prepends a schooling entry in a single update.
func (a *ProfileAdapter) AddEducation(ctx context.Context, userID uuid.UUID, edu domain.Education) (bool, error) {
	filter := bson.M{"user": userID.String()}
	update := bson.M{
		"$push": bson.M{
			"education": bson.M{"$each": bson.A{toEducationDocument(edu)}, "$position": 0},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := a.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to add education: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// RemoveEducation pulls the entry with the given id.
func (a *ProfileAdapter) RemoveEducation(ctx context.Context, userID uuid.UUID, entryID string) (bool, error) {
	filter := bson.M{"user": userID.String()}
	update := bson.M{
		"$pull": bson.M{"education": bson.M{"id": entryID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := a.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to remove education: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// =============================================================================
// Conversion Helpers
// =============================================================================

func (a *ProfileAdapter) toDocument(profile *domain.Profile) *profileDocument {
	experience := make([]experienceDocument, len(profile.Experience))
	for i, exp := range profile.Experience {
		experience[i] = toExperienceDocument(exp)
	}
	education := make([]educationDocument, len(profile.Education))
	for i, edu := range profile.Education {
		education[i] = toEducationDocument(edu)
	}

	return &profileDocument{
		ID:             profile.ID,
		UserID:         profile.UserID.String(),
		Company:        profile.Company,
		Website:        profile.Website,
		Location:       profile.Location,
		Bio:            profile.Bio,
		Status:         profile.Status,
		GithubUsername: profile.GithubUsername,
		Skills:         profile.Skills,
		Social: socialDocument{
			Youtube:   profile.Social.Youtube,
			Twitter:   profile.Social.Twitter,
			Facebook:  profile.Social.Facebook,
			Linkedin:  profile.Social.Linkedin,
			Instagram: profile.Social.Instagram,
		},
		Experience: experience,
		Education:  education,
		CreatedAt:  profile.CreatedAt,
		UpdatedAt:  profile.UpdatedAt,
	}
}

func (a *ProfileAdapter) toEntity(doc *profileDocument) (*domain.Profile, error) {
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in profile %s: %w", doc.ID, err)
	}

	experience := make([]domain.Experience, len(doc.Experience))
	for i, exp := range doc.Experience {
		experience[i] = domain.Experience{
			ID:          exp.ID,
			Title:       exp.Title,
			Company:     exp.Company,
			Location:    exp.Location,
			From:        exp.From,
			To:          exp.To,
			Current:     exp.Current,
			Description: exp.Description,
		}
	}
	education := make([]domain.Education, len(doc.Education))
	for i, edu := range doc.Education {
		education[i] = domain.Education{
			ID:           edu.ID,
			School:       edu.School,
			Degree:       edu.Degree,
			FieldOfStudy: edu.FieldOfStudy,
			From:         edu.From,
			To:           edu.To,
			Current:      edu.Current,
			Description:  edu.Description,
		}
	}

	return &domain.Profile{
		ID:             doc.ID,
		UserID:         userID,
		Company:        doc.Company,
		Website:        doc.Website,
		Location:       doc.Location,
		Bio:            doc.Bio,
		Status:         doc.Status,
		GithubUsername: doc.GithubUsername,
		Skills:         doc.Skills,
		Social: domain.SocialLinks{
			Youtube:   doc.Social.Youtube,
			Twitter:   doc.Social.Twitter,
			Facebook:  doc.Social.Facebook,
			Linkedin:  doc.Social.Linkedin,
			Instagram: doc.Social.Instagram,
		},
		Experience: experience,
		Education:  education,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}, nil
}

func toExperienceDocument(exp domain.Experience) experienceDocument {
	return experienceDocument{
		ID:          exp.ID,
		Title:       exp.Title,
		Company:     exp.Company,
		Location:    exp.Location,
		From:        exp.From,
		To:          exp.To,
		Current:     exp.Current,
		Description: exp.Description,
	}
}

func toEducationDocument(edu domain.Education) educationDocument {
	return educationDocument{
		ID:           edu.ID,
		School:       edu.School,
		Degree:       edu.Degree,
		FieldOfStudy: edu.FieldOfStudy,
		From:         edu.From,
		To:           edu.To,
		Current:      edu.Current,
		Description:  edu.Description,
	}
}

// =============================================================================
// Interface Compliance
// =============================================================================

var _ out.ProfileRepository = (*ProfileAdapter)(nil)
