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
// MongoDB Post Adapter
// =============================================================================

const collectionPosts = "posts"

// PostAdapter implements out.PostRepository using MongoDB. Like and
// comment mutations are guarded single-document updates so they stay
// correct under concurrent callers.
type PostAdapter struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewPostAdapter creates a new MongoDB post adapter.
func NewPostAdapter(db *mongo.Database) *PostAdapter {
	return &PostAdapter{
		db:         db,
		collection: db.Collection(collectionPosts),
	}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *PostAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "date", Value: -1}},
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// =============================================================================
// Document Model
// =============================================================================

// postDocument represents the MongoDB document structure.
type postDocument struct {
	ID       string            `bson:"_id"`
	UserID   string            `bson:"user"`
	Text     string            `bson:"text"`
	Name     string            `bson:"name"`
	Avatar   string            `bson:"avatar"`
	Likes    []likeDocument    `bson:"likes"`
	Comments []commentDocument `bson:"comments"`
	Date     time.Time         `bson:"date"`
}

type likeDocument struct {
	UserID string `bson:"user"`
}

type commentDocument struct {
	ID     string    `bson:"id"`
	UserID string    `bson:"user"`
	Text   string    `bson:"text"`
	Name   string    `bson:"name"`
	Avatar string    `bson:"avatar"`
	Date   time.Time `bson:"date"`
}

// =============================================================================
// Queries
// =============================================================================

// GetByID retrieves a post.
func (a *PostAdapter) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	var doc postDocument
	filter := bson.M{"_id": id}

	err := a.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return a.toEntity(&doc)
}

// List retrieves all posts, newest first.
func (a *PostAdapter) List(ctx context.Context) ([]*domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := a.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []*domain.Post
	for cursor.Next(ctx) {
		var doc postDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		post, err := a.toEntity(&doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, cursor.Err()
}

// =============================================================================
// Mutations
// =============================================================================

// Create inserts a new post.
func (a *PostAdapter) Create(ctx context.Context, post *domain.Post) error {
	if _, err := a.collection.InsertOne(ctx, a.toDocument(post)); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// Delete removes a post.
func (a *PostAdapter) Delete(ctx context.Context, id string) error {
	if _, err := a.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// DeleteByUser removes every post authored by a user.
func (a *PostAdapter) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := a.collection.DeleteMany(ctx, bson.M{"user": userID.String()}); err != nil {
		return fmt.Errorf("failed to delete posts by user: %w", err)
	}
	return nil
}

// AddLike prepends a like only when no like from this user exists.
// The guard rides in the filter, so two concurrent likes from the same
// user collapse into one while likes from distinct users both land.
func (a *PostAdapter) AddLike(ctx context.Context, postID string, like domain.Like) (bool, error) {
	filter := bson.M{
		"_id":        postID,
		"likes.user": bson.M{"$ne": like.UserID.String()},
	}
	update := bson.M{
		"$push": bson.M{
			"likes": bson.M{"$each": bson.A{likeDocument{UserID: like.UserID.String()}}, "$position": 0},
		},
	}

	result, err := a.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// RemoveLike pulls the caller's like. Returns false when no such like
// exists.
func (a *PostAdapter) RemoveLike(ctx context.Context, postID string, userID uuid.UUID) (bool, error) {
	filter := bson.M{"_id": postID}
	update := bson.M{"$pull": bson.M{"likes": bson.M{"user": userID.String()}}}

	result, err := a.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// AddComment prepends a comment. Returns false when the post is gone.
func (a *PostAdapter) AddComment(ctx context.Context, postID string, comment domain.Comment) (bool, error) {
	filter := bson.M{"_id": postID}
	update := bson.M{
		"$push": bson.M{
			"comments": bson.M{"$each": bson.A{toCommentDocument(comment)}, "$position": 0},
		},
	}

	result, err := a.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to add comment: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// RemoveComment pulls the comment with the given id. Returns false
// when the post or the comment is missing.
func (a *PostAdapter) RemoveComment(ctx context.Context, postID string, commentID string) (bool, error) {
	filter := bson.M{"_id": postID}
	update := bson.M{"$pull": bson.M{"comments": bson.M{"id": commentID}}}

	result, err := a.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to remove comment: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// =============================================================================
// Conversion Helpers
// =============================================================================

func (a *PostAdapter) toDocument(post *domain.Post) *postDocument {
	likes := make([]likeDocument, len(post.Likes))
	for i, like := range post.Likes {
		likes[i] = likeDocument{UserID: like.UserID.String()}
	}
	comments := make([]commentDocument, len(post.Comments))
	for i, comment := range post.Comments {
		comments[i] = toCommentDocument(comment)
	}

	return &postDocument{
		ID:       post.ID,
		UserID:   post.UserID.String(),
		Text:     post.Text,
		Name:     post.Name,
		Avatar:   post.Avatar,
		Likes:    likes,
		Comments: comments,
		Date:     post.Date,
	}
}

func (a *PostAdapter) toEntity(doc *postDocument) (*domain.Post, error) {
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in post %s: %w", doc.ID, err)
	}

	likes := make([]domain.Like, len(doc.Likes))
	for i, like := range doc.Likes {
		likeUser, err := uuid.Parse(like.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid like user in post %s: %w", doc.ID, err)
		}
		likes[i] = domain.Like{UserID: likeUser}
	}

	comments := make([]domain.Comment, len(doc.Comments))
	for i, comment := range doc.Comments {
		commentUser, err := uuid.Parse(comment.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid comment user in post %s: %w", doc.ID, err)
		}
		comments[i] = domain.Comment{
			ID:     comment.ID,
			UserID: commentUser,
			Text:   comment.Text,
			Name:   comment.Name,
			Avatar: comment.Avatar,
			Date:   comment.Date,
		}
	}

	return &domain.Post{
		ID:       doc.ID,
		UserID:   userID,
		Text:     doc.Text,
		Name:     doc.Name,
		Avatar:   doc.Avatar,
		Likes:    likes,
		Comments: comments,
		Date:     doc.Date,
	}, nil
}

func toCommentDocument(comment domain.Comment) commentDocument {
	return commentDocument{
		ID:     comment.ID,
		UserID: comment.UserID.String(),
		Text:   comment.Text,
		Name:   comment.Name,
		Avatar: comment.Avatar,
		Date:   comment.Date,
	}
}

// =============================================================================
// Interface Compliance
// =============================================================================

var _ out.PostRepository = (*PostAdapter)(nil)
