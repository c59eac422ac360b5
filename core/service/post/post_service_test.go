package post

import (
	"context"
	"sync"
	"testing"

	"devconnect_server/core/domain"
	"devconnect_server/core/port/in"
	"devconnect_server/pkg/apperr"

	"github.com/google/uuid"
)

// =============================================================================
// In-memory fakes
// =============================================================================

// fakePostRepo mirrors the guarded update semantics of the real
// adapter: mutations are atomic under a single lock and the like guard
// is evaluated inside the critical section.
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*domain.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*domain.Post)}
}

func (r *fakePostRepo) GetByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	clone := *post
	clone.Likes = append([]domain.Like(nil), post.Likes...)
	clone.Comments = append([]domain.Comment(nil), post.Comments...)
	return &clone, nil
}

func (r *fakePostRepo) List(_ context.Context) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var posts []*domain.Post
	for _, p := range r.posts {
		clone := *p
		posts = append(posts, &clone)
	}
	return posts, nil
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.posts {
		if p.UserID == userID {
			delete(r.posts, id)
		}
	}
	return nil
}

func (r *fakePostRepo) AddLike(_ context.Context, postID string, like domain.Like) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return false, nil
	}
	for _, l := range post.Likes {
		if l.UserID == like.UserID {
			return false, nil
		}
	}
	post.Likes = append([]domain.Like{like}, post.Likes...)
	return true, nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, postID string, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return false, nil
	}
	for i, l := range post.Likes {
		if l.UserID == userID {
			post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) AddComment(_ context.Context, postID string, comment domain.Comment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return false, nil
	}
	post.Comments = append([]domain.Comment{comment}, post.Comments...)
	return true, nil
}

func (r *fakePostRepo) RemoveComment(_ context.Context, postID string, commentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[postID]
	if !ok {
		return false, nil
	}
	for i, c := range post.Comments {
		if c.ID == commentID {
			post.Comments = append(post.Comments[:i], post.Comments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[uuid.UUID]*domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result[id] = u
		}
	}
	return result, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func newTestUser(name string) *domain.User {
	return &domain.User{
		ID:     uuid.New(),
		Name:   name,
		Email:  name + "@example.com",
		Avatar: "https://www.gravatar.com/avatar/" + name,
	}
}

// =============================================================================
// Post CRUD
// =============================================================================

func TestCreatePost(t *testing.T) {
	author := newTestUser("alice")
	svc := NewService(newFakePostRepo(), newFakeUserRepo(author))

	post, err := svc.Create(context.Background(), author.ID, &in.CreatePostRequest{Text: "hello world"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if post.Text != "hello world" {
		t.Errorf("text = %q, want %q", post.Text, "hello world")
	}
	if post.Name != author.Name || post.Avatar != author.Avatar {
		t.Errorf("author snapshot = (%q, %q), want (%q, %q)", post.Name, post.Avatar, author.Name, author.Avatar)
	}
	if post.UserID != author.ID {
		t.Errorf("user id = %v, want %v", post.UserID, author.ID)
	}
	if len(post.Likes) != 0 || len(post.Comments) != 0 {
		t.Errorf("new post should have no likes or comments")
	}
	if post.ID == "" {
		t.Error("post id should be assigned")
	}
}

func TestCreatePostValidation(t *testing.T) {
	author := newTestUser("alice")
	svc := NewService(newFakePostRepo(), newFakeUserRepo(author))

	_, err := svc.Create(context.Background(), author.ID, &in.CreatePostRequest{Text: "   "})
	if !apperr.IsCode(err, apperr.CodeValidationFailed) {
		t.Fatalf("err = %v, want VALIDATION_FAILED", err)
	}
}

func TestGetPostNotFound(t *testing.T) {
	author := newTestUser("alice")
	svc := NewService(newFakePostRepo(), newFakeUserRepo(author))

	_, err := svc.Get(context.Background(), uuid.NewString())
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestDeletePostForbiddenForNonAuthor(t *testing.T) {
	author := newTestUser("alice")
	other := newTestUser("bob")
	repo := newFakePostRepo()
	svc := NewService(repo, newFakeUserRepo(author, other))

	post, err := svc.Create(context.Background(), author.ID, &in.CreatePostRequest{Text: "mine"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), other.ID, post.ID); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}

	// The author can delete, and the post stays intact until then.
	if err := svc.Delete(context.Background(), author.ID, post.ID); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), post.ID); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("post should be gone, got %v", err)
	}
}

// =============================================================================
// Likes
// =============================================================================

func TestLikeAndUnlike(t *testing.T) {
	author := newTestUser("alice")
	fan := newTestUser("bob")
	svc := NewService(newFakePostRepo(), newFakeUserRepo(author, fan))

	post, err := svc.Create(context.Background(), author.ID, &in.CreatePostRequest{Text: "likeable"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	likes, err := svc.Like(context.Background(), fan.ID, post.ID)
	if err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if len(likes) != 1 || likes[0].UserID != fan.ID {
		t.Fatalf("likes = %v, want one like from %v", likes, fan.ID)
	}

	// A second like from the same user must be rejected.
	if _, err := svc.Like(context.Background(), fan.ID, post.ID); !apperr.IsCode(err, apperr.CodeAlreadyLiked) {
		t.Fatalf("err = %v, want ALREADY_LIKED", err)
	}

	likes, err = svc.Unlike(context.Background(), fan.ID, post.ID)
	if err != nil {
		t.Fatalf("Unlike failed: %v", err)
	}
	if len(likes) != 0 {
		t.Fatalf("likes = %v, want empty", likes)
	}

	if _, err := svc.Unlike(context.Background(), fan.ID, post.ID); !apperr.IsCode(err, apperr.CodeNotLiked) {
		t.Fatalf("err = %v, want NOT_LIKED", err)
	}
}

// vanishingPostRepo drops the post underneath a like mutation, the way
// a concurrent delete would between the pre-check and the update.
type vanishingPostRepo struct {
	*fakePostRepo
}

func (r *vanishingPostRepo) AddLike(ctx context.Context, postID string, like domain.Like) (bool, error) {
	_ = r.fakePostRepo.Delete(ctx, postID)
	return false, nil
}

func (r *vanishingPostRepo) RemoveLike(ctx context.Context, postID string, userID uuid.UUID) (bool, error) {
	_ = r.fakePostRepo.Delete(ctx, postID)
	return false, nil
}

func TestLikeOnConcurrentlyDeletedPost(t *testing.T) {
	author := newTestUser("alice")
	fan := newTestUser("bob")
	repo := newFakePostRepo()
	users := newFakeUserRepo(author, fan)

	setup := NewService(repo, users)
	post, err := setup.Create(context.Background(), author.ID, &in.CreatePostRequest{Text: "fleeting"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	svc := NewService(&vanishingPostRepo{fakePostRepo: repo}, users)

	// A like whose guard misses because the post vanished must report
	// the missing post, not a like conflict.
	if _, err := svc.Like(context.Background(), fan.ID, post.ID); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("Like err = %v, want NOT_FOUND", err)
	}

	post, err = setup.Create(context.Background(), author.ID, &in.CreatePostRequest{Text: "fleeting again"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Unlike(context.Background(), fan.ID, post.ID); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("Unlike err = %v, want NOT_FOUND", err)
	}
}

func TestConcurrentLikesFromDistinctUsers(t *testing.T) {
	author := newTestUser("alice")
	users := []*domain.User{author}
	for i := 0; i < 16; i++ {
		users = append(users, newTestUser("fan"))
	}
	svc := NewService(newFakePostRepo(), newFakeUserRepo(users...))

	post, err := svc.Create(context.Background(), author.ID, &in.CreatePostRequest{Text: "popular"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(users))
	for _, u := range users[1:] {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			if _, err := svc.Like(context.Background(), userID, post.ID); err != nil {
				errs <- err
			}
		}(u.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent like failed: %v", err)
	}

	got, err := svc.Get(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Likes) != 16 {
		t.Fatalf("likes = %d, want 16", len(got.Likes))
	}
}

// =============================================================================
// Comments
// =============================================================================

func TestCommentsNewestFirst(t *testing.T) {
	author := newTestUser("alice")
	svc := NewService(newFakePostRepo(), newFakeUserRepo(author))

	post, err := svc.Create(context.Background(), author.ID, &in.CreatePostRequest{Text: "discuss"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.AddComment(context.Background(), author.ID, post.ID, &in.CommentRequest{Text: "first"}); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	comments, err := svc.AddComment(context.Background(), author.ID, post.ID, &in.CommentRequest{Text: "second"})
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(comments))
	}
	if comments[0].Text != "second" || comments[1].Text != "first" {
		t.Errorf("comments not newest-first: %q then %q", comments[0].Text, comments[1].Text)
	}
}

func TestRemoveCommentKeyedOnID(t *testing.T) {
	author := newTestUser("alice")
	other := newTestUser("bob")
	svc := NewService(newFakePostRepo(), newFakeUserRepo(author, other))

	post, err := svc.Create(context.Background(), author.ID, &in.CreatePostRequest{Text: "discuss"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.AddComment(context.Background(), other.ID, post.ID, &in.CommentRequest{Text: "from bob"}); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	comments, err := svc.AddComment(context.Background(), author.ID, post.ID, &in.CommentRequest{Text: "from alice"})
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	// Alice's comment is newest, bob's sits behind it. Removing alice's
	// by id must not touch bob's even though bob commented first.
	var aliceComment domain.Comment
	for _, c := range comments {
		if c.UserID == author.ID {
			aliceComment = c
		}
	}

	remaining, err := svc.RemoveComment(context.Background(), author.ID, post.ID, aliceComment.ID)
	if err != nil {
		t.Fatalf("RemoveComment failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].UserID != other.ID {
		t.Fatalf("remaining = %v, want only bob's comment", remaining)
	}
}

func TestRemoveCommentForbiddenForNonOwner(t *testing.T) {
	author := newTestUser("alice")
	other := newTestUser("bob")
	svc := NewService(newFakePostRepo(), newFakeUserRepo(author, other))

	post, err := svc.Create(context.Background(), author.ID, &in.CreatePostRequest{Text: "discuss"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	comments, err := svc.AddComment(context.Background(), author.ID, post.ID, &in.CommentRequest{Text: "mine"})
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	if _, err := svc.RemoveComment(context.Background(), other.ID, post.ID, comments[0].ID); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}
}

func TestRemoveMissingCommentNotFound(t *testing.T) {
	author := newTestUser("alice")
	svc := NewService(newFakePostRepo(), newFakeUserRepo(author))

	post, err := svc.Create(context.Background(), author.ID, &in.CreatePostRequest{Text: "discuss"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.RemoveComment(context.Background(), author.ID, post.ID, uuid.NewString()); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}
