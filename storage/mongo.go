package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civictrack-be/models"
)

// MongoStorage is the persistent Storage implementation. It keeps the same
// semantics as MemStorage; (user, issue) uniqueness for votes and follows is
// additionally backed by unique compound indexes.
type MongoStorage struct {
	db *mongo.Database
}

func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{db: db}
}

func (s *MongoStorage) users() *mongo.Collection    { return s.db.Collection("users") }
func (s *MongoStorage) issues() *mongo.Collection   { return s.db.Collection("issues") }
func (s *MongoStorage) comments() *mongo.Collection { return s.db.Collection("comments") }
func (s *MongoStorage) votes() *mongo.Collection    { return s.db.Collection("votes") }
func (s *MongoStorage) history() *mongo.Collection  { return s.db.Collection("statusHistory") }
func (s *MongoStorage) follows() *mongo.Collection  { return s.db.Collection("follows") }

// EnsureIndexes creates the unique compound indexes that back the
// one-record-per-(user, issue) guarantee for votes and follows.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	pair := mongo.IndexModel{
		Keys:    bson.D{{Key: "issueId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.votes().Indexes().CreateOne(ctx, pair); err != nil {
		return fmt.Errorf("votes index: %w", err)
	}
	if _, err := s.follows().Indexes().CreateOne(ctx, pair); err != nil {
		return fmt.Errorf("follows index: %w", err)
	}
	byIssue := mongo.IndexModel{
		Keys: bson.D{{Key: "issueId", Value: 1}, {Key: "createdAt", Value: 1}},
	}
	if _, err := s.history().Indexes().CreateOne(ctx, byIssue); err != nil {
		return fmt.Errorf("statusHistory index: %w", err)
	}
	return nil
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	err := col.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Users

func (s *MongoStorage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	user.ID = uuid.NewString()
	user.IsVerified = false
	user.CreatedAt = time.Now()
	if _, err := s.users().InsertOne(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.users(), bson.M{"_id": id})
}

func (s *MongoStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return findOne[models.User](ctx, s.users(), bson.M{"username": username})
}

func (s *MongoStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.users(), bson.M{"email": email})
}

// Issues

func (s *MongoStorage) CreateIssue(ctx context.Context, in models.InsertIssue) (*models.Issue, error) {
	status := models.Reported
	if in.Status != "" {
		status = models.IssueStatus(in.Status)
	}

	now := time.Now()
	issue := models.Issue{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Category:    models.IssueCategory(in.Category),
		Status:      status,
		Latitude:    *in.Latitude,
		Longitude:   *in.Longitude,
		Address:     in.Address,
		Images:      append(make([]string, 0, len(in.Images)), in.Images...),
		ReporterID:  in.ReporterID,
		IsAnonymous: in.IsAnonymous,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.issues().InsertOne(ctx, issue); err != nil {
		return nil, err
	}
	if _, err := s.CreateStatusHistory(ctx, issue.ID, issue.Status, "Issue reported"); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (s *MongoStorage) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	return findOne[models.Issue](ctx, s.issues(), bson.M{"_id": id})
}

func (s *MongoStorage) GetIssuesByFilter(ctx context.Context, f IssueFilter) ([]models.Issue, error) {
	filter := bson.M{"isHidden": false}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.issues().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var fetched []models.Issue
	if err := cursor.All(ctx, &fetched); err != nil {
		return nil, err
	}

	// Radius filtering happens here rather than in the query; the dataset
	// is already narrowed by category/status and coordinates are stored as
	// plain fields, not a geo index.
	issues := make([]models.Issue, 0, len(fetched))
	for _, issue := range fetched {
		if f.matches(issue) {
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

func (s *MongoStorage) UpdateIssueStatus(ctx context.Context, id string, status models.IssueStatus) (*models.Issue, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}

	var issue models.Issue
	err := s.issues().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, after).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.CreateStatusHistory(ctx, id, status, fmt.Sprintf("Status changed to %s", status)); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (s *MongoStorage) IncrementUpvotes(ctx context.Context, id string) (*models.Issue, error) {
	return s.adjustUpvotes(ctx, bson.M{"_id": id}, 1)
}

func (s *MongoStorage) DecrementUpvotes(ctx context.Context, id string) (*models.Issue, error) {
	// The zero floor: only decrement a positive counter, otherwise return
	// the record unchanged.
	issue, err := s.adjustUpvotes(ctx, bson.M{"_id": id, "upvotes": bson.M{"$gt": 0}}, -1)
	if err != nil || issue != nil {
		return issue, err
	}
	return s.GetIssue(ctx, id)
}

func (s *MongoStorage) adjustUpvotes(ctx context.Context, filter bson.M, delta int) (*models.Issue, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var issue models.Issue
	err := s.issues().FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"upvotes": delta}}, after).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (s *MongoStorage) IncrementFlagCount(ctx context.Context, id string) (*models.Issue, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var issue models.Issue
	err := s.issues().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"flagCount": 1}}, after).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if issue.FlagCount >= models.FlagHideThreshold && !issue.IsHidden {
		if _, err := s.issues().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isHidden": true}}); err != nil {
			return nil, err
		}
		issue.IsHidden = true
	}
	return &issue, nil
}

// Comments

func (s *MongoStorage) GetCommentsByIssueID(ctx context.Context, issueID string) ([]models.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.comments().Find(ctx, bson.M{"issueId": issueID, "isHidden": false}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := make([]models.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *MongoStorage) CreateComment(ctx context.Context, issueID string, in models.InsertComment) (*models.Comment, error) {
	comment := models.Comment{
		ID:        uuid.NewString(),
		IssueID:   issueID,
		AuthorID:  in.AuthorID,
		Content:   in.Content,
		ParentID:  in.ParentID,
		CreatedAt: time.Now(),
	}
	if _, err := s.comments().InsertOne(ctx, comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *MongoStorage) LikeComment(ctx context.Context, id string) (*models.Comment, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var comment models.Comment
	err := s.comments().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"likes": 1}}, after).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *MongoStorage) FlagComment(ctx context.Context, id string) (*models.Comment, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var comment models.Comment
	err := s.comments().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"flagCount": 1}}, after).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if comment.FlagCount >= models.FlagHideThreshold && !comment.IsHidden {
		if _, err := s.comments().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isHidden": true}}); err != nil {
			return nil, err
		}
		comment.IsHidden = true
	}
	return &comment, nil
}

// Votes

func (s *MongoStorage) GetVoteByUserAndIssue(ctx context.Context, userID, issueID string) (*models.Vote, error) {
	return findOne[models.Vote](ctx, s.votes(), bson.M{"userId": userID, "issueId": issueID})
}

func (s *MongoStorage) CreateVote(ctx context.Context, issueID, userID string, voteType models.VoteType) (*models.Vote, error) {
	// Replace any existing vote for the pair; the unique index catches
	// concurrent inserts.
	if _, err := s.votes().DeleteMany(ctx, bson.M{"userId": userID, "issueId": issueID}); err != nil {
		return nil, err
	}

	vote := models.Vote{
		ID:        uuid.NewString(),
		IssueID:   issueID,
		UserID:    userID,
		Type:      voteType,
		CreatedAt: time.Now(),
	}
	if _, err := s.votes().InsertOne(ctx, vote); err != nil {
		return nil, err
	}
	return &vote, nil
}

func (s *MongoStorage) DeleteVote(ctx context.Context, userID, issueID string) (bool, error) {
	res, err := s.votes().DeleteOne(ctx, bson.M{"userId": userID, "issueId": issueID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// Status history

func (s *MongoStorage) GetStatusHistoryByIssueID(ctx context.Context, issueID string) ([]models.StatusHistory, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.history().Find(ctx, bson.M{"issueId": issueID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]models.StatusHistory, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *MongoStorage) CreateStatusHistory(ctx context.Context, issueID string, status models.IssueStatus, description string) (*models.StatusHistory, error) {
	entry := models.StatusHistory{
		ID:          uuid.NewString(),
		IssueID:     issueID,
		Status:      status,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if _, err := s.history().InsertOne(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Follows

func (s *MongoStorage) GetFollowByUserAndIssue(ctx context.Context, userID, issueID string) (*models.Follow, error) {
	return findOne[models.Follow](ctx, s.follows(), bson.M{"userId": userID, "issueId": issueID})
}

func (s *MongoStorage) CreateFollow(ctx context.Context, issueID, userID string) (*models.Follow, error) {
	if existing, err := s.GetFollowByUserAndIssue(ctx, userID, issueID); err != nil || existing != nil {
		return existing, err
	}

	follow := models.Follow{
		ID:        uuid.NewString(),
		IssueID:   issueID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if _, err := s.follows().InsertOne(ctx, follow); err != nil {
		return nil, err
	}
	return &follow, nil
}

func (s *MongoStorage) DeleteFollow(ctx context.Context, userID, issueID string) (bool, error) {
	res, err := s.follows().DeleteOne(ctx, bson.M{"userId": userID, "issueId": issueID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
