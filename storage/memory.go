package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"civictrack-be/models"
)

// MemStorage keeps every entity in process memory. Data lives for the
// lifetime of the process; gin serves requests concurrently, so all access
// goes through a single RWMutex.
type MemStorage struct {
	mu sync.RWMutex

	users    map[string]models.User
	issues   map[string]models.Issue
	comments map[string]models.Comment
	votes    map[string]models.Vote
	history  map[string]models.StatusHistory
	follows  map[string]models.Follow

	// insertion order, so scans stay deterministic
	issueOrder   []string
	commentOrder []string
	historyOrder []string

	// (user, issue) pair -> record id, the uniqueness guarantee for
	// votes and follows
	voteKeys   map[string]string
	followKeys map[string]string
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:      make(map[string]models.User),
		issues:     make(map[string]models.Issue),
		comments:   make(map[string]models.Comment),
		votes:      make(map[string]models.Vote),
		history:    make(map[string]models.StatusHistory),
		follows:    make(map[string]models.Follow),
		voteKeys:   make(map[string]string),
		followKeys: make(map[string]string),
	}
}

func pairKey(userID, issueID string) string {
	return fmt.Sprintf("%s|%s", userID, issueID)
}

func copyIssue(issue models.Issue) *models.Issue {
	out := issue
	out.Images = append(make([]string, 0, len(issue.Images)), issue.Images...)
	return &out
}

// Users

func (s *MemStorage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = uuid.NewString()
	user.IsVerified = false
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, ok := s.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (s *MemStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}

func (s *MemStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, nil
}

// Issues

func (s *MemStorage) CreateIssue(ctx context.Context, in models.InsertIssue) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	s.issues[issue.ID] = issue
	s.issueOrder = append(s.issueOrder, issue.ID)

	s.appendHistory(issue.ID, issue.Status, "Issue reported")

	return copyIssue(issue), nil
}

func (s *MemStorage) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if issue, ok := s.issues[id]; ok {
		return copyIssue(issue), nil
	}
	return nil, nil
}

func (s *MemStorage) GetIssuesByFilter(ctx context.Context, f IssueFilter) ([]models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issues := make([]models.Issue, 0)
	for _, id := range s.issueOrder {
		issue := s.issues[id]
		if f.matches(issue) {
			issues = append(issues, *copyIssue(issue))
		}
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].CreatedAt.After(issues[j].CreatedAt)
	})
	return issues, nil
}

func (s *MemStorage) UpdateIssueStatus(ctx context.Context, id string, status models.IssueStatus) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[id]
	if !ok {
		return nil, nil
	}

	issue.Status = status
	issue.UpdatedAt = time.Now()
	s.issues[id] = issue

	s.appendHistory(id, status, fmt.Sprintf("Status changed to %s", status))

	return copyIssue(issue), nil
}

func (s *MemStorage) IncrementUpvotes(ctx context.Context, id string) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[id]
	if !ok {
		return nil, nil
	}
	issue.Upvotes++
	s.issues[id] = issue
	return copyIssue(issue), nil
}

func (s *MemStorage) DecrementUpvotes(ctx context.Context, id string) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[id]
	if !ok {
		return nil, nil
	}
	if issue.Upvotes > 0 {
		issue.Upvotes--
	}
	s.issues[id] = issue
	return copyIssue(issue), nil
}

func (s *MemStorage) IncrementFlagCount(ctx context.Context, id string) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[id]
	if !ok {
		return nil, nil
	}
	issue.FlagCount++
	if issue.FlagCount >= models.FlagHideThreshold {
		issue.IsHidden = true
	}
	s.issues[id] = issue
	return copyIssue(issue), nil
}

// Comments

func (s *MemStorage) GetCommentsByIssueID(ctx context.Context, issueID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]models.Comment, 0)
	for _, id := range s.commentOrder {
		comment := s.comments[id]
		if comment.IssueID == issueID && !comment.IsHidden {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func (s *MemStorage) CreateComment(ctx context.Context, issueID string, in models.InsertComment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment := models.Comment{
		ID:        uuid.NewString(),
		IssueID:   issueID,
		AuthorID:  in.AuthorID,
		Content:   in.Content,
		ParentID:  in.ParentID,
		CreatedAt: time.Now(),
	}
	s.comments[comment.ID] = comment
	s.commentOrder = append(s.commentOrder, comment.ID)
	return &comment, nil
}

func (s *MemStorage) LikeComment(ctx context.Context, id string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, nil
	}
	comment.Likes++
	s.comments[id] = comment
	return &comment, nil
}

func (s *MemStorage) FlagComment(ctx context.Context, id string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, nil
	}
	comment.FlagCount++
	if comment.FlagCount >= models.FlagHideThreshold {
		comment.IsHidden = true
	}
	s.comments[id] = comment
	return &comment, nil
}

// Votes

func (s *MemStorage) GetVoteByUserAndIssue(ctx context.Context, userID, issueID string) (*models.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.voteKeys[pairKey(userID, issueID)]; ok {
		vote := s.votes[id]
		return &vote, nil
	}
	return nil, nil
}

func (s *MemStorage) CreateVote(ctx context.Context, issueID, userID string, voteType models.VoteType) (*models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(userID, issueID)
	if old, ok := s.voteKeys[key]; ok {
		delete(s.votes, old)
	}

	vote := models.Vote{
		ID:        uuid.NewString(),
		IssueID:   issueID,
		UserID:    userID,
		Type:      voteType,
		CreatedAt: time.Now(),
	}
	s.votes[vote.ID] = vote
	s.voteKeys[key] = vote.ID
	return &vote, nil
}

func (s *MemStorage) DeleteVote(ctx context.Context, userID, issueID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(userID, issueID)
	id, ok := s.voteKeys[key]
	if !ok {
		return false, nil
	}
	delete(s.votes, id)
	delete(s.voteKeys, key)
	return true, nil
}

// Status history

func (s *MemStorage) GetStatusHistoryByIssueID(ctx context.Context, issueID string) ([]models.StatusHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.StatusHistory, 0)
	for _, id := range s.historyOrder {
		entry := s.history[id]
		if entry.IssueID == issueID {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s *MemStorage) CreateStatusHistory(ctx context.Context, issueID string, status models.IssueStatus, description string) (*models.StatusHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.appendHistory(issueID, status, description)
	return &entry, nil
}

// appendHistory requires s.mu to be held for writing.
func (s *MemStorage) appendHistory(issueID string, status models.IssueStatus, description string) models.StatusHistory {
	entry := models.StatusHistory{
		ID:          uuid.NewString(),
		IssueID:     issueID,
		Status:      status,
		Description: description,
		CreatedAt:   time.Now(),
	}
	s.history[entry.ID] = entry
	s.historyOrder = append(s.historyOrder, entry.ID)
	return entry
}

// Follows

func (s *MemStorage) GetFollowByUserAndIssue(ctx context.Context, userID, issueID string) (*models.Follow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.followKeys[pairKey(userID, issueID)]; ok {
		follow := s.follows[id]
		return &follow, nil
	}
	return nil, nil
}

func (s *MemStorage) CreateFollow(ctx context.Context, issueID, userID string) (*models.Follow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(userID, issueID)
	if old, ok := s.followKeys[key]; ok {
		follow := s.follows[old]
		return &follow, nil
	}

	follow := models.Follow{
		ID:        uuid.NewString(),
		IssueID:   issueID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	s.follows[follow.ID] = follow
	s.followKeys[key] = follow.ID
	return &follow, nil
}

func (s *MemStorage) DeleteFollow(ctx context.Context, userID, issueID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(userID, issueID)
	id, ok := s.followKeys[key]
	if !ok {
		return false, nil
	}
	delete(s.follows, id)
	delete(s.followKeys, key)
	return true, nil
}
