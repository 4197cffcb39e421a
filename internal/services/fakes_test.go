package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/fitstride/fitstride-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes standing in for the Mongo repositories.

type fakeStatsRepo struct {
	docs         map[string]*models.Stats
	incrementErr error
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{docs: make(map[string]*models.Stats)}
}

func statsKey(userID primitive.ObjectID, period string) string {
	return userID.Hex() + "|" + period
}

func (f *fakeStatsRepo) Increment(_ context.Context, userID primitive.ObjectID, period string, delta models.StatsDelta) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	doc, ok := f.docs[statsKey(userID, period)]
	if !ok {
		doc = &models.Stats{UserID: userID, Period: period}
		f.docs[statsKey(userID, period)] = doc
	}
	doc.TotalMiles += delta.Miles
	doc.TotalRuns += delta.Runs
	doc.TotalTimeSeconds += delta.Seconds
	doc.LastUpdated = time.Now()
	return nil
}

func (f *fakeStatsRepo) Get(_ context.Context, userID primitive.ObjectID, period string) (*models.Stats, error) {
	doc, ok := f.docs[statsKey(userID, period)]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

type fakeBoardRepo struct {
	entries map[string]*models.LeaderboardEntry
	order   []string
	err     error
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{entries: make(map[string]*models.LeaderboardEntry)}
}

func boardKey(period string, userID primitive.ObjectID) string {
	return period + "|" + userID.Hex()
}

func (f *fakeBoardRepo) IncrementEntry(_ context.Context, period string, userID primitive.ObjectID, miles float64, displayName, photoURL string) error {
	if f.err != nil {
		return f.err
	}
	key := boardKey(period, userID)
	entry, ok := f.entries[key]
	if !ok {
		entry = &models.LeaderboardEntry{Period: period, UserID: userID}
		f.entries[key] = entry
		f.order = append(f.order, key)
	}
	entry.TotalMiles += miles
	if displayName != "" {
		entry.DisplayName = displayName
	}
	if photoURL != "" {
		entry.PhotoURL = photoURL
	}
	return nil
}

func (f *fakeBoardRepo) periodEntries(period string) []models.LeaderboardEntry {
	var out []models.LeaderboardEntry
	for _, key := range f.order {
		entry := f.entries[key]
		if entry.Period == period {
			out = append(out, *entry)
		}
	}
	return out
}

func (f *fakeBoardRepo) TopEntries(_ context.Context, period string, limit int64) ([]models.LeaderboardEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	entries := f.periodEntries(period)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalMiles > entries[j].TotalMiles
	})
	if int64(len(entries)) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeBoardRepo) EntriesForUsers(_ context.Context, period string, userIDs []primitive.ObjectID) ([]models.LeaderboardEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[primitive.ObjectID]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}
	var out []models.LeaderboardEntry
	for _, entry := range f.periodEntries(period) {
		if _, ok := wanted[entry.UserID]; ok {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListUserIDs(_ context.Context) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
	return ids, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	user, ok := f.users[id]
	if !ok {
		return errors.New("user not found")
	}
	if v, ok := fields["display_name"]; ok {
		user.DisplayName = v.(string)
	}
	if v, ok := fields["photo_url"]; ok {
		user.PhotoURL = v.(string)
	}
	return nil
}

func (f *fakeUserRepo) UpdateLastActive(_ context.Context, id primitive.ObjectID) error {
	if user, ok := f.users[id]; ok {
		user.LastActive = time.Now()
	}
	return nil
}

type fakeActivityRepo struct {
	activities map[primitive.ObjectID]*models.Activity
	order      []primitive.ObjectID
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{activities: make(map[primitive.ObjectID]*models.Activity)}
}

func (f *fakeActivityRepo) Create(_ context.Context, activity *models.Activity) (*models.Activity, error) {
	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = time.Now()
	stored := *activity
	f.activities[activity.ID] = &stored
	f.order = append(f.order, activity.ID)
	return activity, nil
}

func (f *fakeActivityRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Activity, error) {
	activity, ok := f.activities[id]
	if !ok {
		return nil, nil
	}
	copied := *activity
	return &copied, nil
}

func (f *fakeActivityRepo) Update(_ context.Context, activity *models.Activity) error {
	stored, ok := f.activities[activity.ID]
	if !ok {
		return errors.New("activity not found")
	}
	updated := *activity
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	f.activities[activity.ID] = &updated
	return nil
}

func (f *fakeActivityRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.activities, id)
	return nil
}

func (f *fakeActivityRepo) ListByUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	var out []models.Activity
	for _, id := range f.order {
		activity, ok := f.activities[id]
		if !ok || activity.UserID != userID {
			continue
		}
		out = append(out, *activity)
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) ListUnmigrated(_ context.Context, userID primitive.ObjectID) ([]models.Activity, error) {
	var out []models.Activity
	for _, id := range f.order {
		activity, ok := f.activities[id]
		if !ok || activity.UserID != userID {
			continue
		}
		if activity.PeriodKey == "" || activity.Year == 0 {
			out = append(out, *activity)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) StampMigration(_ context.Context, id primitive.ObjectID, periodKey string, year int, migratedAt time.Time) error {
	activity, ok := f.activities[id]
	if !ok {
		return errors.New("activity not found")
	}
	activity.PeriodKey = periodKey
	activity.Year = year
	activity.MigratedAt = &migratedAt
	return nil
}

type fakeFriendRepo struct {
	requests map[primitive.ObjectID]*models.FriendRequest
	order    []primitive.ObjectID
}

func newFakeFriendRepo() *fakeFriendRepo {
	return &fakeFriendRepo{requests: make(map[primitive.ObjectID]*models.FriendRequest)}
}

func (f *fakeFriendRepo) Create(_ context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	req.ID = primitive.NewObjectID()
	stored := *req
	f.requests[req.ID] = &stored
	f.order = append(f.order, req.ID)
	return req, nil
}

func (f *fakeFriendRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *req
	return &copied, nil
}

func (f *fakeFriendRepo) GetByPairKey(_ context.Context, pairKey string) (*models.FriendRequest, error) {
	for _, id := range f.order {
		if req, ok := f.requests[id]; ok && req.PairKey == pairKey {
			copied := *req
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeFriendRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) error {
	req, ok := f.requests[id]
	if !ok {
		return errors.New("request not found")
	}
	req.Status = status
	req.UpdatedAt = time.Now()
	return nil
}

func (f *fakeFriendRepo) listByFilter(match func(*models.FriendRequest) bool) []models.FriendRequest {
	var out []models.FriendRequest
	for _, id := range f.order {
		if req, ok := f.requests[id]; ok && match(req) {
			out = append(out, *req)
		}
	}
	return out
}

func (f *fakeFriendRepo) ListAcceptedByRequester(_ context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return f.listByFilter(func(req *models.FriendRequest) bool {
		return req.RequesterID == userID && req.Status == models.FriendStatusAccepted
	}), nil
}

func (f *fakeFriendRepo) ListAcceptedByReceiver(_ context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return f.listByFilter(func(req *models.FriendRequest) bool {
		return req.ReceiverID == userID && req.Status == models.FriendStatusAccepted
	}), nil
}

func (f *fakeFriendRepo) ListPendingReceived(_ context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return f.listByFilter(func(req *models.FriendRequest) bool {
		return req.ReceiverID == userID && req.Status == models.FriendStatusPending
	}), nil
}
