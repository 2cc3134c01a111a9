package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/officegames/rating-system/models"
	"github.com/officegames/rating-system/repositories"
)

type ratingKey struct {
	gameID   int
	playerID int
}

type fakeRatingRepo struct {
	nextID  int
	ratings map[ratingKey]*models.PlayerRating

	// failOnAddPoints makes the nth AddPoints call fail (1-based, 0 = never).
	failOnAddPoints int
	addPointsCalls  int
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{
		nextID:  1,
		ratings: make(map[ratingKey]*models.PlayerRating),
	}
}

func (f *fakeRatingRepo) GetOrCreateForUpdate(_ context.Context, _ repositories.SQLExecutor, gameID, playerID, startingPoints int) (*models.PlayerRating, error) {
	key := ratingKey{gameID: gameID, playerID: playerID}
	if row, ok := f.ratings[key]; ok {
		return row, nil
	}
	row := &models.PlayerRating{
		ID:        f.nextID,
		GameID:    gameID,
		PlayerID:  playerID,
		Points:    startingPoints,
		UpdatedAt: time.Now(),
	}
	f.nextID++
	f.ratings[key] = row
	return row, nil
}

func (f *fakeRatingRepo) GetByGameAndPlayer(_ context.Context, gameID, playerID int) (*models.PlayerRating, error) {
	if row, ok := f.ratings[ratingKey{gameID: gameID, playerID: playerID}]; ok {
		return row, nil
	}
	return nil, repositories.ErrRatingNotFound
}

func (f *fakeRatingRepo) AddPoints(_ context.Context, _ repositories.SQLExecutor, ratingID, delta int) error {
	f.addPointsCalls++
	if f.failOnAddPoints > 0 && f.addPointsCalls == f.failOnAddPoints {
		return fmt.Errorf("injected failure on AddPoints call %d", f.addPointsCalls)
	}
	for _, row := range f.ratings {
		if row.ID == ratingID {
			row.Points += delta
			row.UpdatedAt = time.Now()
			return nil
		}
	}
	return repositories.ErrRatingNotFound
}

func (f *fakeRatingRepo) ListLeaderboard(_ context.Context, gameID, limit int, cursor *int) ([]models.LeaderboardPosition, error) {
	rows := make([]*models.PlayerRating, 0)
	for _, row := range f.ratings {
		if row.GameID == gameID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].ID < rows[j].ID
	})

	start := 0
	if cursor != nil {
		for i, row := range rows {
			if row.ID == *cursor {
				start = i + 1
				break
			}
		}
	}

	positions := make([]models.LeaderboardPosition, 0, limit)
	for _, row := range rows[start:] {
		if len(positions) == limit {
			break
		}
		positions = append(positions, models.LeaderboardPosition{
			RatingID: row.ID,
			PlayerID: row.PlayerID,
			Name:     fmt.Sprintf("player-%d", row.PlayerID),
			Points:   row.Points,
		})
	}
	return positions, nil
}

func (f *fakeRatingRepo) pointsOf(gameID, playerID int) int {
	row, ok := f.ratings[ratingKey{gameID: gameID, playerID: playerID}]
	if !ok {
		return 0
	}
	return row.Points
}

func (f *fakeRatingRepo) totalPoints() int {
	total := 0
	for _, row := range f.ratings {
		total += row.Points
	}
	return total
}

func (f *fakeRatingRepo) snapshot() map[ratingKey]models.PlayerRating {
	snap := make(map[ratingKey]models.PlayerRating, len(f.ratings))
	for key, row := range f.ratings {
		snap[key] = *row
	}
	return snap
}

func (f *fakeRatingRepo) restore(snap map[ratingKey]models.PlayerRating) {
	f.ratings = make(map[ratingKey]*models.PlayerRating, len(snap))
	for key, row := range snap {
		copied := row
		f.ratings[key] = &copied
	}
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match

	failOnCreate bool
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: make(map[int]*models.Match)}
}

func (f *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	if f.failOnCreate {
		return fmt.Errorf("injected match create failure")
	}
	match.ID = f.nextID
	match.CreatedAt = time.Now()
	f.nextID++
	copied := *match
	f.matches[match.ID] = &copied
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	// The SQL repository rebuilds sides ordered by user id, not by the order
	// the roster was submitted in; mirror that here.
	copied.LeftPlayerIDs = sortedIDs(match.LeftPlayerIDs)
	copied.RightPlayerIDs = sortedIDs(match.RightPlayerIDs)
	return &copied, nil
}

func sortedIDs(ids []int) []int {
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Ints(sorted)
	return sorted
}

func (f *fakeMatchRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := f.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(f.matches, id)
	return nil
}

func (f *fakeMatchRepo) ListByGame(_ context.Context, gameID, limit int) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, match := range f.matches {
		if match.GameID == gameID {
			copied := *match
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID > matches[j].ID })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (f *fakeMatchRepo) snapshot() map[int]models.Match {
	snap := make(map[int]models.Match, len(f.matches))
	for id, match := range f.matches {
		snap[id] = *match
	}
	return snap
}

func (f *fakeMatchRepo) restore(snap map[int]models.Match) {
	f.matches = make(map[int]*models.Match, len(snap))
	for id, match := range snap {
		copied := match
		f.matches[id] = &copied
	}
}

// fakeTxRunner mimics rollback semantics: when fn fails, or the simulated
// commit fails, both stores return to their pre-transaction state.
type fakeTxRunner struct {
	ratings *fakeRatingRepo
	matches *fakeMatchRepo

	commitErr error
}

func (f *fakeTxRunner) RunInTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	var ratingSnap map[ratingKey]models.PlayerRating
	var matchSnap map[int]models.Match
	if f.ratings != nil {
		ratingSnap = f.ratings.snapshot()
	}
	if f.matches != nil {
		matchSnap = f.matches.snapshot()
	}

	err := fn(nil)
	if err == nil && f.commitErr != nil {
		err = fmt.Errorf("failed to commit transaction: %w", f.commitErr)
	}
	if err != nil {
		if f.ratings != nil {
			f.ratings.restore(ratingSnap)
		}
		if f.matches != nil {
			f.matches.restore(matchSnap)
		}
		return err
	}
	return nil
}

type fakeGameRepo struct {
	games map[int]*models.Game
}

func newFakeGameRepo(games ...*models.Game) *fakeGameRepo {
	repo := &fakeGameRepo{games: make(map[int]*models.Game)}
	for _, game := range games {
		repo.games[game.ID] = game
	}
	return repo
}

func (f *fakeGameRepo) GetByID(_ context.Context, id int) (*models.Game, error) {
	game, ok := f.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	return game, nil
}

func (f *fakeGameRepo) ListByOffice(_ context.Context, officeID int) ([]models.Game, error) {
	games := make([]models.Game, 0)
	for _, game := range f.games {
		if game.OfficeID == officeID {
			games = append(games, *game)
		}
	}
	return games, nil
}

func (f *fakeGameRepo) ListOffices(_ context.Context) ([]models.Office, error) {
	return nil, nil
}

type fakeSeasonRepo struct {
	seasons map[int]*models.Season
}

func newFakeSeasonRepo(seasons ...*models.Season) *fakeSeasonRepo {
	repo := &fakeSeasonRepo{seasons: make(map[int]*models.Season)}
	for _, season := range seasons {
		repo.seasons[season.ID] = season
	}
	return repo
}

func (f *fakeSeasonRepo) GetByID(_ context.Context, id int) (*models.Season, error) {
	season, ok := f.seasons[id]
	if !ok {
		return nil, repositories.ErrSeasonNotFound
	}
	return season, nil
}

func (f *fakeSeasonRepo) Create(_ context.Context, season *models.Season) error {
	season.ID = len(f.seasons) + 1
	f.seasons[season.ID] = season
	return nil
}

func (f *fakeSeasonRepo) DetachMatches(_ context.Context, _ repositories.SQLExecutor, _ int) error {
	return nil
}

func (f *fakeSeasonRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := f.seasons[id]; !ok {
		return repositories.ErrSeasonNotFound
	}
	delete(f.seasons, id)
	return nil
}

type fakeUserRepo struct {
	users map[int]*models.User
}

func newFakeUserRepo(ids ...int) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int]*models.User)}
	for _, id := range ids {
		repo.users[id] = &models.User{
			ID:    id,
			Name:  fmt.Sprintf("player-%d", id),
			Email: fmt.Sprintf("player-%d@example.com", id),
			Role:  models.RolePlayer,
		}
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = len(f.users) + 1
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) ListByIDs(_ context.Context, ids []int) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) UpdateImage(_ context.Context, id int, image string) error {
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Image = &image
	return nil
}

type fakeGuestRepo struct {
	guests map[int]*models.Guest
}

func newFakeGuestRepo(guests ...*models.Guest) *fakeGuestRepo {
	repo := &fakeGuestRepo{guests: make(map[int]*models.Guest)}
	for _, guest := range guests {
		repo.guests[guest.ID] = guest
	}
	return repo
}

func (f *fakeGuestRepo) GetByID(_ context.Context, id int) (*models.Guest, error) {
	guest, ok := f.guests[id]
	if !ok {
		return nil, repositories.ErrGuestNotFound
	}
	return guest, nil
}

func (f *fakeGuestRepo) Create(_ context.Context, guest *models.Guest) error {
	guest.ID = len(f.guests) + 1
	f.guests[guest.ID] = guest
	return nil
}

func (f *fakeGuestRepo) Claim(_ context.Context, id, userID int) error {
	guest, ok := f.guests[id]
	if !ok || guest.UserID != nil {
		return repositories.ErrGuestNotFound
	}
	guest.UserID = &userID
	return nil
}
