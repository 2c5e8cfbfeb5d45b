package access

import (
	"strconv"
	"strings"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
)

// Recognized list query parameters
const (
	ParamSearch    = "search"
	ParamStatus    = "status"
	ParamGenre     = "genre"
	ParamPlatform  = "platform"
	ParamMinRating = "min_rating"
	ParamMinHours  = "min_hours"
)

// GameCriteria is the owner-agnostic result of compiling list parameters.
// A nil set means "any value"; a non-nil empty set matches nothing.
type GameCriteria struct {
	Search      string
	Statuses    []models.GameStatus
	GenreIDs    []uint
	PlatformIDs []uint
	MinRating   *int
	MinHours    *int
}

// GamePredicate is a GameCriteria bound to the owner whose games may be listed
type GamePredicate struct {
	OwnerID  uint
	Criteria GameCriteria
}

// CompileGameFilter turns raw query parameters into criteria. It never fails:
// unusable list values narrow to nothing, unusable thresholds are ignored.
func CompileGameFilter(params map[string]string) GameCriteria {
	var criteria GameCriteria

	if search, ok := param(params, ParamSearch); ok {
		criteria.Search = search
	}
	if raw, ok := param(params, ParamStatus); ok {
		criteria.Statuses = parseStatuses(raw)
	}
	if raw, ok := param(params, ParamGenre); ok {
		criteria.GenreIDs = parseIDs(raw)
	}
	if raw, ok := param(params, ParamPlatform); ok {
		criteria.PlatformIDs = parseIDs(raw)
	}
	if raw, ok := param(params, ParamMinRating); ok {
		criteria.MinRating = parseThreshold(raw)
	}
	if raw, ok := param(params, ParamMinHours); ok {
		criteria.MinHours = parseThreshold(raw)
	}

	return criteria
}

// OwnedBy scopes the criteria to a single owner
func (c GameCriteria) OwnedBy(ownerID uint) GamePredicate {
	return GamePredicate{OwnerID: ownerID, Criteria: c}
}

// MatchesNothing reports whether some list dimension was narrowed to an empty set
func (c GameCriteria) MatchesNothing() bool {
	return emptyNonNil(c.Statuses) || emptyNonNil(c.GenreIDs) || emptyNonNil(c.PlatformIDs)
}

// Matches evaluates the predicate against a single game
func (p GamePredicate) Matches(g *models.Game) bool {
	if g == nil || g.OwnerID != p.OwnerID {
		return false
	}

	c := p.Criteria
	if c.Search != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(c.Search)) {
		return false
	}
	if c.Statuses != nil && !contains(c.Statuses, g.Status) {
		return false
	}
	if c.GenreIDs != nil && !contains(c.GenreIDs, g.GenreID) {
		return false
	}
	if c.PlatformIDs != nil && !contains(c.PlatformIDs, g.PlatformID) {
		return false
	}
	if c.MinRating != nil && (g.Rating == nil || *g.Rating < *c.MinRating) {
		return false
	}
	if c.MinHours != nil && g.HoursPlayed < *c.MinHours {
		return false
	}
	return true
}

// param returns the value for key; blank values count as absent
func param(params map[string]string, key string) (string, bool) {
	value, ok := params[key]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		tokens = append(tokens, strings.TrimSpace(part))
	}
	return tokens
}

func parseStatuses(raw string) []models.GameStatus {
	statuses := make([]models.GameStatus, 0)
	for _, token := range splitList(raw) {
		status, err := models.ParseGameStatus(token)
		if err != nil {
			continue
		}
		if !contains(statuses, status) {
			statuses = append(statuses, status)
		}
	}
	return statuses
}

func parseIDs(raw string) []uint {
	ids := make([]uint, 0)
	for _, token := range splitList(raw) {
		id, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			continue
		}
		if !contains(ids, uint(id)) {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

func parseThreshold(raw string) *int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &value
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func emptyNonNil[T any](values []T) bool {
	return values != nil && len(values) == 0
}
