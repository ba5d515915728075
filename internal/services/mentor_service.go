package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/cache"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
)

// MentorService serves the mentor directory. Reads go through the snapshot
// cache when one is configured and fall back to the store otherwise.
type MentorService struct {
	users repository.UserStore
	cache *cache.MentorCache
}

// NewMentorService creates a new MentorService. cache may be nil, in which
// case every listing hits the store.
func NewMentorService(users repository.UserStore, mentorCache *cache.MentorCache) *MentorService {
	return &MentorService{
		users: users,
		cache: mentorCache,
	}
}

// ListMentors returns the mentor directory narrowed and ordered by the
// filter. The snapshot from the cache is never mutated; filtering and
// sorting work on a copy.
func (s *MentorService) ListMentors(ctx context.Context, filter models.MentorFilter) ([]*models.User, error) {
	start := time.Now()

	mentors, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := filterMentors(mentors, filter.Skill)
	sortMentors(result, filter)

	logger.Debug("Listed mentors",
		zap.Int("total", len(mentors)),
		zap.Int("matched", len(result)),
		zap.String("skill", filter.Skill),
		zap.String("sort", string(filter.Sort)),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

func (s *MentorService) snapshot(ctx context.Context) ([]*models.User, error) {
	if s.cache != nil {
		if mentors, ok := s.cache.Get(); ok {
			return mentors, nil
		}
	}

	mentors, err := s.users.ListMentors(ctx)
	if err != nil {
		logger.Error("Failed to list mentors", zap.Error(err))
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	return mentors, nil
}

// filterMentors keeps mentors with at least one skill containing the query,
// case-insensitively. An empty query keeps everyone.
func filterMentors(mentors []*models.User, skill string) []*models.User {
	query := strings.ToLower(strings.TrimSpace(skill))
	result := make([]*models.User, 0, len(mentors))
	for _, m := range mentors {
		if query == "" || skillRank(m, query) >= 0 {
			result = append(result, m)
		}
	}
	return result
}

// skillRank returns the index of the first skill matching the query, or -1
// when none match. A lower index means the mentor lists the skill more
// prominently.
func skillRank(m *models.User, query string) int {
	for i, s := range m.Profile.Skills {
		if strings.Contains(strings.ToLower(s), query) {
			return i
		}
	}
	return -1
}

func sortMentors(mentors []*models.User, filter models.MentorFilter) {
	switch filter.Sort {
	case models.MentorSortName:
		sort.SliceStable(mentors, func(i, j int) bool {
			return strings.ToLower(mentors[i].Profile.Name) < strings.ToLower(mentors[j].Profile.Name)
		})
	case models.MentorSortSkill:
		query := strings.ToLower(strings.TrimSpace(filter.Skill))
		if query == "" {
			// Without a skill to rank by this degenerates to name order
			sortMentors(mentors, models.MentorFilter{Sort: models.MentorSortName})
			return
		}
		sort.SliceStable(mentors, func(i, j int) bool {
			ri, rj := skillRank(mentors[i], query), skillRank(mentors[j], query)
			if ri != rj {
				return ri < rj
			}
			return strings.ToLower(mentors[i].Profile.Name) < strings.ToLower(mentors[j].Profile.Name)
		})
	default:
		// Store order, by id
	}
}

// InvalidateCache drops the directory snapshot after a mentor's profile
// changes so the next listing reflects it.
func (s *MentorService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
