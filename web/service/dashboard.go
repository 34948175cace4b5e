package service

import (
	"github.com/libdesk/libdesk/caching"
	"github.com/libdesk/libdesk/database/model"
	"github.com/libdesk/libdesk/logger"

	"gorm.io/gorm"
)

const statsKey = "dashboard:stats"

type Stats struct {
	Students       int64 `json:"students"`
	Books          int64 `json:"books"`
	AvailableBooks int64 `json:"availableBooks"`
	OpenIssues     int64 `json:"openIssues"`
}

// DashboardService computes the counters shown on the admin dashboard.
type DashboardService struct {
	DB    *gorm.DB
	cache *caching.Cache
}

func NewDashboardService(db *gorm.DB, cache *caching.Cache) *DashboardService {
	return &DashboardService{DB: db, cache: cache}
}

func (s *DashboardService) GetStats() (Stats, error) {
	if s.cache == nil {
		return s.loadStats()
	}
	v, err := s.cache.GetOrLoad(statsKey, func() (any, error) {
		return s.loadStats()
	})
	if err != nil {
		return Stats{}, err
	}
	return v.(Stats), nil
}

func (s *DashboardService) loadStats() (Stats, error) {
	var st Stats
	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&st.Students, s.DB.Model(&model.Student{})},
		{&st.Books, s.DB.Model(&model.Book{})},
		{&st.AvailableBooks, s.DB.Model(&model.Book{}).Where("available = ?", true)},
		{&st.OpenIssues, s.DB.Model(&model.Issue{}).Where("return_date IS NULL")},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return Stats{}, err
		}
	}
	return st, nil
}

func invalidateStats(c *caching.Cache) {
	if c == nil {
		return
	}
	c.Invalidate(statsKey)
	logger.Debug("dashboard stats invalidated")
}
