package job

import (
	"time"

	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/util/common"
	"github.com/libdesk/libdesk/web/service"
)

// CirculationReportJob logs the catalog counters and the loans started and
// closed during the previous period.
type CirculationReportJob struct {
	dashboardService *service.DashboardService
	issueService     *service.IssueService
	period           time.Duration
	now              func() time.Time
}

func NewCirculationReportJob(dashboardService *service.DashboardService, issueService *service.IssueService, period time.Duration) *CirculationReportJob {
	return &CirculationReportJob{
		dashboardService: dashboardService,
		issueService:     issueService,
		period:           period,
		now:              time.Now,
	}
}

func (j *CirculationReportJob) Run() {
	defer common.Recover("circulation report job")

	stats, err := j.dashboardService.GetStats()
	if err != nil {
		logger.Warning("circulation report: load stats:", err)
		return
	}
	activity, err := j.issueService.GetActivitySince(j.now().Add(-j.period))
	if err != nil {
		logger.Warning("circulation report: load activity:", err)
		return
	}
	logger.Infof("circulation report: students=%d books=%d available=%d on_loan=%d issued=%d returned=%d",
		stats.Students, stats.Books, stats.AvailableBooks, stats.OpenIssues, activity.Issued, activity.Returned)
}
