package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"time"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/cache"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/models"
	"github.com/admin-concierge/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 500
	maxAuditPage         = 1_000_000
	defaultSummaryDays   = 30
	maxSummaryDays       = 365
	topUsersLimit        = 10
	recentAuditLimit     = 20
)

// Export formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var csvHeader = []string{"ID", "Action", "Resource Type", "Resource ID", "User ID", "Created At", "Details"}

// ExportFile is a rendered audit export ready to be sent as an attachment
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// AuditService reads and appends audit trail entries
type AuditService struct {
	db            *gorm.DB
	auditRepo     *repositories.AuditLogRepository
	auditRecorder *AuditRecorder
	cache         cache.Store
	log           *zap.Logger
	now           func() time.Time
}

// NewAuditService creates a new audit service instance
func NewAuditService(db *gorm.DB, recorder *AuditRecorder, store cache.Store, log *zap.Logger) *AuditService {
	return &AuditService{
		db:            db,
		auditRepo:     repositories.NewAuditLogRepository(db),
		auditRecorder: recorder,
		cache:         store,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ListAuditLogs returns one page of matching entries, newest first
func (s *AuditService) ListAuditLogs(ctx context.Context, query dto.AuditListQuery) (dto.AuditLogListResponse, error) {
	var response dto.AuditLogListResponse

	filter, err := parseAuditFilter(query.StartDate, query.EndDate)
	if err != nil {
		return response, err
	}
	filter.Action = query.Action
	filter.ResourceType = query.ResourceType

	page := query.Page
	if page < 1 {
		page = 1
	}
	if page > maxAuditPage {
		page = maxAuditPage
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	logs, total, err := s.auditRepo.FindWithPagination(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return response, err
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	response.Logs = logs
	response.Pagination = dto.Pagination{
		CurrentPage: page,
		PerPage:     limit,
		TotalItems:  total,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
	}
	return response, nil
}

// CreateAuditLog appends a client-supplied entry. Missing network details are
// taken from the request.
func (s *AuditService) CreateAuditLog(ctx context.Context, req dto.CreateAuditLogRequest, meta RequestMeta) (models.AuditLog, error) {
	if req.Action == "" || req.ResourceType == "" {
		return models.AuditLog{}, apperrors.Validation("Action and resource_type are required")
	}

	var details interface{}
	if len(req.Details) > 0 && string(req.Details) != "null" {
		if !json.Valid(req.Details) {
			return models.AuditLog{}, apperrors.Validation("Invalid JSON format")
		}
		details = req.Details
	}

	entry := AuditEntry{
		Action:        req.Action,
		ResourceType:  req.ResourceType,
		ResourceID:    req.ResourceID,
		EnvironmentID: req.EnvironmentID,
		UserID:        req.UserID,
		IPAddress:     req.IPAddress,
		UserAgent:     req.UserAgent,
		Details:       details,
	}
	if entry.UserID == "" {
		entry.UserID = meta.UserID
	}
	if entry.IPAddress == "" {
		entry.IPAddress = meta.IPAddress
	}
	if entry.UserAgent == "" {
		entry.UserAgent = meta.UserAgent
	}
	if entry.EnvironmentID != nil && *entry.EnvironmentID == "" {
		entry.EnvironmentID = nil
	}

	var created models.AuditLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.auditRecorder.Record(ctx, tx, entry)
		return err
	})
	if err != nil {
		return models.AuditLog{}, err
	}

	s.auditRecorder.Committed(created)
	s.log.Info("Audit log created",
		zap.Uint("id", created.ID),
		zap.String("action", created.Action),
		zap.String("resource_type", created.ResourceType),
	)

	// active_users in the cached overview counts audit actors
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}
	return created, nil
}

// AuditSummary aggregates the entries of the last days days. Out of range
// values are clamped to 1..365; zero selects the default window.
func (s *AuditService) AuditSummary(ctx context.Context, days int) (dto.AuditSummaryResponse, error) {
	var response dto.AuditSummaryResponse

	switch {
	case days == 0:
		days = defaultSummaryDays
	case days < 1:
		days = 1
	case days > maxSummaryDays:
		days = maxSummaryDays
	}
	since := daysAgo(s.now(), days)

	total, err := s.auditRepo.CountSince(ctx, since)
	if err != nil {
		return response, err
	}
	response.Summary = dto.AuditTotals{TotalActions: total, PeriodDays: days}

	actions, err := s.auditRepo.CountByActionSince(ctx, since)
	if err != nil {
		return response, err
	}
	response.ActionsByType = make([]dto.ActionCount, 0, len(actions))
	for _, a := range actions {
		response.ActionsByType = append(response.ActionsByType, dto.ActionCount{Action: a.Name, Count: a.Count})
	}

	times, err := s.auditRepo.CreatedTimes(ctx, since)
	if err != nil {
		return response, err
	}
	buckets := bucketize(times, dateLayout)
	response.ActivityTrend = make([]dto.DailyActivity, 0, len(buckets))
	for _, b := range buckets {
		response.ActivityTrend = append(response.ActivityTrend, dto.DailyActivity{Date: b.key, ActivityCount: b.count})
	}

	users, err := s.auditRepo.TopUsersSince(ctx, since, topUsersLimit)
	if err != nil {
		return response, err
	}
	response.TopUsers = make([]dto.UserActivity, 0, len(users))
	for _, u := range users {
		response.TopUsers = append(response.TopUsers, dto.UserActivity{UserID: u.Name, ActionCount: u.Count})
	}

	recent, err := s.auditRepo.Recent(ctx, recentAuditLimit)
	if err != nil {
		return response, err
	}
	response.RecentActivity = make([]dto.RecentAudit, 0, len(recent))
	for _, r := range recent {
		response.RecentActivity = append(response.RecentActivity, dto.RecentAudit{
			Action:       r.Action,
			ResourceType: r.ResourceType,
			ResourceID:   r.ResourceID,
			UserID:       r.UserID,
			CreatedAt:    r.CreatedAt,
		})
	}

	return response, nil
}

// AuditStats counts activity for today, the last week and the last month
func (s *AuditService) AuditStats(ctx context.Context) (dto.AuditStatsResponse, error) {
	var response dto.AuditStatsResponse
	now := s.now()

	today, err := s.auditRepo.CountSince(ctx, startOfDay(now).Add(-time.Nanosecond))
	if err != nil {
		return response, err
	}
	week, err := s.auditRepo.CountSince(ctx, daysAgo(now, 7))
	if err != nil {
		return response, err
	}
	month, err := s.auditRepo.CountSince(ctx, daysAgo(now, 30))
	if err != nil {
		return response, err
	}
	response.ActivityStats = dto.ActivityStats{Today: today, ThisWeek: week, ThisMonth: month}

	types, err := s.auditRepo.CountByResourceTypeSince(ctx, daysAgo(now, 30))
	if err != nil {
		return response, err
	}
	response.ResourceTypeBreakdown = make([]dto.ResourceTypeCount, 0, len(types))
	for _, t := range types {
		response.ResourceTypeBreakdown = append(response.ResourceTypeBreakdown, dto.ResourceTypeCount{
			ResourceType: t.Name,
			Count:        t.Count,
		})
	}

	return response, nil
}

// ExportAuditLogs renders every entry in the optional date range as JSON or CSV
func (s *AuditService) ExportAuditLogs(ctx context.Context, query dto.AuditExportQuery) (ExportFile, error) {
	format := query.Format
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatCSV {
		return ExportFile{}, apperrors.Validation("Unsupported export format, expected json or csv")
	}

	filter, err := parseAuditFilter(query.StartDate, query.EndDate)
	if err != nil {
		return ExportFile{}, err
	}

	logs, err := s.auditRepo.FindAll(ctx, filter)
	if err != nil {
		return ExportFile{}, err
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	now := s.now()
	filename := "audit-logs-" + now.Format(dateLayout) + "." + format

	if format == FormatCSV {
		body, err := renderCSV(logs)
		if err != nil {
			return ExportFile{}, err
		}
		return ExportFile{Filename: filename, ContentType: "text/csv", Body: body}, nil
	}

	period := dto.ExportPeriod{Start: "beginning", End: "now"}
	if query.StartDate != "" {
		period.Start = query.StartDate
	}
	if query.EndDate != "" {
		period.End = query.EndDate
	}

	body, err := json.MarshalIndent(dto.AuditExport{
		ExportDate:   now,
		Period:       period,
		TotalRecords: len(logs),
		Data:         logs,
	}, "", "  ")
	if err != nil {
		return ExportFile{}, err
	}
	return ExportFile{Filename: filename, ContentType: "application/json", Body: body}, nil
}

func renderCSV(logs []models.AuditLog) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, l := range logs {
		details := "{}"
		if len(l.Details) > 0 {
			details = string(l.Details)
		}
		record := []string{
			strconv.FormatUint(uint64(l.ID), 10),
			l.Action,
			l.ResourceType,
			l.ResourceID,
			l.UserID,
			l.CreatedAt.UTC().Format(time.RFC3339),
			details,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// parseAuditFilter reads RFC 3339 timestamps or plain dates. A plain end date
// covers that whole day.
func parseAuditFilter(start, end string) (repositories.AuditFilter, error) {
	var filter repositories.AuditFilter
	if start != "" {
		t, _, err := parseDate(start)
		if err != nil {
			return filter, apperrors.Validation("Invalid start_date, expected YYYY-MM-DD or RFC 3339")
		}
		filter.Start = t
	}
	if end != "" {
		t, dateOnly, err := parseDate(end)
		if err != nil {
			return filter, apperrors.Validation("Invalid end_date, expected YYYY-MM-DD or RFC 3339")
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.End = t
	}
	if !filter.Start.IsZero() && !filter.End.IsZero() && filter.End.Before(filter.Start) {
		return filter, apperrors.Validation("end_date must not be before start_date")
	}
	return filter, nil
}

func parseDate(value string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}
