package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/cache"
	"github.com/admin-concierge/dto"
	"github.com/admin-concierge/metrics"
	"github.com/admin-concierge/models"
	"github.com/admin-concierge/repositories"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultCompleter is recorded when an item is completed without a name
const DefaultCompleter = "Admin"

var validate = validator.New(validator.WithRequiredStructEnabled())

// ComplianceService handles business logic for the compliance checklist
type ComplianceService struct {
	db              *gorm.DB
	complianceRepo  *repositories.ComplianceRepository
	environmentRepo *repositories.EnvironmentRepository
	auditRecorder   *AuditRecorder
	cache           cache.Store
	log             *zap.Logger
	now             func() time.Time
}

// NewComplianceService creates a new compliance service instance
func NewComplianceService(db *gorm.DB, recorder *AuditRecorder, store cache.Store, log *zap.Logger) *ComplianceService {
	return &ComplianceService{
		db:              db,
		complianceRepo:  repositories.NewComplianceRepository(db),
		environmentRepo: repositories.NewEnvironmentRepository(db),
		auditRecorder:   recorder,
		cache:           store,
		log:             log,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// ListCategories returns every category with its rollup and the items
// visible in environmentID (all items when empty).
func (s *ComplianceService) ListCategories(ctx context.Context, environmentID string) ([]dto.CategoryResponse, error) {
	categories, err := s.complianceRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	tallies, err := s.complianceRepo.CategoryTallies(ctx, environmentID)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[uint]repositories.CategoryTally, len(tallies))
	for _, t := range tallies {
		byCategory[t.ID] = t
	}

	items, err := s.complianceRepo.ListItems(ctx, environmentID)
	if err != nil {
		return nil, err
	}
	itemsByCategory := make(map[uint][]dto.ItemResponse)
	for _, item := range items {
		itemsByCategory[item.CategoryID] = append(itemsByCategory[item.CategoryID], dto.NewItemResponse(item))
	}

	response := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		tally := byCategory[c.ID]
		categoryItems := itemsByCategory[c.ID]
		if categoryItems == nil {
			categoryItems = []dto.ItemResponse{}
		}
		response = append(response, dto.CategoryResponse{
			ID:                   c.ID,
			Name:                 c.Name,
			Description:          c.Description,
			Icon:                 c.Icon,
			OrderIndex:           c.OrderIndex,
			TotalItems:           tally.Total,
			CompletedItems:       tally.Completed,
			CompletionPercentage: Percentage(tally.Completed, tally.Total),
			Items:                categoryItems,
		})
	}
	return response, nil
}

// Summary computes the completion rollups for environmentID
func (s *ComplianceService) Summary(ctx context.Context, environmentID string) (dto.SummaryResponse, error) {
	var response dto.SummaryResponse

	overall, err := s.complianceRepo.Tally(ctx, environmentID, "")
	if err != nil {
		return response, err
	}
	critical, err := s.complianceRepo.Tally(ctx, environmentID, models.ImportanceCritical)
	if err != nil {
		return response, err
	}
	recent, err := s.complianceRepo.CompletedByCategorySince(ctx, environmentID, daysAgo(s.now(), 30))
	if err != nil {
		return response, err
	}
	tallies, err := s.complianceRepo.CategoryTallies(ctx, environmentID)
	if err != nil {
		return response, err
	}

	response.Overall = dto.CompletionStats{
		TotalItems:           overall.Total,
		CompletedItems:       overall.Completed,
		CompletionPercentage: Percentage(overall.Completed, overall.Total),
	}
	response.Critical = dto.CriticalStats{
		TotalCritical:                critical.Total,
		CompletedCritical:            critical.Completed,
		CriticalCompletionPercentage: Percentage(critical.Completed, critical.Total),
	}

	response.RecentActivity = make([]dto.CategoryActivity, 0, len(recent))
	for _, r := range recent {
		response.RecentActivity = append(response.RecentActivity, dto.CategoryActivity{
			CategoryID:     r.CategoryID,
			CompletedCount: r.CompletedCount,
		})
	}

	response.CategoryBreakdown = make([]dto.CategoryBreakdown, 0, len(tallies))
	for _, t := range tallies {
		response.CategoryBreakdown = append(response.CategoryBreakdown, dto.CategoryBreakdown{
			CategoryName:         t.Name,
			Icon:                 t.Icon,
			TotalItems:           t.Total,
			CompletedItems:       t.Completed,
			CompletionPercentage: Percentage(t.Completed, t.Total),
		})
	}

	if overall.Total > 0 {
		known, err := knownEnvironment(ctx, s.environmentRepo, environmentID)
		if err != nil {
			return response, err
		}
		if known {
			metrics.ComplianceCompletionRatio.
				WithLabelValues(metrics.EnvironmentLabel(environmentID)).
				Set(float64(overall.Completed) / float64(overall.Total))
		}
	}

	return response, nil
}

// UpdateItem applies a partial update to one item and records it in the
// audit trail. Both writes share one transaction.
func (s *ComplianceService) UpdateItem(ctx context.Context, id uint, req dto.UpdateItemRequest, meta RequestMeta) (dto.ItemResponse, error) {
	var updated models.ComplianceItem
	var entry models.AuditLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.complianceRepo.WithTx(tx)

		item, err := repo.FindItem(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Compliance item")
		}
		if err != nil {
			return err
		}

		if !req.HasChanges() {
			return apperrors.Validation("No valid fields to update")
		}
		if req.CompletionDetails != nil {
			if err := validate.Struct(req.CompletionDetails); err != nil {
				return apperrors.InvalidInput(err)
			}
		}

		previousStatus := item.IsCompleted
		now := s.now()

		if req.IsCompleted != nil {
			item.IsCompleted = *req.IsCompleted
			if item.IsCompleted {
				completedBy := DefaultCompleter
				if req.CompletedBy != nil && *req.CompletedBy != "" {
					completedBy = *req.CompletedBy
				}
				item.CompletedAt = &now
				item.CompletedBy = &completedBy
			} else {
				item.CompletedAt = nil
				item.CompletedBy = nil
			}
		}
		if req.Notes != nil {
			item.Notes = req.Notes
		}
		if req.CompletionDetails != nil {
			item.CompletionDetails = req.CompletionDetails
		}

		if err := repo.SaveItem(ctx, &item); err != nil {
			return err
		}

		action := "updated"
		if req.IsCompleted != nil && *req.IsCompleted {
			action = "completed"
		}

		userID := meta.actorOr(DefaultCompleter)
		if req.CompletedBy != nil && *req.CompletedBy != "" {
			userID = *req.CompletedBy
		}

		entry, err = s.auditRecorder.Record(ctx, tx, AuditEntry{
			Action:        action,
			ResourceType:  models.ResourceComplianceItem,
			ResourceID:    itemResourceID(item.ID),
			EnvironmentID: item.EnvironmentID,
			UserID:        userID,
			IPAddress:     meta.IPAddress,
			UserAgent:     meta.UserAgent,
			Details: map[string]interface{}{
				"previous_status":    previousStatus,
				"new_status":         req.IsCompleted,
				"notes":              req.Notes,
				"completion_details": req.CompletionDetails,
				"timestamp":          now.Format(time.RFC3339Nano),
			},
		})
		if err != nil {
			return err
		}

		updated = item
		return nil
	})
	if err != nil {
		return dto.ItemResponse{}, err
	}

	s.auditRecorder.Committed(entry)
	s.log.Info("Compliance item updated",
		zap.Uint("item_id", updated.ID),
		zap.Bool("is_completed", updated.IsCompleted),
		zap.String("user_id", meta.UserID),
	)
	s.invalidateCache(ctx)

	return dto.NewItemResponse(updated), nil
}

// Trends returns the 30-day completion series and the importance breakdown
func (s *ComplianceService) Trends(ctx context.Context) (dto.TrendsResponse, error) {
	var response dto.TrendsResponse

	times, err := s.complianceRepo.CompletionTimes(ctx, "", daysAgo(s.now(), 30))
	if err != nil {
		return response, err
	}
	response.CompletionTrends = dailyCompletions(times)

	tallies, err := s.complianceRepo.ImportanceTallies(ctx, "")
	if err != nil {
		return response, err
	}
	response.ImportanceBreakdown = make([]dto.ImportanceStats, 0, len(tallies))
	for _, t := range orderByImportance(tallies) {
		response.ImportanceBreakdown = append(response.ImportanceBreakdown, dto.ImportanceStats{
			Importance: t.Importance,
			Total:      t.Total,
			Completed:  t.Completed,
			Percentage: Percentage(t.Completed, t.Total),
		})
	}
	return response, nil
}

func (s *ComplianceService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}
}

// knownEnvironment reports whether environmentID is empty (the unfiltered
// view) or names a stored environment. Unknown ids never get their own
// metric series or cache entry.
func knownEnvironment(ctx context.Context, repo *repositories.EnvironmentRepository, environmentID string) (bool, error) {
	if environmentID == "" {
		return true, nil
	}
	return repo.Exists(ctx, environmentID)
}

func dailyCompletions(times []time.Time) []dto.DailyCompletions {
	buckets := bucketize(times, dateLayout)
	out := make([]dto.DailyCompletions, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.DailyCompletions{Date: b.key, CompletedItems: b.count})
	}
	return out
}

// orderByImportance sorts tallies critical first; unknown levels go last
func orderByImportance(tallies []repositories.ImportanceTally) []repositories.ImportanceTally {
	ordered := make([]repositories.ImportanceTally, 0, len(tallies))
	seen := make(map[models.Importance]bool, len(tallies))
	for _, level := range models.Importances {
		for _, t := range tallies {
			if t.Importance == level {
				ordered = append(ordered, t)
				seen[level] = true
			}
		}
	}
	for _, t := range tallies {
		if !seen[t.Importance] {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

func itemResourceID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
