package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goldenage-community/goldenage-backend/internal/apperror"
	"github.com/goldenage-community/goldenage-backend/internal/logging"
	"github.com/goldenage-community/goldenage-backend/internal/restaurant/domain"
	"github.com/goldenage-community/goldenage-backend/internal/shape"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
	"github.com/goldenage-community/goldenage-backend/internal/xmltree"
)

// MenuService serves daily menus keyed by calendar date.
type MenuService struct {
	store snapshots.Store
	now   func() time.Time
}

// NewMenuService creates a new MenuService
func NewMenuService(store snapshots.Store) *MenuService {
	return &MenuService{store: store, now: time.Now}
}

// GetDailyMenu returns the menu for date, today (UTC) when date is empty.
func (s *MenuService) GetDailyMenu(ctx context.Context, date string) (shape.MenuView, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.now().UTC().Format(domain.DateLayout)
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return shape.MenuView{}, apperror.Validation("date must be formatted as YYYY-MM-DD")
	}

	snap, err := s.store.GetByDate(ctx, snapshots.TableRestaurantMenus, date)
	if errors.Is(err, snapshots.ErrNotFound) {
		return shape.MenuView{}, apperror.NotFound("Menu not found for the specified date")
	}
	if err != nil {
		return shape.MenuView{}, apperror.Database(err, "Failed to load menu")
	}

	root, err := xmltree.Parse(snap.Payload)
	if err != nil {
		return shape.MenuView{}, apperror.Data(err, "Error parsing menu data")
	}
	return shape.Menu(root), nil
}

// GetWeeklyMenu returns every stored menu from the Sunday on or before
// startDate through the following Saturday. Menus that fail to parse are
// skipped and logged.
func (s *MenuService) GetWeeklyMenu(ctx context.Context, startDate string) (domain.WeeklyMenu, error) {
	start := s.now().UTC()
	if startDate = strings.TrimSpace(startDate); startDate != "" {
		parsed, err := time.Parse(domain.DateLayout, startDate)
		if err != nil {
			return domain.WeeklyMenu{}, apperror.Validation("startDate must be formatted as YYYY-MM-DD")
		}
		start = parsed
	}
	from, to := WeekBounds(start)

	week := domain.WeeklyMenu{
		StartDate: from.Format(domain.DateLayout),
		EndDate:   to.Format(domain.DateLayout),
		Menus:     []shape.MenuView{},
	}

	rows, err := s.store.ListByDateRange(ctx, snapshots.TableRestaurantMenus, week.StartDate, week.EndDate)
	if err != nil {
		return domain.WeeklyMenu{}, apperror.Database(err, "Failed to load menus")
	}

	log := logging.FromContext(ctx)
	for _, row := range rows {
		root, err := xmltree.Parse(row.Payload)
		if err != nil {
			log.Warn("skipping unparseable menu", "operation", "menu.weekly", "date", row.Date, "error", err)
			continue
		}
		week.Menus = append(week.Menus, shape.Menu(root))
	}
	return week, nil
}

// UploadMenu stores root under its date attribute, replacing any menu
// already stored for that date. It reports whether the date was new.
func (s *MenuService) UploadMenu(ctx context.Context, root *xmltree.Element) (string, bool, error) {
	if root == nil || root.Name != shape.RootMenu {
		return "", false, apperror.Validation("No menu XML provided")
	}
	date := strings.TrimSpace(root.AttrOr("date", ""))
	if date == "" {
		return "", false, apperror.Validation("Date attribute is missing in the menu XML")
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return "", false, apperror.Validation("Date attribute must be formatted as YYYY-MM-DD").WithDetail("date", date)
	}

	_, created, err := s.store.UpsertByDate(ctx, snapshots.TableRestaurantMenus, date, xmltree.Serialize(root), s.now())
	if err != nil {
		return "", false, apperror.Database(err, "Failed to save menu to database")
	}
	logging.FromContext(ctx).Info("menu stored", "operation", "menu.upload", "date", date, "created", created)
	return date, created, nil
}

// WeekBounds returns the Sunday on or before t and the Saturday after it,
// both at midnight UTC.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	sunday := day.AddDate(0, 0, -int(day.Weekday()))
	return sunday, sunday.AddDate(0, 0, 6)
}
