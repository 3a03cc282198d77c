package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/frequentation/internal/db"
	"github.com/frequentation/internal/logging"
	"github.com/frequentation/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDayRecordNotFound 在指定日期没有记录时返回
	ErrDayRecordNotFound = errors.New("day record not found")
	// ErrCategoryNotFound 在计数引用了不存在的类型时返回
	ErrCategoryNotFound = errors.New("category not found")
	// ErrInvalidDate 日期不是 YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidImport 导入文档未通过结构校验，数据未被修改
	ErrInvalidImport = errors.New("invalid import document")
	// ErrUnknownAction 动作名称不在支持范围内
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidCount 计数为负数或同一类型重复出现
	ErrInvalidCount = errors.New("invalid count")
	// ErrInvalidCategory 类型缺少名称或 ID
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidPayload 动作载荷无法解析
	ErrInvalidPayload = errors.New("invalid action payload")
)

// DataService 是数据访问门面：所有读写都经过它
// 首次使用时惰性初始化（默认类型 + 示例数据，仅执行一次）
// 每个多语句修改都在单个事务中完成，失败时保持原状态
type DataService struct {
	db       *gorm.DB
	now      func() time.Time
	loc      *time.Location
	seedDemo bool
	log      *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	initMu      sync.Mutex
	initialized bool
}

// Option 调整 DataService 的可注入依赖
type Option func(*DataService)

// WithClock 替换时钟，主要面向测试
func WithClock(now func() time.Time) Option {
	return func(s *DataService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation 指定计算“今天”所用的时区
func WithLocation(loc *time.Location) Option {
	return func(s *DataService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithRand 替换示例数据使用的随机源
func WithRand(rng *rand.Rand) Option {
	return func(s *DataService) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithDemoData 控制首次初始化时是否生成示例记录
func WithDemoData(enabled bool) Option {
	return func(s *DataService) {
		s.seedDemo = enabled
	}
}

// CategoryInput 定义新增类型时可配置字段，ID 与顺序由服务分配
type CategoryInput struct {
	Name   string
	Color  string
	Family string
	Active *bool
}

// NewDataService 构造 DataService
func NewDataService(gdb *gorm.DB, opts ...Option) *DataService {
	seed := uint64(time.Now().UnixNano())
	s := &DataService{
		db:       gdb,
		now:      time.Now,
		loc:      time.Local,
		seedDemo: true,
		rng:      rand.New(rand.NewPCG(seed, seed>>1)),
		log:      logging.Component("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today 返回配置时区下的当前日期
func (s *DataService) Today() time.Time {
	return model.DateOf(s.now().In(s.loc))
}

// Load 返回完整数据集，记录按日期升序
func (s *DataService) Load(ctx context.Context) (model.Dataset, error) {
	if err := s.ensureInitialized(ctx); err != nil {
		return model.Dataset{}, err
	}
	return loadDataset(s.db.WithContext(ctx))
}

// Info 返回数据集版本与初始化时间
func (s *DataService) Info(ctx context.Context) (StoreInfo, error) {
	if err := s.ensureInitialized(ctx); err != nil {
		return StoreInfo{}, err
	}
	return loadStoreInfo(s.db.WithContext(ctx))
}

// GetDayRecord 读取单日记录
func (s *DataService) GetDayRecord(ctx context.Context, date string) (model.DayRecord, error) {
	if err := s.ensureInitialized(ctx); err != nil {
		return model.DayRecord{}, err
	}
	key, err := normalizeDate(date)
	if err != nil {
		return model.DayRecord{}, err
	}
	return loadDay(s.db.WithContext(ctx), key)
}

// DuplicatePreviousDay 返回前一天的计数作为草稿，不写入存储
func (s *DataService) DuplicatePreviousDay(ctx context.Context, date string) ([]model.CategoryCount, error) {
	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	key, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}
	current, _ := model.ParseDate(key)
	previous, err := loadDay(s.db.WithContext(ctx), model.FormatDate(current.AddDate(0, 0, -1)))
	if err != nil {
		return nil, err
	}
	return previous.Counts, nil
}

// SaveDay 按日期幂等写入：未开启覆盖时 total_visites 由计数重新求和
// 计数整体替换，日期与计数在同一事务中提交
func (s *DataService) SaveDay(ctx context.Context, day model.DayRecord) (model.DayRecord, error) {
	if err := s.ensureInitialized(ctx); err != nil {
		return model.DayRecord{}, err
	}

	key, err := normalizeDate(day.Date)
	if err != nil {
		return model.DayRecord{}, err
	}
	day.Date = key
	day.Note = strings.TrimSpace(day.Note)
	day.LastUpdated = s.now().UTC()
	if day.Counts == nil {
		day.Counts = []model.CategoryCount{}
	}

	if err := validateCounts(day.Counts); err != nil {
		return model.DayRecord{}, err
	}
	if !day.OverrideTotal {
		day.TotalVisits = model.SumCounts(day.Counts)
	} else if day.TotalVisits < 0 {
		return model.DayRecord{}, fmt.Errorf("%w: total must not be negative", ErrInvalidCount)
	}

	row, counts := dayToRows(day)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategoriesExist(tx, day.Counts); err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_visites", "override_total", "note", "estimee", "derniere_maj"}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("upsert day: %w", err)
		}

		if err := tx.Where("date = ?", key).Delete(&db.DayCount{}).Error; err != nil {
			return fmt.Errorf("clear counts: %w", err)
		}
		if len(counts) > 0 {
			if err := tx.Omit(clause.Associations).Create(&counts).Error; err != nil {
				return fmt.Errorf("insert counts: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return model.DayRecord{}, fmt.Errorf("save day %s: %w", key, err)
	}

	return day, nil
}

// DeleteDay 删除指定日期的记录，不存在时为空操作
func (s *DataService) DeleteDay(ctx context.Context, date string) error {
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}
	key, err := normalizeDate(date)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", key).Delete(&db.DayCount{}).Error; err != nil {
			return err
		}
		return tx.Where("date = ?", key).Delete(&db.Day{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete day %s: %w", key, err)
	}
	return nil
}

// AddCategory 新建类型：ID 使用 uuid，顺序为当前最大值 + 1
func (s *DataService) AddCategory(ctx context.Context, input CategoryInput) (model.Category, error) {
	if err := s.ensureInitialized(ctx); err != nil {
		return model.Category{}, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}

	category := model.Category{
		ID:     uuid.NewString(),
		Name:   name,
		Color:  strings.TrimSpace(input.Color),
		Active: input.Active == nil || *input.Active,
		Family: strings.TrimSpace(input.Family),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		if err := tx.Model(&db.Category{}).Select("COALESCE(MAX(ordre), 0)").Scan(&maxOrder).Error; err != nil {
			return fmt.Errorf("max order: %w", err)
		}
		category.Order = maxOrder + 1

		// 颜色按 ordre 取，不按行数
		if category.Color == "" {
			category.Color = model.PaletteColor(maxOrder)
		}

		row := categoryToRow(category)
		return tx.Create(&row).Error
	})
	if err != nil {
		return model.Category{}, fmt.Errorf("add category: %w", err)
	}

	return category, nil
}

// UpdateCategory 按 ID 原地更新；ID 不存在时静默忽略
// ordre <= 0 表示保持原顺序
func (s *DataService) UpdateCategory(ctx context.Context, category model.Category) error {
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}

	id := strings.TrimSpace(category.ID)
	if id == "" || strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: id and name are required", ErrInvalidCategory)
	}

	updates := map[string]interface{}{
		"nom":     strings.TrimSpace(category.Name),
		"couleur": strings.TrimSpace(category.Color),
		"actif":   category.Active,
		"famille": familyPointer(category.Family),
	}
	if category.Order > 0 {
		updates["ordre"] = category.Order
	}

	if err := s.db.WithContext(ctx).Model(&db.Category{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update category %s: %w", id, err)
	}
	return nil
}

// DeleteCategory 删除类型并移除所有日期中的对应计数
// 日期记录保留，且不重新计算 total_visites
func (s *DataService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("typologie_id = ?", id).Delete(&db.DayCount{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&db.Category{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}

// ReorderCategories 按给定顺序重新分配 ordre（从 1 开始），未知 ID 被忽略
// 列表中缺失的类型按原顺序排在其后，ordre 始终不重复
func (s *DataService) ReorderCategories(ctx context.Context, ids []string) error {
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(ids))
	ordered := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rest []string
		query := tx.Model(&db.Category{}).Order("ordre ASC, id ASC")
		if len(ordered) > 0 {
			query = query.Where("id NOT IN ?", ordered)
		}
		if err := query.Pluck("id", &rest).Error; err != nil {
			return err
		}

		for i, id := range append(ordered, rest...) {
			if err := tx.Model(&db.Category{}).Where("id = ?", id).Update("ordre", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reorder categories: %w", err)
	}
	return nil
}

// Export 序列化完整数据集
func (s *DataService) Export(ctx context.Context) ([]byte, error) {
	data, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return model.EncodeDataset(data)
}

// Import 校验后整体替换数据集；校验失败时不做任何修改
func (s *DataService) Import(ctx context.Context, raw []byte) error {
	data, err := model.DecodeDataset(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return s.ImportDataset(ctx, data)
}

// ImportDataset 与 Import 相同，但接收已解析的数据集
func (s *DataService) ImportDataset(ctx context.Context, data model.Dataset) error {
	if err := model.ValidateDataset(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceDataset(tx, data)
	}); err != nil {
		return fmt.Errorf("import dataset: %w", err)
	}

	s.log.Info("dataset imported", "days", len(data.Days), "categories", len(data.Categories))
	return nil
}

// ResetToSeed 用默认类型与新生成的示例数据替换数据集
func (s *DataService) ResetToSeed(ctx context.Context) error {
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}

	data := s.seedDataset()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceDataset(tx, data); err != nil {
			return err
		}
		return upsertSetting(tx, db.SettingKeySeededAt, s.now().UTC().Format(time.RFC3339))
	})
	if err != nil {
		return fmt.Errorf("reset dataset: %w", err)
	}

	s.log.Info("dataset reset to demo data", "days", len(data.Days))
	return nil
}

// ClearAll 清空所有日期记录，并恢复默认类型
func (s *DataService) ClearAll(ctx context.Context) error {
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}

	data := model.Dataset{Categories: model.DefaultCategories(), Version: model.CurrentVersion}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceDataset(tx, data)
	}); err != nil {
		return fmt.Errorf("clear dataset: %w", err)
	}

	s.log.Info("dataset cleared")
	return nil
}

// ensureInitialized 在首次访问时初始化存储：仅当 seeded_at 标记缺失且类型表为空时写入默认数据
func (s *DataService) ensureInitialized(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.initialized {
		return nil
	}

	seededDays := -1
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, seeded, err := getSetting(tx, db.SettingKeySeededAt); err != nil || seeded {
			return err
		}

		var existing int64
		if err := tx.Model(&db.Category{}).Count(&existing).Error; err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		if existing == 0 {
			data := model.Dataset{Categories: model.DefaultCategories(), Version: model.CurrentVersion}
			if s.seedDemo {
				data = s.seedDataset()
			}
			if err := replaceDataset(tx, data); err != nil {
				return err
			}
			seededDays = len(data.Days)
		}

		if err := upsertSetting(tx, db.SettingKeyDatasetVersion, strconv.Itoa(model.CurrentVersion)); err != nil {
			return err
		}
		return upsertSetting(tx, db.SettingKeySeededAt, s.now().UTC().Format(time.RFC3339))
	})
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}

	if seededDays >= 0 {
		s.log.Info("store initialized with defaults", "demo_days", seededDays)
	}
	s.initialized = true
	return nil
}

func (s *DataService) seedDataset() model.Dataset {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return SeedDataset(s.rng, s.Today(), s.now())
}

func loadDataset(tx *gorm.DB) (model.Dataset, error) {
	var categoryRows []db.Category
	if err := tx.Order("ordre ASC, id ASC").Find(&categoryRows).Error; err != nil {
		return model.Dataset{}, fmt.Errorf("list categories: %w", err)
	}

	var dayRows []db.Day
	if err := tx.Order("date ASC").Find(&dayRows).Error; err != nil {
		return model.Dataset{}, fmt.Errorf("list days: %w", err)
	}

	var countRows []db.DayCount
	if err := tx.Order("date ASC, id ASC").Find(&countRows).Error; err != nil {
		return model.Dataset{}, fmt.Errorf("list counts: %w", err)
	}

	countsByDate := make(map[string][]db.DayCount, len(dayRows))
	for _, c := range countRows {
		countsByDate[c.Date] = append(countsByDate[c.Date], c)
	}

	data := model.Dataset{
		Days:       make([]model.DayRecord, 0, len(dayRows)),
		Categories: make([]model.Category, 0, len(categoryRows)),
		Version:    model.CurrentVersion,
	}
	for _, row := range categoryRows {
		data.Categories = append(data.Categories, categoryFromRow(row))
	}
	for _, row := range dayRows {
		data.Days = append(data.Days, dayFromRows(row, countsByDate[row.Date]))
	}
	return data, nil
}

func loadDay(tx *gorm.DB, date string) (model.DayRecord, error) {
	var row db.Day
	if err := tx.Where("date = ?", date).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DayRecord{}, fmt.Errorf("%w: %s", ErrDayRecordNotFound, date)
		}
		return model.DayRecord{}, fmt.Errorf("get day %s: %w", date, err)
	}

	var counts []db.DayCount
	if err := tx.Where("date = ?", date).Order("id ASC").Find(&counts).Error; err != nil {
		return model.DayRecord{}, fmt.Errorf("get counts %s: %w", date, err)
	}
	return dayFromRows(row, counts), nil
}

// replaceDataset 清空三张表后按外键顺序写入，调用方负责提供事务
func replaceDataset(tx *gorm.DB, data model.Dataset) error {
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := all.Delete(&db.DayCount{}).Error; err != nil {
		return fmt.Errorf("clear counts: %w", err)
	}
	if err := all.Delete(&db.Day{}).Error; err != nil {
		return fmt.Errorf("clear days: %w", err)
	}
	if err := all.Delete(&db.Category{}).Error; err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	if len(data.Categories) > 0 {
		rows := make([]db.Category, 0, len(data.Categories))
		for _, c := range data.Categories {
			rows = append(rows, categoryToRow(c))
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert categories: %w", err)
		}
	}

	if len(data.Days) > 0 {
		days := make([]db.Day, 0, len(data.Days))
		var counts []db.DayCount
		for _, d := range data.Days {
			row, dayCounts := dayToRows(d)
			days = append(days, row)
			counts = append(counts, dayCounts...)
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(&days, 200).Error; err != nil {
			return fmt.Errorf("insert days: %w", err)
		}
		if len(counts) > 0 {
			if err := tx.Omit(clause.Associations).CreateInBatches(&counts, 200).Error; err != nil {
				return fmt.Errorf("insert counts: %w", err)
			}
		}
	}

	return upsertSetting(tx, db.SettingKeyDatasetVersion, strconv.Itoa(model.CurrentVersion))
}

func ensureCategoriesExist(tx *gorm.DB, counts []model.CategoryCount) error {
	if len(counts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.CategoryID)
	}

	var found []string
	if err := tx.Model(&db.Category{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return fmt.Errorf("check categories: %w", err)
	}
	if len(found) == len(ids) {
		return nil
	}

	known := make(map[string]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
	}
	return nil
}

func validateCounts(counts []model.CategoryCount) error {
	seen := make(map[string]struct{}, len(counts))
	for _, c := range counts {
		if strings.TrimSpace(c.CategoryID) == "" {
			return fmt.Errorf("%w: missing category id", ErrInvalidCount)
		}
		if c.Count < 0 {
			return fmt.Errorf("%w: %s has negative count %d", ErrInvalidCount, c.CategoryID, c.Count)
		}
		if _, dup := seen[c.CategoryID]; dup {
			return fmt.Errorf("%w: %s counted twice", ErrInvalidCount, c.CategoryID)
		}
		seen[c.CategoryID] = struct{}{}
	}
	return nil
}

func normalizeDate(value string) (string, error) {
	t, err := model.ParseDate(value)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return model.FormatDate(t), nil
}
