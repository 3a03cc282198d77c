package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/frequentation/internal/model"
)

// Action 名称，保持与前端约定一致
const (
	ActionSaveDay           = "saveJour"
	ActionDeleteDay         = "deleteJour"
	ActionAddCategory       = "addTypologie"
	ActionUpdateCategory    = "updateTypologie"
	ActionDeleteCategory    = "deleteTypologie"
	ActionReorderCategories = "reorderTypologies"
	ActionImport            = "importData"
	ActionReset             = "resetData"
	ActionClear             = "clearData"
)

// Action 是一次类型化的数据修改，Apply 返回修改后的完整数据集
type Action interface {
	Name() string
	Apply(ctx context.Context, s *DataService) (model.Dataset, error)
}

// SaveDayAction 写入单日记录
type SaveDayAction struct {
	Day model.DayRecord
}

func (SaveDayAction) Name() string { return ActionSaveDay }

func (a SaveDayAction) Apply(ctx context.Context, s *DataService) (model.Dataset, error) {
	if _, err := s.SaveDay(ctx, a.Day); err != nil {
		return model.Dataset{}, err
	}
	return s.Load(ctx)
}

// DeleteDayAction 删除单日记录
type DeleteDayAction struct {
	Date string
}

func (DeleteDayAction) Name() string { return ActionDeleteDay }

func (a DeleteDayAction) Apply(ctx context.Context, s *DataService) (model.Dataset, error) {
	if err := s.DeleteDay(ctx, a.Date); err != nil {
		return model.Dataset{}, err
	}
	return s.Load(ctx)
}

// AddCategoryAction 新增类型
type AddCategoryAction struct {
	Input CategoryInput
}

func (AddCategoryAction) Name() string { return ActionAddCategory }

func (a AddCategoryAction) Apply(ctx context.Context, s *DataService) (model.Dataset, error) {
	if _, err := s.AddCategory(ctx, a.Input); err != nil {
		return model.Dataset{}, err
	}
	return s.Load(ctx)
}

// UpdateCategoryAction 更新类型
type UpdateCategoryAction struct {
	Category model.Category
}

func (UpdateCategoryAction) Name() string { return ActionUpdateCategory }

func (a UpdateCategoryAction) Apply(ctx context.Context, s *DataService) (model.Dataset, error) {
	if err := s.UpdateCategory(ctx, a.Category); err != nil {
		return model.Dataset{}, err
	}
	return s.Load(ctx)
}

// DeleteCategoryAction 删除类型及其计数
type DeleteCategoryAction struct {
	ID string
}

func (DeleteCategoryAction) Name() string { return ActionDeleteCategory }

func (a DeleteCategoryAction) Apply(ctx context.Context, s *DataService) (model.Dataset, error) {
	if err := s.DeleteCategory(ctx, a.ID); err != nil {
		return model.Dataset{}, err
	}
	return s.Load(ctx)
}

// ReorderCategoriesAction 按给定顺序重排类型
type ReorderCategoriesAction struct {
	IDs []string
}

func (ReorderCategoriesAction) Name() string { return ActionReorderCategories }

func (a ReorderCategoriesAction) Apply(ctx context.Context, s *DataService) (model.Dataset, error) {
	if err := s.ReorderCategories(ctx, a.IDs); err != nil {
		return model.Dataset{}, err
	}
	return s.Load(ctx)
}

// ImportAction 整体替换数据集
type ImportAction struct {
	Document []byte
}

func (ImportAction) Name() string { return ActionImport }

func (a ImportAction) Apply(ctx context.Context, s *DataService) (model.Dataset, error) {
	if err := s.Import(ctx, a.Document); err != nil {
		return model.Dataset{}, err
	}
	return s.Load(ctx)
}

// ResetAction 恢复示例数据
type ResetAction struct{}

func (ResetAction) Name() string { return ActionReset }

func (ResetAction) Apply(ctx context.Context, s *DataService) (model.Dataset, error) {
	if err := s.ResetToSeed(ctx); err != nil {
		return model.Dataset{}, err
	}
	return s.Load(ctx)
}

// ClearAction 清空日期记录
type ClearAction struct{}

func (ClearAction) Name() string { return ActionClear }

func (ClearAction) Apply(ctx context.Context, s *DataService) (model.Dataset, error) {
	if err := s.ClearAll(ctx); err != nil {
		return model.Dataset{}, err
	}
	return s.Load(ctx)
}

type addCategoryPayload struct {
	Name   string `json:"nom"`
	Color  string `json:"couleur"`
	Family string `json:"famille"`
	Active *bool  `json:"actif"`
}

type dateRef struct {
	Date string `json:"date"`
}

type idRef struct {
	ID string `json:"id"`
}

// DecodeAction 将 {action, data} 请求解析为类型化的 Action
// 未知名称返回 ErrUnknownAction，载荷格式错误返回 ErrInvalidPayload
func DecodeAction(name string, data json.RawMessage) (Action, error) {
	switch name {
	case ActionSaveDay:
		var day model.DayRecord
		if err := decodePayload(data, &day); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return SaveDayAction{Day: day}, nil

	case ActionDeleteDay:
		date, err := decodeStringOrField(data, func(raw json.RawMessage) (string, error) {
			var ref dateRef
			err := json.Unmarshal(raw, &ref)
			return ref.Date, err
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return DeleteDayAction{Date: date}, nil

	case ActionAddCategory:
		var payload addCategoryPayload
		if err := decodePayload(data, &payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return AddCategoryAction{Input: CategoryInput{
			Name:   payload.Name,
			Color:  payload.Color,
			Family: payload.Family,
			Active: payload.Active,
		}}, nil

	case ActionUpdateCategory:
		var category model.Category
		if err := decodePayload(data, &category); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return UpdateCategoryAction{Category: category}, nil

	case ActionDeleteCategory:
		id, err := decodeStringOrField(data, func(raw json.RawMessage) (string, error) {
			var ref idRef
			err := json.Unmarshal(raw, &ref)
			return ref.ID, err
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return DeleteCategoryAction{ID: id}, nil

	case ActionReorderCategories:
		ids, err := decodeOrderedIDs(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return ReorderCategoriesAction{IDs: ids}, nil

	case ActionImport:
		document := bytes.TrimSpace(data)
		// 兼容以字符串形式提交的 JSON 文档
		if len(document) > 0 && document[0] == '"' {
			var text string
			if err := json.Unmarshal(document, &text); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
			}
			document = []byte(text)
		}
		return ImportAction{Document: document}, nil

	case ActionReset:
		return ResetAction{}, nil

	case ActionClear:
		return ClearAction{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
}

func decodePayload(data json.RawMessage, dst interface{}) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("missing data")
	}
	return json.Unmarshal(data, dst)
}

// decodeStringOrField 接受 "value" 或 {"field": "value"} 两种载荷
func decodeStringOrField(data json.RawMessage, field func(json.RawMessage) (string, error)) (string, error) {
	if err := decodePayload(data, new(json.RawMessage)); err != nil {
		return "", err
	}
	var value string
	if err := json.Unmarshal(data, &value); err == nil {
		return value, nil
	}
	value, err := field(data)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("missing identifier")
	}
	return value, nil
}

// decodeOrderedIDs 接受 ID 列表或完整类型列表
func decodeOrderedIDs(data json.RawMessage) ([]string, error) {
	if err := decodePayload(data, new(json.RawMessage)); err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		return ids, nil
	}
	var categories []idRef
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	ids = make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids, nil
}
