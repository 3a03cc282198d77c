package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/frequentation/internal/db"
	"github.com/frequentation/internal/model"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name   string
		action string
		data   string
		want   Action
	}{
		{
			name:   "save day",
			action: ActionSaveDay,
			data:   `{"date":"2024-03-01","total_visites":5,"override_total":false,"typologies":[{"typologie_id":"1","count":5}],"note":"","estimee":false}`,
			want: SaveDayAction{Day: model.DayRecord{
				Date:        "2024-03-01",
				TotalVisits: 5,
				Counts:      []model.CategoryCount{{CategoryID: "1", Count: 5}},
			}},
		},
		{name: "delete day from string", action: ActionDeleteDay, data: `"2024-03-01"`, want: DeleteDayAction{Date: "2024-03-01"}},
		{name: "delete day from object", action: ActionDeleteDay, data: `{"date":"2024-03-01"}`, want: DeleteDayAction{Date: "2024-03-01"}},
		{name: "delete category", action: ActionDeleteCategory, data: `{"id":"3"}`, want: DeleteCategoryAction{ID: "3"}},
		{name: "reorder ids", action: ActionReorderCategories, data: `["3","1","2"]`, want: ReorderCategoriesAction{IDs: []string{"3", "1", "2"}}},
		{name: "reorder categories", action: ActionReorderCategories, data: `[{"id":"2","nom":"B"},{"id":"1","nom":"A"}]`, want: ReorderCategoriesAction{IDs: []string{"2", "1"}}},
		{name: "reset", action: ActionReset, data: ``, want: ResetAction{}},
		{name: "clear", action: ActionClear, data: `null`, want: ClearAction{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAction(tt.action, json.RawMessage(tt.data))
			if err != nil {
				t.Fatalf("DecodeAction returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("DecodeAction = %#v, want %#v", got, tt.want)
			}
			if got.Name() != tt.action {
				t.Fatalf("Name() = %s, want %s", got.Name(), tt.action)
			}
		})
	}
}

func TestDecodeActionErrors(t *testing.T) {
	if _, err := DecodeAction("dropTables", nil); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if _, err := DecodeAction(ActionSaveDay, nil); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload for missing data, got %v", err)
	}
	if _, err := DecodeAction(ActionDeleteCategory, json.RawMessage(`{}`)); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload for missing id, got %v", err)
	}
}

func TestDecodeImportAcceptsStringDocument(t *testing.T) {
	doc := `{"jours":[],"typologies":[],"version":1}`
	quoted, _ := json.Marshal(doc)

	action, err := DecodeAction(ActionImport, quoted)
	if err != nil {
		t.Fatalf("DecodeAction returned error: %v", err)
	}
	if string(action.(ImportAction).Document) != doc {
		t.Fatalf("unexpected document %s", action.(ImportAction).Document)
	}
}

func TestAddCategoryActionDefaultsToActive(t *testing.T) {
	cleanup := setupDataTestDB(t)
	defer cleanup()
	svc := newTestService(db.DB, false)

	action, err := DecodeAction(ActionAddCategory, json.RawMessage(`{"nom":"Bibliothèque","couleur":"#06b6d4"}`))
	if err != nil {
		t.Fatalf("DecodeAction returned error: %v", err)
	}

	data, err := action.Apply(context.Background(), svc)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	last := data.Categories[len(data.Categories)-1]
	if last.Name != "Bibliothèque" || !last.Active || last.Order != 6 || last.Color != "#06b6d4" {
		t.Fatalf("unexpected category %+v", last)
	}
}

func TestApplyReturnsUpdatedDataset(t *testing.T) {
	cleanup := setupDataTestDB(t)
	defer cleanup()
	svc := newTestService(db.DB, false)
	ctx := context.Background()

	data, err := SaveDayAction{Day: model.DayRecord{
		Date:   "2024-03-01",
		Counts: []model.CategoryCount{{CategoryID: "1", Count: 3}, {CategoryID: "2", Count: 2}},
	}}.Apply(ctx, svc)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(data.Days) != 1 || data.Days[0].TotalVisits != 5 {
		t.Fatalf("unexpected dataset %+v", data.Days)
	}

	data, err = DeleteCategoryAction{ID: "1"}.Apply(ctx, svc)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(data.Categories) != 4 || data.Days[0].TotalVisits != 5 {
		t.Fatalf("unexpected dataset after delete %+v", data)
	}

	data, err = ClearAction{}.Apply(ctx, svc)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if len(data.Days) != 0 || len(data.Categories) != 5 {
		t.Fatalf("unexpected dataset after clear %+v", data)
	}
}
