package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"atii-cms/internal/server/database"
	"atii-cms/internal/server/models"
	"atii-cms/internal/shared/config"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func strPtr(s string) *string { return &s }

func threeSteps() []models.WorkflowStepInput {
	return []models.WorkflowStepInput{
		{Label: "Заявка", Type: models.StepTypeTrigger, Position: "1"},
		{Label: "Обработка", Type: models.StepTypeProcess, Position: "2"},
		{Label: "Готово", Type: models.StepTypeComplete, Position: "3"},
	}
}

func TestWebsiteCRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewWebsiteService(newTestDB(t))

	created, err := svc.Create(ctx, &models.WebsiteCreateRequest{
		Name:         "Portal",
		Client:       "ACME",
		Technologies: []string{"Go", "Vue"},
		Category:     "corporate",
		Featured:     true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("id not assigned")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Portal" || got.Client != "ACME" || !got.Featured || len(got.Technologies) != 2 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// 只改一个字段，其余保持不变
	updated, err := svc.Update(ctx, created.ID, &models.WebsiteUpdateRequest{Client: strPtr("Globex")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Client != "Globex" || updated.Name != "Portal" || updated.Category != "corporate" || !updated.Featured {
		t.Errorf("partial update touched other fields: %+v", updated)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestWebsiteUpdateMissing(t *testing.T) {
	svc := NewWebsiteService(newTestDB(t))
	_, err := svc.Update(context.Background(), "missing", &models.WebsiteUpdateRequest{Name: strPtr("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestWebsiteListFilters(t *testing.T) {
	ctx := context.Background()
	svc := NewWebsiteService(newTestDB(t))

	for _, req := range []models.WebsiteCreateRequest{
		{Name: "a", Category: "shop", Featured: true},
		{Name: "b", Category: "shop"},
		{Name: "c", Category: "blog", Featured: true},
	} {
		req := req
		if _, err := svc.Create(ctx, &req); err != nil {
			t.Fatalf("create %s: %v", req.Name, err)
		}
	}

	featured := true
	list, err := svc.List(ctx, ListOptions{}, WebsiteFilter{Featured: &featured})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("featured = %d, want 2", len(list))
	}

	list, err = svc.List(ctx, ListOptions{}, WebsiteFilter{Category: "shop"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("shop = %d, want 2", len(list))
	}

	list, err = svc.List(ctx, ListOptions{Skip: 1, Limit: 1}, WebsiteFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("paged = %d, want 1", len(list))
	}
}

func TestPageDuplicateConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewPageService(newTestDB(t))

	original, err := svc.Create(ctx, &models.PageCreateRequest{
		PageID:   "home",
		Name:     "Главная",
		Sections: 3,
		Content:  datatypes.JSON(`{"hero":{"title":"Hi"}}`),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Create(ctx, &models.PageCreateRequest{PageID: "home", Name: "Other", Sections: 9})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate create = %v, want ErrConflict", err)
	}

	got, err := svc.Get(ctx, "home")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != original.ID || got.Name != "Главная" || got.Sections != 3 {
		t.Errorf("existing row altered: %+v", got)
	}
}

func TestPageKeyAndUpdatedLabel(t *testing.T) {
	ctx := context.Background()
	svc := NewPageService(newTestDB(t))

	page, err := svc.Create(ctx, &models.PageCreateRequest{PageID: "about", Name: "О нас", Updated: "вчера"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := svc.Get(ctx, page.ID)
	if err != nil || byID.PageID != "about" {
		t.Fatalf("get by id = %+v, %v", byID, err)
	}

	updated, err := svc.Update(ctx, "about", &models.PageUpdateRequest{Name: strPtr("About")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Updated != models.PageJustUpdated {
		t.Errorf("updated label = %q", updated.Updated)
	}
	if updated.Name != "About" || updated.PageID != "about" {
		t.Errorf("update = %+v", updated)
	}

	updated, err = svc.Update(ctx, page.ID, &models.PageUpdateRequest{Updated: strPtr("2 часа назад")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Updated != "2 часа назад" {
		t.Errorf("explicit label lost: %q", updated.Updated)
	}

	if _, err := svc.Create(ctx, &models.PageCreateRequest{PageID: "contacts", Name: "Контакты"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(ctx, "contacts", &models.PageUpdateRequest{PageID: strPtr("about")}); !errors.Is(err, ErrConflict) {
		t.Errorf("rename onto taken page_id = %v, want ErrConflict", err)
	}

	if err := svc.Delete(ctx, "about"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, page.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestPageRejectsNonObjectContent(t *testing.T) {
	svc := NewPageService(newTestDB(t))
	_, err := svc.Create(context.Background(), &models.PageCreateRequest{
		PageID:  "x",
		Name:    "x",
		Content: datatypes.JSON(`[1,2]`),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestTemplateStepsOrderAndReplace(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(newTestDB(t))

	// 提交顺序打乱，读取时按 position 排序
	steps := threeSteps()
	steps[0], steps[2] = steps[2], steps[0]
	created, err := svc.Create(ctx, &models.TemplateCreateRequest{
		Title:    "CRM",
		Workflow: steps,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != models.TemplateStatusActive {
		t.Errorf("default status = %q", created.Status)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.WorkflowSteps) != 3 {
		t.Fatalf("steps = %d, want 3", len(got.WorkflowSteps))
	}
	for i, want := range []string{"1", "2", "3"} {
		if got.WorkflowSteps[i].Position != want {
			t.Errorf("step %d position = %q, want %q", i, got.WorkflowSteps[i].Position, want)
		}
	}

	// 不传 workflow 时步骤不变
	updated, err := svc.Update(ctx, created.ID, &models.TemplateUpdateRequest{Title: strPtr("CRM v2")})
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if updated.Title != "CRM v2" || len(updated.WorkflowSteps) != 3 {
		t.Errorf("title-only update = %q, %d steps", updated.Title, len(updated.WorkflowSteps))
	}

	one := []models.WorkflowStepInput{{Label: "Только", Type: models.StepTypeAPI, Position: "1"}}
	updated, err = svc.Update(ctx, created.ID, &models.TemplateUpdateRequest{Workflow: &one})
	if err != nil {
		t.Fatalf("replace steps: %v", err)
	}
	if len(updated.WorkflowSteps) != 1 || updated.WorkflowSteps[0].Label != "Только" {
		t.Errorf("replace = %+v", updated.WorkflowSteps)
	}
	if n, _ := svc.countSteps(ctx, created.ID); n != 1 {
		t.Errorf("stored steps = %d, want 1", n)
	}

	empty := []models.WorkflowStepInput{}
	updated, err = svc.Update(ctx, created.ID, &models.TemplateUpdateRequest{Workflow: &empty})
	if err != nil {
		t.Fatalf("clear steps: %v", err)
	}
	if updated.WorkflowSteps == nil || len(updated.WorkflowSteps) != 0 {
		t.Errorf("cleared steps = %#v", updated.WorkflowSteps)
	}
}

func TestTemplateStepsLexicalPositionOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(newTestDB(t))

	created, err := svc.Create(ctx, &models.TemplateCreateRequest{
		Title: "Lexical",
		Workflow: []models.WorkflowStepInput{
			{Label: "two", Type: models.StepTypeProcess, Position: "2"},
			{Label: "ten", Type: models.StepTypeProcess, Position: "10"},
			{Label: "two-one", Type: models.StepTypeProcess, Position: "2.1"},
			{Label: "first-of-pair", Type: models.StepTypeAPI, Position: "3"},
			{Label: "second-of-pair", Type: models.StepTypeNotification, Position: "3"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// position 按字符串比较："10" < "2" < "2.1" < "3"，相同 position 保持提交顺序
	want := []string{"ten", "two", "two-one", "first-of-pair", "second-of-pair"}
	if len(got.WorkflowSteps) != len(want) {
		t.Fatalf("steps = %d, want %d", len(got.WorkflowSteps), len(want))
	}
	for i, label := range want {
		if got.WorkflowSteps[i].Label != label {
			t.Errorf("step %d = %q (position %q), want %q", i, got.WorkflowSteps[i].Label, got.WorkflowSteps[i].Position, label)
		}
	}
}

func TestTemplateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(newTestDB(t))

	_, err := svc.Create(ctx, &models.TemplateCreateRequest{Title: "x", Status: "archived"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad status = %v", err)
	}

	_, err = svc.Create(ctx, &models.TemplateCreateRequest{
		Title:    "x",
		Workflow: []models.WorkflowStepInput{{Label: "a", Type: "email", Position: "1"}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad step type = %v", err)
	}

	created, err := svc.Create(ctx, &models.TemplateCreateRequest{Title: "ok"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bad := models.TemplateStatus("draft")
	if _, err := svc.Update(ctx, created.ID, &models.TemplateUpdateRequest{Status: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad status on update = %v", err)
	}
}

func TestTemplateListStatusFilter(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(newTestDB(t))

	for _, status := range []models.TemplateStatus{models.TemplateStatusActive, models.TemplateStatusInactive, models.TemplateStatusActive} {
		if _, err := svc.Create(ctx, &models.TemplateCreateRequest{Title: "t", Status: status}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := svc.List(ctx, ListOptions{}, string(models.TemplateStatusInactive))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("inactive = %d, want 1", len(list))
	}

	list, err = svc.List(ctx, ListOptions{}, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("all = %d, want 3", len(list))
	}
}

func TestTemplateDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	templates := NewTemplateService(db)
	schemas := NewWorkflowSchemaService(db)

	created, err := templates.Create(ctx, &models.TemplateCreateRequest{Title: "ERP", Workflow: threeSteps()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := schemas.Create(ctx, &models.WorkflowSchemaCreateRequest{
		TemplateID: created.ID,
		Nodes:      datatypes.JSON(`[{"id":"n1"}]`),
	}); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	if err := templates.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, err := templates.countSteps(ctx, created.ID); err != nil || n != 0 {
		t.Errorf("steps after delete = %d, %v", n, err)
	}
	if _, err := schemas.GetByTemplate(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("schema after template delete = %v, want ErrNotFound", err)
	}
	if err := templates.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestWorkflowSchemaLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	templates := NewTemplateService(db)
	schemas := NewWorkflowSchemaService(db)

	if _, err := schemas.Create(ctx, &models.WorkflowSchemaCreateRequest{TemplateID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("create for missing template = %v, want ErrNotFound", err)
	}

	tpl, err := templates.Create(ctx, &models.TemplateCreateRequest{Title: "Bot"})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	schema, err := schemas.Create(ctx, &models.WorkflowSchemaCreateRequest{TemplateID: tpl.ID})
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if string(schema.Nodes) != "[]" {
		t.Errorf("default nodes = %s", schema.Nodes)
	}

	if _, err := schemas.Create(ctx, &models.WorkflowSchemaCreateRequest{TemplateID: tpl.ID}); !errors.Is(err, ErrConflict) {
		t.Errorf("second schema = %v, want ErrConflict", err)
	}

	nodes := datatypes.JSON(`[{"id":"a","x":10}]`)
	updated, err := schemas.UpdateByTemplate(ctx, tpl.ID, &models.WorkflowSchemaUpdateRequest{Nodes: &nodes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != schema.ID || string(updated.Nodes) != `[{"id":"a","x":10}]` {
		t.Errorf("update = %+v", updated)
	}

	if err := schemas.DeleteByTemplate(ctx, tpl.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := schemas.DeleteByTemplate(ctx, tpl.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestSettingsSingleton(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(newTestDB(t))

	first, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first.ID == "" {
		t.Fatal("id not assigned")
	}
	if first.SiteName != models.DefaultSiteName || first.PrimaryColor != models.DefaultPrimaryColor ||
		first.AccentColor != models.DefaultAccentColor || first.BackgroundColor != models.DefaultBackgroundColor {
		t.Errorf("defaults = %+v", first)
	}

	second, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second get id = %s, want %s", second.ID, first.ID)
	}
}

func TestSettingsConcurrentFirstRead(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewSettingsService(db)

	const readers = 8
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		ids   = make([]string, readers)
		errs  = make([]error, readers)
	)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			settings, err := svc.Get(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = settings.ID
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("reader %d: %v", i, err)
		}
	}
	for i, id := range ids {
		if id == "" || id != ids[0] {
			t.Errorf("reader %d id = %q, want %q", i, id, ids[0])
		}
	}

	var count int64
	if err := db.Model(&models.Settings{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("settings rows = %d, want 1", count)
	}
}

func TestSettingsUpdateBeforeFirstRead(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewSettingsService(db)

	updated, err := svc.Update(ctx, &models.SettingsUpdateRequest{Domain: strPtr("atii.example")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Domain != "atii.example" || updated.SiteName != models.DefaultSiteName {
		t.Errorf("update = %+v", updated)
	}

	var count int64
	if err := db.Model(&models.Settings{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("settings rows = %d, want 1", count)
	}
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	if _, err := NewWebsiteService(db).Create(ctx, &models.WebsiteCreateRequest{Name: "w", Featured: true}); err != nil {
		t.Fatalf("website: %v", err)
	}
	if _, err := NewTemplateService(db).Create(ctx, &models.TemplateCreateRequest{
		Title:    "t",
		Status:   models.TemplateStatusInactive,
		Workflow: threeSteps(),
	}); err != nil {
		t.Fatalf("template: %v", err)
	}

	dashboard := NewDashboardService(db)
	stats, err := dashboard.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Websites != 1 || stats.FeaturedWebsites != 1 {
		t.Errorf("websites = %d/%d", stats.Websites, stats.FeaturedWebsites)
	}
	if stats.Templates.Total != 1 || stats.Templates.Inactive != 1 || stats.WorkflowSteps != 3 {
		t.Errorf("templates = %+v, steps = %d", stats.Templates, stats.WorkflowSteps)
	}

	health := dashboard.GetSystemHealth(ctx)
	if health.Checks["database"].Status != "ok" {
		t.Errorf("database check = %+v", health.Checks["database"])
	}
}

func TestTranslateError(t *testing.T) {
	if TranslateError(nil, "x") != nil {
		t.Error("nil not preserved")
	}
	if !errors.Is(TranslateError(gorm.ErrRecordNotFound, "x"), ErrNotFound) {
		t.Error("record not found not mapped")
	}
	if !errors.Is(TranslateError(gorm.ErrDuplicatedKey, "x"), ErrConflict) {
		t.Error("duplicated key not mapped")
	}
	other := errors.New("disk full")
	if err := TranslateError(other, "x"); !errors.Is(err, other) || errors.Is(err, ErrConflict) {
		t.Errorf("unexpected wrap: %v", err)
	}
}
