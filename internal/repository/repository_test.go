package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jdocmanual-finder/internal/mocks"
	"github.com/jdocmanual-finder/internal/models"
	"github.com/jdocmanual-finder/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestLinkRepo_Upsert(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewLinkRepo(db)

	link := &models.Link{
		URL:        "index.php?option=com_jdocmanual&view=jdocmanual&id=42",
		Route:      "/jdocmanual?article=M1/H1/intro",
		Title:      "Intro",
		TypeTitle:  "Jdocmanual",
		Language:   "en-GB",
		State:      1,
		Access:     1,
		Taxonomies: []models.Taxonomy{{Branch: "Type", Title: "Jdocmanual"}},
		Robots:     "noindex, follow",
	}

	mock.ExpectQuery("(?s)INSERT INTO finder_links .*\\s+ON CONFLICT \\(url\\) DO UPDATE SET.*\\s+RETURNING link_id").
		WithArgs(link.URL, link.Route, link.Title, "", "Jdocmanual", "en-GB", 1, 1, sqlmock.AnyArg(), "noindex, follow", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"link_id"}).AddRow(7))

	id, err := repo.Upsert(context.Background(), link)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if id != 7 || link.LinkID != 7 {
		t.Errorf("Expected link id 7, got %d (link.LinkID %d)", id, link.LinkID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestLinkRepo_IDsByURL(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewLinkRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT link_id FROM finder_links WHERE url = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"link_id"}).AddRow(3).AddRow(4))

	ids, err := repo.IDsByURL(context.Background(), "u1")
	if err != nil {
		t.Fatalf("IDsByURL failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 4 {
		t.Errorf("Expected [3 4], got %v", ids)
	}
}

func TestLinkRepo_IDsByType_QueryError(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewLinkRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT link_id FROM finder_links WHERE type_title = $1 ORDER BY link_id")).
		WithArgs("Jdocmanual").
		WillReturnError(errors.New("boom"))

	if _, err := repo.IDsByType(context.Background(), "Jdocmanual"); err == nil {
		t.Error("Expected error from IDsByType")
	}
}

func TestLinkRepo_Updates(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewLinkRepo(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE finder_links SET state = $1 WHERE url = $2")).
		WithArgs(0, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE finder_links SET access = $1 WHERE url = $2")).
		WithArgs(3, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM finder_links WHERE link_id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateState(ctx, "u1", 0); err != nil {
		t.Fatalf("UpdateState failed: %v", err)
	}
	if err := repo.UpdateAccess(ctx, "u1", 3); err != nil {
		t.Fatalf("UpdateAccess failed: %v", err)
	}
	if err := repo.Delete(ctx, 9); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestLinkRepo_GetVisible(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewLinkRepo(db)
	now := time.Now()

	mock.ExpectQuery("(?s)SELECT link_id, url, .*\\s+FROM finder_links\\s+WHERE link_id = ANY\\(\\$1\\) AND state = 1 AND access = 1").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"link_id", "url", "route", "title", "description", "type_title",
			"language", "state", "access", "taxonomies", "robots", "indexdate",
		}).AddRow(1, "u1", "/r1", "Intro", "", "Jdocmanual", "en-GB", 1, 1, "{Type:Jdocmanual,Language:en-GB}", "noindex", now))

	links, err := repo.GetVisible(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("GetVisible failed: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(links))
	}
	if links[0].Robots != "noindex" {
		t.Errorf("Expected robots noindex, got %q", links[0].Robots)
	}
	want := []models.Taxonomy{{Branch: "Type", Title: "Jdocmanual"}, {Branch: "Language", Title: "en-GB"}}
	if len(links[0].Taxonomies) != 2 || links[0].Taxonomies[0] != want[0] || links[0].Taxonomies[1] != want[1] {
		t.Errorf("Expected taxonomies %v, got %v", want, links[0].Taxonomies)
	}
}

func TestLinkRepo_GetVisible_NoIDs(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewLinkRepo(db)

	links, err := repo.GetVisible(context.Background(), nil)
	if err != nil || links != nil {
		t.Errorf("Expected nil, nil; got %v, %v", links, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unexpected query: %v", err)
	}
}

func TestMenuRepo_TitleByLink(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewMenuRepo(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT title FROM menu").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Getting Started"))
	mock.ExpectQuery("SELECT title FROM menu").
		WithArgs("u2").
		WillReturnRows(sqlmock.NewRows([]string{"title"}))

	title, err := repo.TitleByLink(ctx, "u1")
	if err != nil || title != "Getting Started" {
		t.Errorf("Expected menu title, got %q (%v)", title, err)
	}

	// No menu entry is not an error
	title, err = repo.TitleByLink(ctx, "u2")
	if err != nil || title != "" {
		t.Errorf("Expected empty title, got %q (%v)", title, err)
	}
}

func TestExtensionRepo_IsEnabled(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewExtensionRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT enabled FROM extensions WHERE element = $1 AND type = 'component'")).
		WithArgs("com_jdocmanual").
		WillReturnRows(sqlmock.NewRows([]string{"enabled"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT enabled FROM extensions")).
		WithArgs("com_missing").
		WillReturnRows(sqlmock.NewRows([]string{"enabled"}))

	enabled, err := repo.IsEnabled(ctx, "com_jdocmanual")
	if err != nil || !enabled {
		t.Errorf("Expected enabled, got %v (%v)", enabled, err)
	}

	enabled, err = repo.IsEnabled(ctx, "com_missing")
	if err != nil || enabled {
		t.Errorf("Expected missing extension to be disabled, got %v (%v)", enabled, err)
	}
}

func TestExtensionRepo_Params(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewExtensionRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT params FROM extensions WHERE element = $1 AND type = 'component'")).
		WithArgs("com_jdocmanual").
		WillReturnRows(sqlmock.NewRows([]string{"params"}).AddRow([]byte(`{"installation_subfolder":"/docs"}`)))

	params, err := repo.Params(context.Background(), "com_jdocmanual")
	if err != nil {
		t.Fatalf("Params failed: %v", err)
	}
	if params.Subfolder() != "/docs" {
		t.Errorf("Expected subfolder /docs, got %q", params.Subfolder())
	}
	if params.Robots != nil {
		t.Errorf("Expected robots unset, got %q", *params.Robots)
	}
}

func TestExtensionRepo_Params_Invalid(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewExtensionRepo(db)

	mock.ExpectQuery("SELECT params FROM extensions").
		WithArgs("com_jdocmanual").
		WillReturnRows(sqlmock.NewRows([]string{"params"}).AddRow([]byte(`{not json`)))

	if _, err := repo.Params(context.Background(), "com_jdocmanual"); err == nil {
		t.Error("Expected error for malformed params")
	}
}

func TestMockLinkRepository_UpsertKeepsID(t *testing.T) {
	repo := mocks.NewMockLinkRepository()
	ctx := context.Background()

	first, err := repo.Upsert(ctx, &models.Link{URL: "u1", Title: "Old", State: 1, Access: 1})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	second, err := repo.Upsert(ctx, &models.Link{URL: "u1", Title: "New", State: 1, Access: 1})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if first != second {
		t.Errorf("Expected stable link id, got %d then %d", first, second)
	}
	if got := repo.ByURL("u1").Title; got != "New" {
		t.Errorf("Expected refreshed title, got %q", got)
	}

	count, _ := repo.Count(ctx)
	if count != 1 {
		t.Errorf("Expected 1 link, got %d", count)
	}
}
