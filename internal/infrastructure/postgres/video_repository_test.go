package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/domain/repository"
)

var userVideoColumnNames = []string{
	"id", "user_id", "video_id", "custom_title", "notes", "favorite",
	"downloaded", "download_date", "download_path", "download_quality", "archive_key",
	"created_at", "updated_at",
}

func TestVideoRepository_Upsert(t *testing.T) {
	video := &model.Video{
		ID:           "dQw4w9WgXcQ",
		Title:        "Test Video",
		ThumbnailURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		CreatedAt:    time.Now(),
	}

	tests := []struct {
		name    string
		mockFn  func(mock pgxmock.PgxPoolIface)
		wantErr bool
	}{
		{
			name: "successful upsert",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO videos").
					WithArgs(video.ID, video.Title, video.ThumbnailURL, video.SearchID, video.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "database error",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO videos").
					WithArgs(video.ID, video.Title, video.ThumbnailURL, video.SearchID, video.CreatedAt).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewVideoRepository(mock)
			err = repo.Upsert(context.Background(), video)

			if (err != nil) != tt.wantErr {
				t.Errorf("Upsert() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestVideoRepository_GetByID(t *testing.T) {
	now := time.Now()

	t.Run("successful retrieval", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id", "title", "thumbnail_url", "search_id", "created_at"}).
			AddRow("dQw4w9WgXcQ", "Test Video", "https://thumbs.example/t.jpg", (*uuid.UUID)(nil), now)
		mock.ExpectQuery("SELECT .* FROM videos").
			WithArgs("dQw4w9WgXcQ").
			WillReturnRows(rows)

		repo := NewVideoRepository(mock)
		got, err := repo.GetByID(context.Background(), "dQw4w9WgXcQ")
		if err != nil {
			t.Fatalf("GetByID() unexpected error = %v", err)
		}
		if got.ID != "dQw4w9WgXcQ" || got.Title != "Test Video" {
			t.Errorf("GetByID() = %+v", got)
		}
	})

	t.Run("video not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer mock.Close()

		mock.ExpectQuery("SELECT .* FROM videos").
			WithArgs("missing00000").
			WillReturnError(pgx.ErrNoRows)

		repo := NewVideoRepository(mock)
		_, err = repo.GetByID(context.Background(), "missing00000")
		if !errors.Is(err, repository.ErrVideoNotFound) {
			t.Errorf("GetByID() error = %v, want ErrVideoNotFound", err)
		}
	})
}

func TestUserVideoRepository_Create(t *testing.T) {
	uv, err := model.NewUserVideo(uuid.New(), "dQw4w9WgXcQ", "My copy", "")
	if err != nil {
		t.Fatalf("NewUserVideo failed: %v", err)
	}

	tests := []struct {
		name    string
		mockFn  func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "successful creation",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO user_videos").
					WithArgs(
						uv.ID, uv.UserID, uv.VideoID, uv.CustomTitle, uv.Notes, uv.Favorite,
						uv.Downloaded, uv.DownloadDate,
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						uv.CreatedAt, uv.UpdatedAt,
					).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "already saved",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO user_videos").
					WithArgs(
						uv.ID, uv.UserID, uv.VideoID, uv.CustomTitle, uv.Notes, uv.Favorite,
						uv.Downloaded, uv.DownloadDate,
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						uv.CreatedAt, uv.UpdatedAt,
					).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: repository.ErrDuplicateUserVideo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewUserVideoRepository(mock)
			err = repo.Create(context.Background(), uv)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Create() unexpected error = %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestUserVideoRepository_ListByUser(t *testing.T) {
	now := time.Now()
	userID := uuid.New()

	t.Run("returns saved videos with download state", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer mock.Close()

		downloadPath := "static/downloads/video_720p.mp4"
		quality := "720p"
		rows := pgxmock.NewRows(userVideoColumnNames).
			AddRow(uuid.New(), userID, "aaaaaaaaaaa", "First", "", false,
				true, &now, &downloadPath, &quality, (*string)(nil), now, now).
			AddRow(uuid.New(), userID, "bbbbbbbbbbb", "", "watch later", true,
				false, (*time.Time)(nil), (*string)(nil), (*string)(nil), (*string)(nil), now, now)
		mock.ExpectQuery("SELECT .* FROM user_videos").
			WithArgs(userID).
			WillReturnRows(rows)

		repo := NewUserVideoRepository(mock)
		got, err := repo.ListByUser(context.Background(), userID)
		if err != nil {
			t.Fatalf("ListByUser() unexpected error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("ListByUser() returned %d entries, want 2", len(got))
		}
		if !got[0].Downloaded || got[0].DownloadPath != downloadPath {
			t.Errorf("first entry download state = %+v", got[0])
		}
		if got[1].Downloaded || !got[1].Favorite {
			t.Errorf("second entry = %+v", got[1])
		}
	})

	t.Run("returns empty when no videos", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer mock.Close()

		mock.ExpectQuery("SELECT .* FROM user_videos").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows(userVideoColumnNames))

		repo := NewUserVideoRepository(mock)
		got, err := repo.ListByUser(context.Background(), userID)
		if err != nil {
			t.Fatalf("ListByUser() unexpected error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("ListByUser() returned %d entries, want 0", len(got))
		}
	})
}

func TestUserVideoRepository_Update(t *testing.T) {
	uv, err := model.NewUserVideo(uuid.New(), "dQw4w9WgXcQ", "", "")
	if err != nil {
		t.Fatalf("NewUserVideo failed: %v", err)
	}
	uv.MarkDownloaded("static/downloads/video_720p.mp4", "720p")

	t.Run("successful update", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer mock.Close()

		mock.ExpectExec("UPDATE user_videos").
			WithArgs(
				uv.ID, uv.UserID, uv.CustomTitle, uv.Notes, uv.Favorite,
				uv.Downloaded, pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(),
			).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewUserVideoRepository(mock)
		if err := repo.Update(context.Background(), uv); err != nil {
			t.Errorf("Update() unexpected error = %v", err)
		}
	})

	t.Run("entry not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer mock.Close()

		mock.ExpectExec("UPDATE user_videos").
			WithArgs(
				uv.ID, uv.UserID, uv.CustomTitle, uv.Notes, uv.Favorite,
				uv.Downloaded, pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(),
			).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewUserVideoRepository(mock)
		if err := repo.Update(context.Background(), uv); !errors.Is(err, repository.ErrUserVideoNotFound) {
			t.Errorf("Update() error = %v, want ErrUserVideoNotFound", err)
		}
	})
}

func TestUserVideoRepository_Delete(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()

	t.Run("delete scoped to owner", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer mock.Close()

		mock.ExpectExec("DELETE FROM user_videos").
			WithArgs(id, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewUserVideoRepository(mock)
		if err := repo.Delete(context.Background(), id, userID); err != nil {
			t.Errorf("Delete() unexpected error = %v", err)
		}
	})

	t.Run("entry not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer mock.Close()

		mock.ExpectExec("DELETE FROM user_videos").
			WithArgs(id, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewUserVideoRepository(mock)
		if err := repo.Delete(context.Background(), id, userID); !errors.Is(err, repository.ErrUserVideoNotFound) {
			t.Errorf("Delete() error = %v, want ErrUserVideoNotFound", err)
		}
	})
}

// containsError checks if err's message starts with the expected error's
// message.
func containsError(err, expected error) bool {
	if err == nil || expected == nil {
		return false
	}
	return strings.HasPrefix(err.Error(), expected.Error())
}
