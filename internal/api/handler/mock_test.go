package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/api/middleware"
	"github.com/kdm-dev/tubevault/internal/cache"
	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/domain/repository"
	"github.com/kdm-dev/tubevault/internal/infrastructure/session"
	"github.com/kdm-dev/tubevault/internal/usecase"
)

type mockSearchService struct {
	searchFn  func(ctx context.Context, query string, searchType model.SearchType, userID *uuid.UUID) (*model.SearchResult, error)
	channelFn func(ctx context.Context, channelID string) (*model.ChannelPage, error)
	statsFn   func() cache.Stats
}

func (m *mockSearchService) Search(ctx context.Context, query string, searchType model.SearchType, userID *uuid.UUID) (*model.SearchResult, error) {
	return m.searchFn(ctx, query, searchType, userID)
}

func (m *mockSearchService) BrowseChannel(ctx context.Context, channelID string) (*model.ChannelPage, error) {
	return m.channelFn(ctx, channelID)
}

func (m *mockSearchService) CacheStats() cache.Stats {
	if m.statsFn != nil {
		return m.statsFn()
	}
	return cache.Stats{}
}

type mockDownloadService struct {
	streamsFn  func(ctx context.Context, videoID string) (*model.StreamOptions, error)
	downloadFn func(ctx context.Context, videoID string, itag int) (*model.DownloadResult, error)
	directFn   func(ctx context.Context, videoID, selector string) (*model.DownloadResult, error)
}

func (m *mockDownloadService) GetStreamOptions(ctx context.Context, videoID string) (*model.StreamOptions, error) {
	return m.streamsFn(ctx, videoID)
}

func (m *mockDownloadService) Download(ctx context.Context, videoID string, itag int) (*model.DownloadResult, error) {
	return m.downloadFn(ctx, videoID, itag)
}

func (m *mockDownloadService) DirectDownload(ctx context.Context, videoID, selector string) (*model.DownloadResult, error) {
	return m.directFn(ctx, videoID, selector)
}

type mockUserService struct {
	registerFn     func(ctx context.Context, username, email, password string) (*model.User, error)
	authenticateFn func(ctx context.Context, username, password string) (*model.User, error)
}

func (m *mockUserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	return m.registerFn(ctx, username, email, password)
}

func (m *mockUserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	return m.authenticateFn(ctx, username, password)
}

type mockSessionManager struct {
	createFn func(ctx context.Context, userID uuid.UUID, username string) (*session.Session, error)
	deleteFn func(ctx context.Context, token string) error

	deleted []string
}

func (m *mockSessionManager) Create(ctx context.Context, userID uuid.UUID, username string) (*session.Session, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, username)
	}
	return &session.Session{
		Token:     "tok-" + userID.String(),
		UserID:    userID,
		Username:  username,
		CreatedAt: time.Now(),
	}, nil
}

func (m *mockSessionManager) Delete(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

type mockLibraryService struct {
	saveFn       func(ctx context.Context, input usecase.SaveVideoInput) (*model.UserVideo, error)
	listFn       func(ctx context.Context, userID uuid.UUID) ([]*model.UserVideo, error)
	updateFn     func(ctx context.Context, id, userID uuid.UUID, input usecase.UpdateVideoInput) (*model.UserVideo, error)
	deleteFn     func(ctx context.Context, id, userID uuid.UUID) error
	requestFn    func(ctx context.Context, id, userID uuid.UUID, itag int) error
	archiveURLFn func(ctx context.Context, id, userID uuid.UUID) (string, error)
	historyFn    func(ctx context.Context, userID uuid.UUID) ([]*model.SearchHistory, error)
	delHistoryFn func(ctx context.Context, id, userID uuid.UUID) error
	clearFn      func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockLibraryService) SaveVideo(ctx context.Context, input usecase.SaveVideoInput) (*model.UserVideo, error) {
	return m.saveFn(ctx, input)
}

func (m *mockLibraryService) ListVideos(ctx context.Context, userID uuid.UUID) ([]*model.UserVideo, error) {
	return m.listFn(ctx, userID)
}

func (m *mockLibraryService) UpdateVideo(ctx context.Context, id, userID uuid.UUID, input usecase.UpdateVideoInput) (*model.UserVideo, error) {
	return m.updateFn(ctx, id, userID, input)
}

func (m *mockLibraryService) DeleteVideo(ctx context.Context, id, userID uuid.UUID) error {
	return m.deleteFn(ctx, id, userID)
}

func (m *mockLibraryService) RequestDownload(ctx context.Context, id, userID uuid.UUID, itag int) error {
	return m.requestFn(ctx, id, userID, itag)
}

func (m *mockLibraryService) ArchiveDownloadURL(ctx context.Context, id, userID uuid.UUID) (string, error) {
	return m.archiveURLFn(ctx, id, userID)
}

func (m *mockLibraryService) ListHistory(ctx context.Context, userID uuid.UUID) ([]*model.SearchHistory, error) {
	return m.historyFn(ctx, userID)
}

func (m *mockLibraryService) DeleteHistory(ctx context.Context, id, userID uuid.UUID) error {
	return m.delHistoryFn(ctx, id, userID)
}

func (m *mockLibraryService) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	return m.clearFn(ctx, userID)
}

type mockSessionResolver struct {
	sessions map[string]*session.Session
}

func (m *mockSessionResolver) Get(ctx context.Context, token string) (*session.Session, error) {
	if sess, ok := m.sessions[token]; ok {
		return sess, nil
	}
	return nil, repository.ErrSessionNotFound
}

// serveAuthed runs a request through the session middleware with the given
// session attached, mirroring how the router mounts handlers.
func serveAuthed(h http.Handler, r *http.Request, sess *session.Session) *httptest.ResponseRecorder {
	resolver := &mockSessionResolver{sessions: map[string]*session.Session{}}
	if sess != nil {
		resolver.sessions[sess.Token] = sess
		r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sess.Token})
	}

	rec := httptest.NewRecorder()
	middleware.Auth(resolver)(h).ServeHTTP(rec, r)
	return rec
}

func testSession(userID uuid.UUID, username string) *session.Session {
	return &session.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Username:  username,
		CreatedAt: time.Now(),
	}
}
