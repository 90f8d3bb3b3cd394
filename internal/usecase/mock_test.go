package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/domain/repository"
)

// mockUpstream provides a configurable mock for upstreamBrowser.
type mockUpstream struct {
	searchFn        func(ctx context.Context, query string, searchType model.SearchType) (*model.SearchResult, error)
	channelVideosFn func(ctx context.Context, channelID string) (*model.ChannelPage, error)

	searchCalls  int
	channelCalls int
}

func (m *mockUpstream) Search(ctx context.Context, query string, searchType model.SearchType) (*model.SearchResult, error) {
	m.searchCalls++
	if m.searchFn != nil {
		return m.searchFn(ctx, query, searchType)
	}
	return &model.SearchResult{SearchType: searchType}, nil
}

func (m *mockUpstream) ChannelVideos(ctx context.Context, channelID string) (*model.ChannelPage, error) {
	m.channelCalls++
	if m.channelVideosFn != nil {
		return m.channelVideosFn(ctx, channelID)
	}
	return &model.ChannelPage{ID: channelID}, nil
}

// mockSearchRecorder provides a configurable mock for searchRecorder.
type mockSearchRecorder struct {
	recordSearchFn func(ctx context.Context, entry *model.SearchHistory, videos []*model.Video) error

	entries []*model.SearchHistory
	videos  [][]*model.Video
}

func (m *mockSearchRecorder) RecordSearch(ctx context.Context, entry *model.SearchHistory, videos []*model.Video) error {
	m.entries = append(m.entries, entry)
	m.videos = append(m.videos, videos)
	if m.recordSearchFn != nil {
		return m.recordSearchFn(ctx, entry, videos)
	}
	return nil
}

// mockResolver provides a configurable mock for streamResolver.
type mockResolver struct {
	availableStreamsFn func(ctx context.Context, videoID string) (*model.StreamOptions, error)
}

func (m *mockResolver) AvailableStreams(ctx context.Context, videoID string) (*model.StreamOptions, error) {
	if m.availableStreamsFn != nil {
		return m.availableStreamsFn(ctx, videoID)
	}
	return &model.StreamOptions{VideoID: videoID}, nil
}

// mockDownloader provides a configurable mock for mediaDownloader.
type mockDownloader struct {
	downloadFn       func(ctx context.Context, videoID string, itag int) (*model.DownloadResult, error)
	directDownloadFn func(ctx context.Context, videoID, selector string) (*model.DownloadResult, error)

	downloadCalls int
	directCalls   int
	lastSelector  string
}

func (m *mockDownloader) Download(ctx context.Context, videoID string, itag int) (*model.DownloadResult, error) {
	m.downloadCalls++
	if m.downloadFn != nil {
		return m.downloadFn(ctx, videoID, itag)
	}
	return &model.DownloadResult{VideoID: videoID, Kind: model.ArtifactMedia}, nil
}

func (m *mockDownloader) DirectDownload(ctx context.Context, videoID, selector string) (*model.DownloadResult, error) {
	m.directCalls++
	m.lastSelector = selector
	if m.directDownloadFn != nil {
		return m.directDownloadFn(ctx, videoID, selector)
	}
	return &model.DownloadResult{VideoID: videoID, Kind: model.ArtifactMedia}, nil
}

// mockUserRepository provides a configurable mock for UserRepository.
type mockUserRepository struct {
	createFn        func(ctx context.Context, user *model.User) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*model.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, repository.ErrUserNotFound
}

// mockVideoRepository provides a configurable mock for VideoRepository.
type mockVideoRepository struct {
	upsertFn  func(ctx context.Context, video *model.Video) error
	getByIDFn func(ctx context.Context, id string) (*model.Video, error)
}

func (m *mockVideoRepository) Upsert(ctx context.Context, video *model.Video) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrVideoNotFound
}

// mockUserVideoRepository provides a configurable mock for
// UserVideoRepository.
type mockUserVideoRepository struct {
	createFn            func(ctx context.Context, uv *model.UserVideo) error
	getByIDFn           func(ctx context.Context, id, userID uuid.UUID) (*model.UserVideo, error)
	getByUserAndVideoFn func(ctx context.Context, userID uuid.UUID, videoID string) (*model.UserVideo, error)
	listByUserFn        func(ctx context.Context, userID uuid.UUID) ([]*model.UserVideo, error)
	updateFn            func(ctx context.Context, uv *model.UserVideo) error
	deleteFn            func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *mockUserVideoRepository) Create(ctx context.Context, uv *model.UserVideo) error {
	if m.createFn != nil {
		return m.createFn(ctx, uv)
	}
	return nil
}

func (m *mockUserVideoRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*model.UserVideo, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id, userID)
	}
	return nil, repository.ErrUserVideoNotFound
}

func (m *mockUserVideoRepository) GetByUserAndVideo(ctx context.Context, userID uuid.UUID, videoID string) (*model.UserVideo, error) {
	if m.getByUserAndVideoFn != nil {
		return m.getByUserAndVideoFn(ctx, userID, videoID)
	}
	return nil, repository.ErrUserVideoNotFound
}

func (m *mockUserVideoRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.UserVideo, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockUserVideoRepository) Update(ctx context.Context, uv *model.UserVideo) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, uv)
	}
	return nil
}

func (m *mockUserVideoRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

// mockSearchHistoryRepository provides a configurable mock for
// SearchHistoryRepository.
type mockSearchHistoryRepository struct {
	createFn      func(ctx context.Context, entry *model.SearchHistory) error
	listByUserFn  func(ctx context.Context, userID uuid.UUID, limit int) ([]*model.SearchHistory, error)
	deleteFn      func(ctx context.Context, id, userID uuid.UUID) error
	clearByUserFn func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockSearchHistoryRepository) Create(ctx context.Context, entry *model.SearchHistory) error {
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	return nil
}

func (m *mockSearchHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.SearchHistory, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockSearchHistoryRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func (m *mockSearchHistoryRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	if m.clearByUserFn != nil {
		return m.clearByUserFn(ctx, userID)
	}
	return nil
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishDownloadTaskFn  func(ctx context.Context, task repository.DownloadTask) error
	consumeDownloadTasksFn func(ctx context.Context, handler func(task repository.DownloadTask) error) error

	published []repository.DownloadTask
}

func (m *mockMessageQueue) PublishDownloadTask(ctx context.Context, task repository.DownloadTask) error {
	m.published = append(m.published, task)
	if m.publishDownloadTaskFn != nil {
		return m.publishDownloadTaskFn(ctx, task)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeDownloadTasks(ctx context.Context, handler func(task repository.DownloadTask) error) error {
	if m.consumeDownloadTasksFn != nil {
		return m.consumeDownloadTasksFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	uploadFn                       func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	downloadFn                     func(ctx context.Context, key string) (io.ReadCloser, error)
	generatePresignedDownloadURLFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
	existsFn                       func(ctx context.Context, key string) (bool, error)
	deleteFn                       func(ctx context.Context, key string) error

	uploadedKeys []string
	deletedKeys  []string
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	m.uploadedKeys = append(m.uploadedKeys, key)
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, size, contentType)
	}
	return nil
}

func (m *mockObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return nil, repository.ErrObjectNotFound
}

func (m *mockObjectStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedDownloadURLFn != nil {
		return m.generatePresignedDownloadURLFn(ctx, key, expiry)
	}
	return "http://example.com/archive/" + key, nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	m.deletedKeys = append(m.deletedKeys, key)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}
