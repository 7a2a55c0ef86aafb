package usecase_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"panorama-api/domain/model"
)

// Mock implementations

type MockPanoramaRepo struct {
	mock.Mock
}

func (m *MockPanoramaRepo) GetByID(ctx context.Context, id string) (*model.PanoramaImage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PanoramaImage), args.Error(1)
}

func (m *MockPanoramaRepo) GetByURL(ctx context.Context, url string) (*model.PanoramaImage, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PanoramaImage), args.Error(1)
}

func (m *MockPanoramaRepo) ListActive(ctx context.Context, limit, offset int) ([]*model.PanoramaImage, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PanoramaImage), args.Error(1)
}

func (m *MockPanoramaRepo) ListArchived(ctx context.Context, limit, offset int) ([]*model.PanoramaImage, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PanoramaImage), args.Error(1)
}

func (m *MockPanoramaRepo) Insert(ctx context.Context, img *model.PanoramaImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockPanoramaRepo) Update(ctx context.Context, img *model.PanoramaImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockPanoramaRepo) Archive(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockPanoramaRepo) Restore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPanoramaRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPanoramaRepo) MarkPosted(ctx context.Context, id, postID string, at time.Time) error {
	args := m.Called(ctx, id, postID, at)
	return args.Error(0)
}

func (m *MockPanoramaRepo) ListPanels(ctx context.Context, imageID string) ([]*model.PanoramaPanel, error) {
	args := m.Called(ctx, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PanoramaPanel), args.Error(1)
}

func (m *MockPanoramaRepo) ReplacePanels(ctx context.Context, imageID string, urls []string) error {
	args := m.Called(ctx, imageID, urls)
	return args.Error(0)
}

func (m *MockPanoramaRepo) DeletePanels(ctx context.Context, imageID string) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, bucket, objectName, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, bucket, objectName string) error {
	args := m.Called(ctx, bucket, objectName)
	return args.Error(0)
}

func (m *MockObjectStorage) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	args := m.Called(ctx, bucket, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockObjectStorage) ObjectKeyFromURL(rawURL string) (string, string, bool) {
	args := m.Called(rawURL)
	return args.String(0), args.String(1), args.Bool(2)
}

type MockTagRepo struct {
	mock.Mock
}

func (m *MockTagRepo) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagRepo) Insert(ctx context.Context, tag *model.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepo) ListAll(ctx context.Context) ([]*model.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Tag), args.Error(1)
}

func (m *MockTagRepo) ListForImage(ctx context.Context, imageID string) ([]string, error) {
	args := m.Called(ctx, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTagRepo) DeleteForImage(ctx context.Context, imageID string) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

func (m *MockTagRepo) InsertImageTags(ctx context.Context, imageID string, tagIDs []int64) error {
	args := m.Called(ctx, imageID, tagIDs)
	return args.Error(0)
}

func (m *MockTagRepo) RecountUsage(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) Append(ctx context.Context, entry *model.InstagramPostHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepo) ListForPanorama(ctx context.Context, panoramaID string) ([]*model.InstagramPostHistory, error) {
	args := m.Called(ctx, panoramaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.InstagramPostHistory), args.Error(1)
}

type MockCredentialRepo struct {
	mock.Mock
}

func (m *MockCredentialRepo) Append(ctx context.Context, cred *model.InstagramCredential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialRepo) Latest(ctx context.Context) (*model.InstagramCredential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InstagramCredential), args.Error(1)
}

type MockInstagramClient struct {
	mock.Mock
}

func (m *MockInstagramClient) PublishImage(ctx context.Context, accessToken, businessAccountID, imageURL, caption string) (*model.GraphPublishResult, error) {
	args := m.Called(ctx, accessToken, businessAccountID, imageURL, caption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GraphPublishResult), args.Error(1)
}

func (m *MockInstagramClient) PublishCarousel(ctx context.Context, accessToken, businessAccountID string, panelURLs []string, caption string) (*model.GraphPublishResult, error) {
	args := m.Called(ctx, accessToken, businessAccountID, panelURLs, caption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GraphPublishResult), args.Error(1)
}

func (m *MockInstagramClient) ValidateToken(ctx context.Context, accessToken string) (bool, error) {
	args := m.Called(ctx, accessToken)
	return args.Bool(0), args.Error(1)
}

func (m *MockInstagramClient) RefreshToken(ctx context.Context, accessToken string) (*model.RefreshedToken, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshedToken), args.Error(1)
}
