package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"panorama-api/domain/dto"
	"panorama-api/domain/model"
	"panorama-api/domain/repository"
	"panorama-api/infrastructure/cache"
	"panorama-api/usecase"
)

func newPanoramaUsecase(panoRepo *MockPanoramaRepo, tagRepo *MockTagRepo, storage *MockObjectStorage) usecase.IPanoramaUsecase {
	resolver := usecase.NewTagResolver(tagRepo, cache.NewTagCache(nil))
	return usecase.NewPanoramaUsecase(panoRepo, tagRepo, resolver, storage)
}

func TestGetDegradesToEmptyTagsWhenTablesMissing(t *testing.T) {
	panoRepo := new(MockPanoramaRepo)
	tagRepo := new(MockTagRepo)
	uc := newPanoramaUsecase(panoRepo, tagRepo, new(MockObjectStorage))

	panoRepo.On("GetByID", mock.Anything, "img-1").Return(&model.PanoramaImage{ID: "img-1"}, nil)
	tagRepo.On("ListForImage", mock.Anything, "img-1").Return(nil, repository.ErrTagsUnavailable)

	img, err := uc.Get(context.Background(), "img-1")

	assert.NoError(t, err)
	assert.Equal(t, []string{}, img.Tags)
}

func TestListActiveHasMoreHeuristic(t *testing.T) {
	panoRepo := new(MockPanoramaRepo)
	tagRepo := new(MockTagRepo)
	uc := newPanoramaUsecase(panoRepo, tagRepo, new(MockObjectStorage))

	fullPage := make([]*model.PanoramaImage, 3)
	for i := range fullPage {
		fullPage[i] = &model.PanoramaImage{ID: string(rune('a' + i))}
	}
	panoRepo.On("ListActive", mock.Anything, 3, 0).Return(fullPage, nil).Once()
	panoRepo.On("ListActive", mock.Anything, 3, 3).Return(fullPage[:2], nil).Once()
	tagRepo.On("ListForImage", mock.Anything, mock.Anything).Return([]string{}, nil)

	page, err := uc.ListActive(context.Background(), dto.PageRequest{Limit: 3, Offset: 0})
	assert.NoError(t, err)
	assert.True(t, page.HasMore)

	page, err = uc.ListActive(context.Background(), dto.PageRequest{Limit: 3, Offset: 3})
	assert.NoError(t, err)
	assert.False(t, page.HasMore)
}

func TestListActiveNormalizesPageRequest(t *testing.T) {
	panoRepo := new(MockPanoramaRepo)
	tagRepo := new(MockTagRepo)
	uc := newPanoramaUsecase(panoRepo, tagRepo, new(MockObjectStorage))

	panoRepo.On("ListActive", mock.Anything, dto.DefaultPageLimit, 0).
		Return([]*model.PanoramaImage{}, nil).Once()

	page, err := uc.ListActive(context.Background(), dto.PageRequest{Limit: 0, Offset: -5})

	assert.NoError(t, err)
	assert.Equal(t, dto.DefaultPageLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.False(t, page.HasMore)
	panoRepo.AssertExpectations(t)
}

func TestSaveCreateDefaultsToDraft(t *testing.T) {
	panoRepo := new(MockPanoramaRepo)
	tagRepo := new(MockTagRepo)
	uc := newPanoramaUsecase(panoRepo, tagRepo, new(MockObjectStorage))

	var createdID string
	panoRepo.On("Insert", mock.Anything, mock.MatchedBy(func(img *model.PanoramaImage) bool {
		createdID = img.ID
		return img.ID != "" && img.Status == model.StatusDraft && img.UserID == "user-1"
	})).Return(nil).Once()
	panoRepo.On("GetByID", mock.Anything, mock.Anything).Return(&model.PanoramaImage{ID: "created"}, nil)
	tagRepo.On("ListForImage", mock.Anything, mock.Anything).Return([]string{}, nil)

	_, err := uc.Save(context.Background(), "user-1", &dto.SavePanoramaRequest{
		OriginalURL: "https://cdn.example.com/o.jpg",
		Title:       "Alps",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, createdID)
	panoRepo.AssertExpectations(t)
}

func TestSaveCreateRejectsPostedStatus(t *testing.T) {
	uc := newPanoramaUsecase(new(MockPanoramaRepo), new(MockTagRepo), new(MockObjectStorage))

	_, err := uc.Save(context.Background(), "user-1", &dto.SavePanoramaRequest{
		OriginalURL: "https://cdn.example.com/o.jpg",
		Title:       "Alps",
		Status:      model.StatusPosted,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot create")
}

func TestSaveRejectsUnknownStatus(t *testing.T) {
	uc := newPanoramaUsecase(new(MockPanoramaRepo), new(MockTagRepo), new(MockObjectStorage))

	_, err := uc.Save(context.Background(), "user-1", &dto.SavePanoramaRequest{
		OriginalURL: "https://cdn.example.com/o.jpg",
		Title:       "Alps",
		Status:      "published",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestSaveCannotArchiveThroughEditSave(t *testing.T) {
	panoRepo := new(MockPanoramaRepo)
	uc := newPanoramaUsecase(panoRepo, new(MockTagRepo), new(MockObjectStorage))

	panoRepo.On("GetByID", mock.Anything, "img-1").Return(&model.PanoramaImage{
		ID:     "img-1",
		Status: model.StatusDraft,
	}, nil)

	_, err := uc.Save(context.Background(), "user-1", &dto.SavePanoramaRequest{
		ID:          "img-1",
		OriginalURL: "https://cdn.example.com/o.jpg",
		Title:       "Alps",
		Status:      model.StatusArchived,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
	panoRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	panoRepo.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveCannotRestoreThroughEditSave(t *testing.T) {
	panoRepo := new(MockPanoramaRepo)
	uc := newPanoramaUsecase(panoRepo, new(MockTagRepo), new(MockObjectStorage))

	now := time.Now().UTC()
	panoRepo.On("GetByID", mock.Anything, "img-1").Return(&model.PanoramaImage{
		ID:         "img-1",
		Status:     model.StatusArchived,
		ArchivedAt: &now,
	}, nil)

	_, err := uc.Save(context.Background(), "user-1", &dto.SavePanoramaRequest{
		ID:          "img-1",
		OriginalURL: "https://cdn.example.com/o.jpg",
		Title:       "Alps",
		Status:      model.StatusDraft,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
	panoRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	panoRepo.AssertNotCalled(t, "Restore", mock.Anything, mock.Anything)
}

func TestSaveCannotEditPostedRecord(t *testing.T) {
	panoRepo := new(MockPanoramaRepo)
	uc := newPanoramaUsecase(panoRepo, new(MockTagRepo), new(MockObjectStorage))

	panoRepo.On("GetByID", mock.Anything, "img-1").Return(&model.PanoramaImage{
		ID:     "img-1",
		Status: model.StatusPosted,
	}, nil)

	_, err := uc.Save(context.Background(), "user-1", &dto.SavePanoramaRequest{
		ID:          "img-1",
		OriginalURL: "https://cdn.example.com/o.jpg",
		Title:       "Alps",
		Status:      model.StatusPosted,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
	panoRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSaveUpdateRejectsDisallowedTransition(t *testing.T) {
	panoRepo := new(MockPanoramaRepo)
	uc := newPanoramaUsecase(panoRepo, new(MockTagRepo), new(MockObjectStorage))

	panoRepo.On("GetByID", mock.Anything, "img-1").Return(&model.PanoramaImage{
		ID:     "img-1",
		Status: model.StatusArchived,
	}, nil)

	_, err := uc.Save(context.Background(), "user-1", &dto.SavePanoramaRequest{
		ID:          "img-1",
		OriginalURL: "https://cdn.example.com/o.jpg",
		Title:       "Alps",
		Status:      model.StatusReady,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
	panoRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSaveUpdateReplacesTagsAndPanels(t *testing.T) {
	panoRepo := new(MockPanoramaRepo)
	tagRepo := new(MockTagRepo)
	uc := newPanoramaUsecase(panoRepo, tagRepo, new(MockObjectStorage))

	panoRepo.On("GetByID", mock.Anything, "img-1").Return(&model.PanoramaImage{
		ID:     "img-1",
		Status: model.StatusDraft,
	}, nil)
	panoRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	tagRepo.On("DeleteForImage", mock.Anything, "img-1").Return(nil)
	tagRepo.On("GetBySlug", mock.Anything, "paris").Return(&model.Tag{ID: 3, Name: "Paris", Slug: "paris"}, nil)
	tagRepo.On("InsertImageTags", mock.Anything, "img-1", []int64{3}).Return(nil).Once()
	tagRepo.On("RecountUsage", mock.Anything).Return(nil)
	panoRepo.On("ReplacePanels", mock.Anything, "img-1", []string{"https://cdn.example.com/p/1.jpg"}).Return(nil).Once()
	tagRepo.On("ListForImage", mock.Anything, "img-1").Return([]string{"Paris"}, nil)

	img, err := uc.Save(context.Background(), "user-1", &dto.SavePanoramaRequest{
		ID:          "img-1",
		OriginalURL: "https://cdn.example.com/o.jpg",
		Title:       "Alps",
		Status:      model.StatusReady,
		Tags:        []string{"Paris"},
		PanelURLs:   []string{"https://cdn.example.com/p/1.jpg"},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, img.Tags)
	panoRepo.AssertExpectations(t)
	tagRepo.AssertExpectations(t)
}

func TestHardDeleteBestEffortStorageCleanup(t *testing.T) {
	panoRepo := new(MockPanoramaRepo)
	tagRepo := new(MockTagRepo)
	storage := new(MockObjectStorage)
	uc := newPanoramaUsecase(panoRepo, tagRepo, storage)

	img := &model.PanoramaImage{
		ID:           "img-1",
		OriginalURL:  "https://cdn.example.com/panoramas-raw/img-1.jpg",
		ProcessedURL: strPtr("https://elsewhere.example.net/foreign.jpg"),
	}
	panoRepo.On("GetByID", mock.Anything, "img-1").Return(img, nil)
	panoRepo.On("ListPanels", mock.Anything, "img-1").Return([]*model.PanoramaPanel{
		{PanelURL: "https://cdn.example.com/panoramas-processed/p1.jpg"},
	}, nil)
	storage.On("ObjectKeyFromURL", "https://cdn.example.com/panoramas-raw/img-1.jpg").
		Return("panoramas-raw", "img-1.jpg", true)
	storage.On("ObjectKeyFromURL", "https://elsewhere.example.net/foreign.jpg").
		Return("", "", false)
	storage.On("ObjectKeyFromURL", "https://cdn.example.com/panoramas-processed/p1.jpg").
		Return("panoramas-processed", "p1.jpg", true)
	storage.On("Delete", mock.Anything, "panoramas-raw", "img-1.jpg").Return(errors.New("access denied"))
	storage.On("Delete", mock.Anything, "panoramas-processed", "p1.jpg").Return(nil)
	panoRepo.On("DeletePanels", mock.Anything, "img-1").Return(nil)
	tagRepo.On("DeleteForImage", mock.Anything, "img-1").Return(nil)
	panoRepo.On("Delete", mock.Anything, "img-1").Return(nil)

	err := uc.HardDelete(context.Background(), "img-1")

	assert.NoError(t, err)
	storage.AssertExpectations(t)
	panoRepo.AssertExpectations(t)
}

func TestHardDeleteRowDeleteFailureIsFatal(t *testing.T) {
	panoRepo := new(MockPanoramaRepo)
	tagRepo := new(MockTagRepo)
	storage := new(MockObjectStorage)
	uc := newPanoramaUsecase(panoRepo, tagRepo, storage)

	panoRepo.On("GetByID", mock.Anything, "img-1").Return(&model.PanoramaImage{ID: "img-1"}, nil)
	panoRepo.On("ListPanels", mock.Anything, "img-1").Return([]*model.PanoramaPanel{}, nil)
	panoRepo.On("DeletePanels", mock.Anything, "img-1").Return(nil)
	tagRepo.On("DeleteForImage", mock.Anything, "img-1").Return(nil)
	panoRepo.On("Delete", mock.Anything, "img-1").Return(repository.ErrNotFound)

	err := uc.HardDelete(context.Background(), "img-1")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}
