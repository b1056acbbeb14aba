package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"content-generator/internal/mocks"
	"content-generator/internal/model"
	"content-generator/internal/service"
)

func TestSystemActorResolver_Existing(t *testing.T) {
	repo := mocks.NewMockActorRepository(t)
	existing := &model.SystemActor{ID: uuid.New(), Name: model.SystemActorName, Active: true}
	repo.On("GetByName", mock.Anything, model.SystemActorName).Return(existing, nil).Once()

	actor, err := service.NewSystemActorResolver(repo, zap.NewNop()).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, *existing, actor)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSystemActorResolver_CreatesMissing(t *testing.T) {
	repo := mocks.NewMockActorRepository(t)
	newID := uuid.New()
	repo.On("GetByName", mock.Anything, model.SystemActorName).Return(nil, model.ErrActorNotFound).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *model.SystemActor) bool {
		return a.Name == model.SystemActorName &&
			a.Email == model.SystemActorEmail &&
			a.Active &&
			strings.HasPrefix(a.PasswordHash, "$2a$")
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.SystemActor).ID = newID
	}).Return(nil).Once()

	actor, err := service.NewSystemActorResolver(repo, zap.NewNop()).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, newID, actor.ID)
}

func TestSystemActorResolver_CreateRace(t *testing.T) {
	repo := mocks.NewMockActorRepository(t)
	winner := &model.SystemActor{ID: uuid.New(), Name: model.SystemActorName}
	repo.On("GetByName", mock.Anything, model.SystemActorName).Return(nil, model.ErrActorNotFound).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(model.ErrActorAlreadyExists).Once()
	repo.On("GetByName", mock.Anything, model.SystemActorName).Return(winner, nil).Once()

	actor, err := service.NewSystemActorResolver(repo, zap.NewNop()).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, winner.ID, actor.ID)
}

func TestSystemActorResolver_LookupFailure(t *testing.T) {
	repo := mocks.NewMockActorRepository(t)
	repo.On("GetByName", mock.Anything, model.SystemActorName).Return(nil, errors.New("connection refused")).Once()

	_, err := service.NewSystemActorResolver(repo, zap.NewNop()).Resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSystemActorResolver_Concurrent(t *testing.T) {
	repo := mocks.NewMockActorRepository(t)
	existing := &model.SystemActor{ID: uuid.New(), Name: model.SystemActorName}
	repo.On("GetByName", mock.Anything, model.SystemActorName).
		After(20*time.Millisecond).
		Return(existing, nil)

	resolver := service.NewSystemActorResolver(repo, zap.NewNop())

	const callers = 8
	ids := make([]uuid.UUID, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor, err := resolver.Resolve(context.Background())
			assert.NoError(t, err)
			ids[i] = actor.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, existing.ID, id)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
