package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"

	"content-generator/internal/model"
	"content-generator/internal/repository"
)

const generatedPasswordBytes = 24

// SystemActorResolver находит или создает синтетического автора.
// Конкурентные вызовы схлопываются через singleflight; гонка между процессами
// разрешается уникальным именем в хранилище и повторным чтением.
type SystemActorResolver struct {
	actors repository.ActorRepository
	group  singleflight.Group
	logger *zap.Logger
}

func NewSystemActorResolver(actors repository.ActorRepository, logger *zap.Logger) *SystemActorResolver {
	return &SystemActorResolver{actors: actors, logger: logger.Named("SystemActorResolver")}
}

// Resolve возвращает автора с именем model.SystemActorName.
func (r *SystemActorResolver) Resolve(ctx context.Context) (model.SystemActor, error) {
	v, err, shared := r.group.Do(model.SystemActorName, func() (any, error) {
		return r.resolve(ctx)
	})
	if err != nil {
		return model.SystemActor{}, err
	}
	if shared {
		r.logger.Debug("System actor resolution shared between callers")
	}
	return v.(model.SystemActor), nil
}

func (r *SystemActorResolver) resolve(ctx context.Context) (model.SystemActor, error) {
	actor, err := r.actors.GetByName(ctx, model.SystemActorName)
	if err == nil {
		return *actor, nil
	}
	if !errors.Is(err, model.ErrActorNotFound) {
		return model.SystemActor{}, fmt.Errorf("failed to look up system actor: %w", err)
	}

	hash, err := generatePasswordHash()
	if err != nil {
		return model.SystemActor{}, err
	}
	created := &model.SystemActor{
		Name:         model.SystemActorName,
		Email:        model.SystemActorEmail,
		PasswordHash: hash,
		Active:       true,
	}
	err = r.actors.Create(ctx, created)
	switch {
	case err == nil:
		r.logger.Info("System actor created", zap.String("actor_id", created.ID.String()))
		return *created, nil
	case errors.Is(err, model.ErrActorAlreadyExists):
		// Другой процесс создал автора раньше.
		existing, getErr := r.actors.GetByName(ctx, model.SystemActorName)
		if getErr != nil {
			return model.SystemActor{}, fmt.Errorf("failed to re-read system actor: %w", getErr)
		}
		return *existing, nil
	default:
		return model.SystemActor{}, fmt.Errorf("failed to create system actor: %w", err)
	}
}

// generatePasswordHash создает bcrypt хеш случайного пароля. Пароль нигде не сохраняется.
func generatePasswordHash() (string, error) {
	raw := make([]byte, generatedPasswordBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(base64.RawURLEncoding.EncodeToString(raw)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
