package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"bazaar/infras/otel"
	"bazaar/infras/postgres"
	"bazaar/internal/domains/booking/model"
	gDto "bazaar/shared/dto"
	gRepo "bazaar/shared/repository"
	"context"
)

type Submission interface {
	Insert(ctx context.Context, model model.Submission) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Submission, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Submission, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Submission]
}

func New(db *postgres.Connection, otel otel.Otel) Submission {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Submission](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
