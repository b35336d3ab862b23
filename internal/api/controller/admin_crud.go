package controller

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/vijayapps/vac_site/internal/content"
	"github.com/vijayapps/vac_site/internal/remote"
)

// FooterCrudService implements CrudService for footer items.
type FooterCrudService struct {
	Client remote.Client
}

func (s *FooterCrudService) All(ctx context.Context) ([]content.FooterItem, error) {
	return s.Client.ListFooterItems(ctx, "")
}

func (s *FooterCrudService) Save(ctx context.Context, item content.FooterItem) (content.FooterItem, error) {
	return s.Client.SaveFooterItem(ctx, item)
}

func (s *FooterCrudService) Remove(ctx context.Context, id string) error {
	return s.Client.DeleteFooterItem(ctx, id)
}

// TestimonialCrudService implements CrudService for testimonials.
type TestimonialCrudService struct {
	Client remote.Client
}

func (s *TestimonialCrudService) All(ctx context.Context) ([]content.Testimonial, error) {
	return s.Client.ListTestimonials(ctx)
}

func (s *TestimonialCrudService) Save(ctx context.Context, t content.Testimonial) (content.Testimonial, error) {
	return s.Client.SaveTestimonial(ctx, t)
}

func (s *TestimonialCrudService) Remove(ctx context.Context, id string) error {
	return s.Client.DeleteTestimonial(ctx, id)
}

// JobCrudService implements CrudService for job listings.
type JobCrudService struct {
	Client remote.Client
}

func (s *JobCrudService) All(ctx context.Context) ([]content.JobListing, error) {
	return s.Client.ListJobs(ctx)
}

func (s *JobCrudService) Save(ctx context.Context, j content.JobListing) (content.JobListing, error) {
	return s.Client.SaveJob(ctx, j)
}

func (s *JobCrudService) Remove(ctx context.Context, id string) error {
	return s.Client.DeleteJob(ctx, id)
}

// StructValidator validates any payload by its `validate` tags.
type StructValidator[T any] struct {
	validator *validator.Validate
}

func NewStructValidator[T any](v *validator.Validate) *StructValidator[T] {
	return &StructValidator[T]{validator: v}
}

func (v *StructValidator[T]) Validate(item T) error {
	return v.validator.Struct(item)
}
